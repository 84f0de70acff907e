package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mtlprog/bison-admin/internal/config"
	"github.com/mtlprog/bison-admin/internal/model"
	"github.com/mtlprog/bison-admin/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fetcherMock struct {
	mock.Mock
}

func (m *fetcherMock) Subscriptions(ctx context.Context, token string) (model.SubscribeResp, error) {
	args := m.Called(ctx, token)
	resp, _ := args.Get(0).(model.SubscribeResp)
	return resp, args.Error(1)
}

type staticSessions map[string]model.LoginInfo

func (s staticSessions) Login(id string) (model.LoginInfo, bool) {
	l, ok := s[id]
	return l, ok
}

func testConf() *model.GlobalConf {
	return model.NewGlobalConf(map[string]model.PlatformConfig{
		"weibo": {
			Name: "Weibo", HasTarget: true, EnabledTag: true,
			Categories: model.CategoryConfig{2: "reposts", 1: "posts"},
		},
		"arknights": {Name: "Arknights"},
	})
}

func newTestAPI(t *testing.T) (*fetcherMock, *http.ServeMux) {
	t.Helper()
	fetcher := &fetcherMock{}
	t.Cleanup(func() { fetcher.AssertExpectations(t) })

	h, err := New(fetcher, staticSessions{"sid": {Name: "doctor", Token: "jwt"}}, testConf())
	require.NoError(t, err)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return fetcher, mux
}

func serve(mux *http.ServeMux, path string, withSession bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if withSession {
		req.AddCookie(&http.Cookie{Name: config.SessionCookie, Value: "sid"})
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestNew(t *testing.T) {
	sessions := staticSessions{}

	_, err := New(nil, sessions, testConf())
	assert.ErrorContains(t, err, "subscription fetcher")

	_, err = New(&fetcherMock{}, nil, testConf())
	assert.ErrorContains(t, err, "session lookup")

	_, err = New(&fetcherMock{}, sessions, nil)
	assert.ErrorContains(t, err, "global configuration")
}

func TestListPlatforms(t *testing.T) {
	_, mux := newTestAPI(t)

	rec := serve(mux, "/api/v1/platforms", false)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []PlatformResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []PlatformResponse{
		{Key: "arknights", Name: "Arknights", Categories: []CategoryResponse{}},
		{
			Key: "weibo", Name: "Weibo", HasTarget: true, EnabledTag: true,
			Categories: []CategoryResponse{{ID: 1, Label: "posts"}, {ID: 2, Label: "reposts"}},
		},
	}, got)
}

func TestListSubscriptions(t *testing.T) {
	t.Run("requires session", func(t *testing.T) {
		_, mux := newTestAPI(t)

		rec := serve(mux, "/api/v1/subscriptions", false)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"not logged in","code":401}`, rec.Body.String())
	})

	t.Run("groups keep backend order", func(t *testing.T) {
		fetcher, mux := newTestAPI(t)
		fetcher.On("Subscriptions", mock.Anything, "jwt").Return(model.SubscribeResp{
			{Key: "2", Name: "B", Subscribes: []model.SubscribeConfig{
				{TargetType: "weibo", Target: "1", TargetName: "Someone", Cats: []int{1}, Tags: []string{}},
			}},
			{Key: "1", Name: "A", Subscribes: []model.SubscribeConfig{
				{TargetType: "myspace", Target: "tom", TargetName: "Tom"},
			}},
		}, nil).Once()

		rec := serve(mux, "/api/v1/subscriptions", true)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"groups":[
			{"key":"2","name":"B","title":"2 - B","cards":[
				{"title":"Weibo - Someone","platform":"weibo","target":"1","target_name":"Someone",
				 "categories":[{"kind":"value","label":"posts"}],
				 "tags":[{"kind":"all","label":"all tags"}]}
			]},
			{"key":"1","name":"A","title":"1 - A","cards":[
				{"title":"unknown platform (myspace) - Tom","platform":"myspace","target":"tom","target_name":"Tom",
				 "categories":[],"tags":[],"unknown_platform":true}
			]}
		]}`, rec.Body.String())
	})

	t.Run("empty list", func(t *testing.T) {
		fetcher, mux := newTestAPI(t)
		fetcher.On("Subscriptions", mock.Anything, "jwt").Return(model.SubscribeResp{}, nil).Once()

		rec := serve(mux, "/api/v1/subscriptions", true)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"groups":[]}`, rec.Body.String())
	})

	t.Run("expired backend token", func(t *testing.T) {
		fetcher, mux := newTestAPI(t)
		fetcher.On("Subscriptions", mock.Anything, "jwt").
			Return(nil, &service.APIError{Status: http.StatusForbidden}).Once()

		rec := serve(mux, "/api/v1/subscriptions", true)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("backend failure", func(t *testing.T) {
		fetcher, mux := newTestAPI(t)
		fetcher.On("Subscriptions", mock.Anything, "jwt").Return(nil, errors.New("down")).Once()

		rec := serve(mux, "/api/v1/subscriptions", true)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.JSONEq(t, `{"error":"failed to fetch subscriptions","code":502}`, rec.Body.String())
	})
}
