package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mtlprog/bison-admin/internal/form"
	"github.com/mtlprog/bison-admin/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *fakeClock) {
	t.Helper()
	s, err := NewStore(ttl)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	s.now = clock.Now
	return s, clock
}

func newTestForm(t *testing.T) *form.Form {
	t.Helper()
	conf := model.NewGlobalConf(map[string]model.PlatformConfig{"weibo": {Name: "Weibo", HasTarget: true}})
	f, err := form.New(conf, form.ResolverFunc(func(context.Context, string, string) (string, error) {
		return "", nil
	}), "1")
	require.NoError(t, err)
	return f
}

func TestNewStore(t *testing.T) {
	_, err := NewStore(0)
	assert.Error(t, err)

	_, err = NewStore(-time.Minute)
	assert.Error(t, err)
}

func TestCleanupInterval(t *testing.T) {
	tests := []struct {
		ttl  time.Duration
		want time.Duration
	}{
		{ttl: time.Millisecond, want: time.Second},
		{ttl: time.Minute, want: 30 * time.Second},
		{ttl: 12 * time.Hour, want: 10 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.ttl.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, cleanupInterval(tt.ttl))
		})
	}
}

func TestStore(t *testing.T) {
	login := model.LoginInfo{Type: model.LoginUser, ID: 7, Name: "doctor", Token: "jwt"}

	t.Run("create and get", func(t *testing.T) {
		s, _ := newTestStore(t, time.Hour)
		sess := s.Create(login)
		require.NotEmpty(t, sess.ID)

		got, ok := s.Get(sess.ID)
		require.True(t, ok)
		assert.Same(t, sess, got)

		info, ok := s.Login(sess.ID)
		require.True(t, ok)
		assert.Equal(t, login, info)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("unknown id", func(t *testing.T) {
		s, _ := newTestStore(t, time.Hour)
		_, ok := s.Get("missing")
		assert.False(t, ok)
		_, ok = s.Login("missing")
		assert.False(t, ok)
	})

	t.Run("idle session expires", func(t *testing.T) {
		s, clock := newTestStore(t, time.Hour)
		sess := s.Create(login)

		clock.Advance(59 * time.Minute)
		_, ok := s.Get(sess.ID)
		require.True(t, ok, "use refreshes the session")

		clock.Advance(59 * time.Minute)
		_, ok = s.Get(sess.ID)
		require.True(t, ok)

		clock.Advance(61 * time.Minute)
		_, ok = s.Get(sess.ID)
		assert.False(t, ok)
		assert.Zero(t, s.Len())
	})

	t.Run("cleanup removes idle sessions", func(t *testing.T) {
		s, clock := newTestStore(t, time.Hour)
		stale := s.Create(login)
		clock.Advance(2 * time.Hour)
		fresh := s.Create(login)

		s.cleanup()

		assert.Equal(t, 1, s.Len())
		_, ok := s.Get(fresh.ID)
		assert.True(t, ok)
		_, ok = s.Get(stale.ID)
		assert.False(t, ok)
	})

	t.Run("delete", func(t *testing.T) {
		s, _ := newTestStore(t, time.Hour)
		sess := s.Create(login)
		s.Delete(sess.ID)
		_, ok := s.Get(sess.ID)
		assert.False(t, ok)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		s, _ := newTestStore(t, time.Hour)
		assert.NotPanics(t, func() {
			s.Close()
			s.Close()
		})
	})
}

func TestSessionForms(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)
	sess := s.Create(model.LoginInfo{Name: "doctor"})

	t.Run("add, get and remove", func(t *testing.T) {
		f := newTestForm(t)
		id := sess.AddForm(f)
		require.NotEmpty(t, id)

		got, ok := sess.Form(id)
		require.True(t, ok)
		assert.Same(t, f, got)

		sess.RemoveForm(id)
		_, ok = sess.Form(id)
		assert.False(t, ok)
	})

	t.Run("oldest form is cancelled past the limit", func(t *testing.T) {
		first := newTestForm(t)
		firstID := sess.AddForm(first)

		var lastID string
		for range maxFormsPerSession {
			lastID = sess.AddForm(newTestForm(t))
		}

		_, ok := sess.Form(firstID)
		assert.False(t, ok)
		assert.Equal(t, form.StateIdle, first.State())

		_, ok = sess.Form(lastID)
		assert.True(t, ok)
	})
}
