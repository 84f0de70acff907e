package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mtlprog/bison-admin/internal/model"
	"golang.org/x/sync/singleflight"
)

const maxErrorBody = 512

// ErrAuthFailed is returned when the backend rejects a login code.
var ErrAuthFailed = errors.New("login code rejected")

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// IsUnauthorized reports whether err is a 401 or 403 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}

// BisonService talks to the subscription backend API.
type BisonService struct {
	baseURL *url.URL
	client  *http.Client
	lookups singleflight.Group
}

// NewBisonService creates a client for the backend rooted at apiURL.
func NewBisonService(apiURL string, timeout time.Duration) (*BisonService, error) {
	if apiURL == "" {
		return nil, errors.New("api URL is required")
	}
	base, err := url.Parse(strings.TrimSuffix(apiURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse api URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api URL must be http or https, got %q", base.Scheme)
	}
	return &BisonService{
		baseURL: base,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// GlobalConf fetches the platform configuration.
func (s *BisonService) GlobalConf(ctx context.Context) (map[string]model.PlatformConfig, error) {
	var resp struct {
		PlatformConf map[string]model.PlatformConfig `json:"platformConf"`
	}
	if err := s.do(ctx, http.MethodGet, "global_conf", nil, "", nil, &resp); err != nil {
		return nil, err
	}
	return resp.PlatformConf, nil
}

// Auth exchanges a one-time login code for a session identity.
func (s *BisonService) Auth(ctx context.Context, code string) (*model.LoginInfo, error) {
	var resp struct {
		Status int `json:"status"`
		model.LoginInfo
	}
	query := url.Values{"token": {code}}
	if err := s.do(ctx, http.MethodGet, "auth", query, "", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK || resp.Token == "" {
		return nil, ErrAuthFailed
	}
	login := resp.LoginInfo
	return &login, nil
}

// Subscriptions fetches all subscription groups visible to the token.
func (s *BisonService) Subscriptions(ctx context.Context, token string) (model.SubscribeResp, error) {
	var resp model.SubscribeResp
	if err := s.do(ctx, http.MethodGet, "subs", nil, token, nil, &resp); err != nil {
		return nil, err
	}
	if resp == nil {
		resp = model.SubscribeResp{}
	}
	return resp, nil
}

// TargetName resolves the display name of target on platform. An empty
// name means the target does not exist. Identical concurrent lookups share
// one backend call. The shared call ignores caller cancellation and is bounded
// by the client timeout; each caller returns when its own ctx is done.
func (s *BisonService) TargetName(ctx context.Context, token, platform, target string) (string, error) {
	key := token + "\x00" + platform + "\x00" + target
	shared := context.WithoutCancel(ctx)
	ch := s.lookups.DoChan(key, func() (any, error) {
		var resp struct {
			TargetName string `json:"targetName"`
		}
		query := url.Values{"platformName": {platform}, "target": {target}}
		if err := s.do(shared, http.MethodGet, "target_name", query, token, nil, &resp); err != nil {
			return "", err
		}
		return resp.TargetName, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Shared {
			slog.Debug("shared target lookup", "platform", platform)
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// AddSubscription creates a subscription in the given group.
func (s *BisonService) AddSubscription(ctx context.Context, token, group string, req model.AddSubscribeReq) error {
	query := url.Values{"groupNumber": {group}}
	return s.do(ctx, http.MethodPost, "subs", query, token, req, nil)
}

func (s *BisonService) do(ctx context.Context, method, path string, query url.Values, token string, body, out any) error {
	u := s.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			Method: method,
			Path:   path,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(msg)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
