package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/mtlprog/bison-admin/internal/config"
	"github.com/mtlprog/bison-admin/internal/model"
)

// Handler holds dependencies for API handlers.
type Handler struct {
	subs       subscriptionFetcher
	sessions   sessionLookup
	conf       *model.GlobalConf
	bufferPool *sync.Pool // Pool of bytes.Buffer for JSON encoding
}

// New creates a new API Handler.
func New(subs subscriptionFetcher, sessions sessionLookup, conf *model.GlobalConf) (*Handler, error) {
	if subs == nil {
		return nil, errors.New("subscription fetcher is required")
	}
	if sessions == nil {
		return nil, errors.New("session lookup is required")
	}
	if conf == nil {
		return nil, errors.New("global configuration is required")
	}
	return &Handler{
		subs:     subs,
		sessions: sessions,
		conf:     conf,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
	}, nil
}

// RegisterRoutes registers all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/platforms", h.ListPlatforms)
	mux.HandleFunc("GET /api/v1/subscriptions", h.ListSubscriptions)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	buf := h.bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		h.bufferPool.Put(buf)
	}()

	if err := json.NewEncoder(buf).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
		http.Error(w, `{"error":"internal server error","code":500}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, ErrorResponse{
		Error: msg,
		Code:  status,
	})
}

// login returns the caller's login from the session cookie, writing a 401
// when there is none.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) (model.LoginInfo, bool) {
	c, err := r.Cookie(config.SessionCookie)
	if err == nil {
		if login, ok := h.sessions.Login(c.Value); ok {
			return login, true
		}
	}
	h.writeError(w, http.StatusUnauthorized, "not logged in")
	return model.LoginInfo{}, false
}
