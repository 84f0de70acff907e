package handler

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mtlprog/bison-admin/internal/config"
	"github.com/mtlprog/bison-admin/internal/model"
	"github.com/mtlprog/bison-admin/internal/session"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	bison       BisonServicer
	tmpl        TemplateRenderer
	conf        *model.GlobalConf
	sessions    *session.Store
	notice      string
	staticLogin *model.LoginInfo
	limit       func(http.Handler) http.Handler
}

// Option configures optional Handler behaviour.
type Option func(*Handler)

// WithNotice shows a markdown notice above every page.
func WithNotice(markdown string) Option {
	return func(h *Handler) {
		h.notice = markdown
	}
}

// WithStaticLogin logs every visitor in as login without the auth exchange.
// Intended for local use with a fixed backend token.
func WithStaticLogin(login model.LoginInfo) Option {
	return func(h *Handler) {
		h.staticLogin = &login
	}
}

// WithLookupLimiter wraps the endpoints that call the backend on every keystroke.
func WithLookupLimiter(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.limit = mw
	}
}

// New creates a new Handler with the given dependencies.
func New(bison BisonServicer, tmpl TemplateRenderer, conf *model.GlobalConf, sessions *session.Store, opts ...Option) (*Handler, error) {
	if bison == nil {
		return nil, errors.New("bison service is required")
	}
	if tmpl == nil {
		return nil, errors.New("templates are required")
	}
	if conf == nil {
		return nil, errors.New("global configuration is required")
	}
	if sessions == nil {
		return nil, errors.New("session store is required")
	}

	h := &Handler{
		bison:    bison,
		tmpl:     tmpl,
		conf:     conf,
		sessions: sessions,
		limit:    func(next http.Handler) http.Handler { return next },
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// RegisterRoutes registers all HTTP routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Shell)
	mux.HandleFunc("GET /auth/{code}", h.Login)
	mux.HandleFunc("POST /logout", h.Logout)
	mux.HandleFunc("GET /healthz", h.Health)

	mux.Handle("GET /subs/new", h.limit(http.HandlerFunc(h.OpenModal)))
	mux.Handle("POST /subs/new/{id}/platform", h.limit(http.HandlerFunc(h.ModalPlatform)))
	mux.Handle("POST /subs/new/{id}/target", h.limit(http.HandlerFunc(h.ModalTarget)))
	mux.HandleFunc("POST /subs/new/{id}/categories", h.ModalCategories)
	mux.HandleFunc("POST /subs/new/{id}/tags", h.ModalTags)
	mux.Handle("POST /subs/new/{id}/submit", h.limit(http.HandlerFunc(h.ModalSubmit)))
	mux.HandleFunc("POST /subs/new/{id}/cancel", h.ModalCancel)

	mux.HandleFunc("POST /subs/{group}/delete", h.NotImplemented)
	mux.HandleFunc("POST /subs/{group}/copy", h.NotImplemented)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte("ok")); err != nil {
		slog.Debug("failed to write response", "error", err)
	}
}

// NotImplemented answers the delete and copy card actions, which are shown
// as disabled controls until the backend flow for them exists.
func (h *Handler) NotImplemented(w http.ResponseWriter, r *http.Request) {
	slog.Debug("not implemented action requested", "path", r.URL.Path, "group", r.PathValue("group"))
	http.Error(w, "Not implemented", http.StatusNotImplemented)
}

// currentSession returns the caller's session. With a static login configured,
// a session is created on first use.
func (h *Handler) currentSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	if c, err := r.Cookie(config.SessionCookie); err == nil {
		if sess, ok := h.sessions.Get(c.Value); ok {
			return sess, true
		}
	}
	if h.staticLogin == nil {
		return nil, false
	}
	sess := h.sessions.Create(*h.staticLogin)
	setSessionCookie(w, r, sess.ID)
	return sess, true
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     config.SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     config.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := h.tmpl.Render(&buf, name, data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("failed to write response", "error", err)
	}
}

func (h *Handler) renderFragment(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := h.tmpl.RenderFragment(&buf, name, data); err != nil {
		slog.Error("failed to render fragment", "fragment", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("failed to write response", "error", err)
	}
}
