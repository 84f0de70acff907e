package handler

import (
	"log/slog"
	"net/http"

	"github.com/mtlprog/bison-admin/internal/config"
	"github.com/mtlprog/bison-admin/internal/model"
	"github.com/mtlprog/bison-admin/internal/service"
	"github.com/mtlprog/bison-admin/internal/session"
	"github.com/mtlprog/bison-admin/internal/view"
)

const (
	tabManage = "manage"
	tabLog    = "log"
)

// ShellData holds data for every page rendered inside the admin layout.
type ShellData struct {
	Title   string
	Login   model.LoginInfo
	Tab     string
	ShowLog bool
	Notice  string
	Config  *view.ConfigPage
	Error   string
}

func (h *Handler) shellData(sess *session.Session, title string) ShellData {
	data := ShellData{Title: title, Notice: h.notice, Tab: tabManage}
	if sess != nil {
		data.Login = sess.Login
		data.ShowLog = sess.Login.IsAdmin()
	}
	return data
}

// Shell handles the admin layout: the subscription config page, or the log
// placeholder for admins.
func (h *Handler) Shell(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.currentSession(w, r)
	if !ok {
		h.render(w, http.StatusUnauthorized, "login.html", h.shellData(nil, "Login"))
		return
	}

	tab := r.URL.Query().Get("tab")
	if tab == tabLog && sess.Login.IsAdmin() {
		data := h.shellData(sess, "Logs")
		data.Tab = tabLog
		h.render(w, http.StatusOK, "log.html", data)
		return
	}
	if tab != "" && tab != tabManage {
		slog.Debug("ignoring unavailable tab", "tab", tab, "user", sess.Login.Name)
	}

	h.configPage(w, r, sess)
}

// configPage fetches the subscription list once and renders it.
func (h *Handler) configPage(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	data := h.shellData(sess, "Subscriptions")

	subs, err := h.bison.Subscriptions(r.Context(), sess.Login.Token)
	if err != nil {
		if service.IsUnauthorized(err) {
			slog.Info("backend rejected session token", "user", sess.Login.Name)
			h.sessions.Delete(sess.ID)
			clearSessionCookie(w)
			login := h.shellData(nil, "Login")
			login.Error = "Your session has expired, please log in again."
			h.render(w, http.StatusUnauthorized, "login.html", login)
			return
		}
		slog.Error("failed to fetch subscriptions", "user", sess.Login.Name, "error", err)
		data.Error = "Failed to fetch subscriptions, please retry later."
		h.render(w, http.StatusBadGateway, "config.html", data)
		return
	}

	page := view.BuildConfigPage(subs, h.conf)
	data.Config = &page
	h.render(w, http.StatusOK, "config.html", data)
}

// Login exchanges a one-time code from the bot for a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	login, err := h.bison.Auth(r.Context(), code)
	if err != nil {
		slog.Info("login failed", "error", err)
		data := h.shellData(nil, "Login")
		data.Error = "This login link is invalid or has expired."
		h.render(w, http.StatusUnauthorized, "login.html", data)
		return
	}

	sess := h.sessions.Create(*login)
	setSessionCookie(w, r, sess.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout drops the caller's session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(config.SessionCookie); err == nil {
		h.sessions.Delete(c.Value)
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
