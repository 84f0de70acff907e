package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mtlprog/bison-admin/internal/config"
	"github.com/mtlprog/bison-admin/internal/form"
	"github.com/mtlprog/bison-admin/internal/model"
	"github.com/mtlprog/bison-admin/internal/session"
)

// ModalData holds data for the add-subscription modal fragment.
type ModalData struct {
	ID   string
	Form form.View
}

// OpenModal handles GET /subs/new - opens an add-subscription form for a group.
func (h *Handler) OpenModal(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.currentSession(w, r)
	if !ok {
		http.Error(w, "Not logged in", http.StatusUnauthorized)
		return
	}

	group := strings.TrimSpace(r.URL.Query().Get("group"))
	if group == "" {
		http.Error(w, "Group is required", http.StatusBadRequest)
		return
	}

	token := sess.Login.Token
	resolver := form.ResolverFunc(func(ctx context.Context, platform, target string) (string, error) {
		return h.bison.TargetName(ctx, token, platform, target)
	})

	f, err := form.New(h.conf, resolver, group)
	if err != nil {
		slog.Error("failed to open form", "group", group, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	id := sess.AddForm(f)
	slog.Debug("form opened", "form", id, "group", group, "user", sess.Login.Name)

	h.renderFragment(w, "modal", ModalData{ID: id, Form: f.Snapshot()})
}

// openForm resolves the session and form addressed by the request path.
// It writes the error response itself when either is missing.
func (h *Handler) openForm(w http.ResponseWriter, r *http.Request) (*session.Session, string, *form.Form, bool) {
	sess, ok := h.currentSession(w, r)
	if !ok {
		http.Error(w, "Not logged in", http.StatusUnauthorized)
		return nil, "", nil, false
	}
	id := r.PathValue("id")
	f, ok := sess.Form(id)
	if !ok {
		http.Error(w, "Form not found", http.StatusNotFound)
		return nil, "", nil, false
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return nil, "", nil, false
	}
	return sess, id, f, true
}

// respond renders the form after a transition. A closed form is dropped from
// the session and the modal is emptied.
func (h *Handler) respond(w http.ResponseWriter, sess *session.Session, id string, v form.View, err error) {
	switch {
	case errors.Is(err, form.ErrClosed):
		sess.RemoveForm(id)
		w.WriteHeader(http.StatusOK)
		return
	case err != nil:
		slog.Debug("form transition rejected", "form", id, "error", err)
	}
	h.renderFragment(w, "modal", ModalData{ID: id, Form: v})
}

// ModalPlatform handles POST /subs/new/{id}/platform.
func (h *Handler) ModalPlatform(w http.ResponseWriter, r *http.Request) {
	sess, id, f, ok := h.openForm(w, r)
	if !ok {
		return
	}
	v, err := f.SelectPlatform(r.Context(), r.FormValue("platform"))
	h.respond(w, sess, id, v, err)
}

// ModalTarget handles POST /subs/new/{id}/target - validates the account field.
func (h *Handler) ModalTarget(w http.ResponseWriter, r *http.Request) {
	sess, id, f, ok := h.openForm(w, r)
	if !ok {
		return
	}
	target := r.FormValue("target")
	if utf8.RuneCountInString(target) > config.MaxTargetLength {
		http.Error(w, "Account is too long", http.StatusBadRequest)
		return
	}
	v, err := f.EditTarget(r.Context(), target)
	h.respond(w, sess, id, v, err)
}

// ModalCategories handles POST /subs/new/{id}/categories.
func (h *Handler) ModalCategories(w http.ResponseWriter, r *http.Request) {
	sess, id, f, ok := h.openForm(w, r)
	if !ok {
		return
	}

	raw := r.Form["categories"]
	ids := make([]int, 0, len(raw))
	for _, s := range raw {
		n, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, "Invalid category", http.StatusBadRequest)
			return
		}
		ids = append(ids, n)
	}

	v, err := f.SetCategories(ids)
	h.respond(w, sess, id, v, err)
}

// ModalTags handles POST /subs/new/{id}/tags - add or remove one tag.
func (h *Handler) ModalTags(w http.ResponseWriter, r *http.Request) {
	sess, id, f, ok := h.openForm(w, r)
	if !ok {
		return
	}

	tag := r.FormValue("tag")
	var (
		v   form.View
		err error
	)
	switch r.FormValue("action") {
	case "add":
		v, err = f.AddTag(tag)
	case "remove":
		v, err = f.RemoveTag(tag)
	default:
		http.Error(w, "Unknown action", http.StatusBadRequest)
		return
	}
	h.respond(w, sess, id, v, err)
}

// ModalSubmit handles POST /subs/new/{id}/submit. On success the form is
// discarded and the page reloads to show the new subscription.
func (h *Handler) ModalSubmit(w http.ResponseWriter, r *http.Request) {
	sess, id, f, ok := h.openForm(w, r)
	if !ok {
		return
	}

	token := sess.Login.Token
	submitter := form.SubmitterFunc(func(ctx context.Context, s form.Submission) error {
		return h.bison.AddSubscription(ctx, token, s.Group, model.AddSubscribeReq{
			PlatformName: s.Platform,
			Target:       s.Target,
			TargetName:   s.TargetName,
			Categories:   s.Categories,
			Tags:         s.Tags,
		})
	})

	v, err := f.Submit(r.Context(), submitter)
	if err == nil {
		sess.RemoveForm(id)
		slog.Info("subscription added", "group", v.Group, "platform", v.Platform, "target", v.Target, "user", sess.Login.Name)
		w.Header().Set("HX-Refresh", "true")
		w.WriteHeader(http.StatusOK)
		return
	}
	if !errors.Is(err, form.ErrInvalid) && !errors.Is(err, form.ErrClosed) && !errors.Is(err, form.ErrBusy) {
		slog.Error("failed to add subscription", "group", v.Group, "platform", v.Platform, "error", err)
	}
	h.respond(w, sess, id, v, err)
}

// ModalCancel handles POST /subs/new/{id}/cancel.
func (h *Handler) ModalCancel(w http.ResponseWriter, r *http.Request) {
	sess, id, f, ok := h.openForm(w, r)
	if !ok {
		return
	}
	f.Cancel()
	sess.RemoveForm(id)
	w.WriteHeader(http.StatusOK)
}
