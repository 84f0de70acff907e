package api

import (
	"log/slog"
	"net/http"

	"github.com/mtlprog/bison-admin/internal/service"
	"github.com/mtlprog/bison-admin/internal/view"
	"github.com/samber/lo"
)

// ListSubscriptions handles GET /api/v1/subscriptions.
//
//	@Summary		List subscriptions
//	@Description	Returns the caller's subscription groups as rendered on the config page
//	@Tags			subscriptions
//	@Produce		json
//	@Success		200	{object}	SubscriptionsResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		502	{object}	ErrorResponse
//	@Router			/api/v1/subscriptions [get]
func (h *Handler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	login, ok := h.login(w, r)
	if !ok {
		return
	}

	subs, err := h.subs.Subscriptions(r.Context(), login.Token)
	if err != nil {
		if service.IsUnauthorized(err) {
			h.writeError(w, http.StatusUnauthorized, "session expired")
			return
		}
		slog.Error("api: failed to fetch subscriptions", "user", login.Name, "error", err)
		h.writeError(w, http.StatusBadGateway, "failed to fetch subscriptions")
		return
	}

	page := view.BuildConfigPage(subs, h.conf)
	h.writeJSON(w, http.StatusOK, SubscriptionsResponse{
		Groups: lo.Map(page.Groups, func(g view.Group, _ int) GroupResponse {
			return GroupResponse{
				Key:   g.Key,
				Name:  g.Name,
				Title: g.Title,
				Cards: lo.Map(g.Cards, func(c view.Card, _ int) CardResponse {
					return CardResponse{
						Title:      c.Title,
						Platform:   c.Platform,
						Target:     c.Target,
						TargetName: c.TargetName,
						Categories: chips(c.Categories),
						Tags:       chips(c.Tags),
						Unknown:    c.Unknown,
					}
				}),
			}
		}),
	})
}

func chips(in []view.Chip) []ChipResponse {
	return lo.Map(in, func(c view.Chip, _ int) ChipResponse {
		return ChipResponse{Kind: string(c.Kind), Label: c.Label}
	})
}
