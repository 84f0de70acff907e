package api

import (
	"net/http"

	"github.com/samber/lo"
)

// ListPlatforms handles GET /api/v1/platforms.
//
//	@Summary		List platforms
//	@Description	Returns every configured platform with its capability flags and categories, sorted by key
//	@Tags			platforms
//	@Produce		json
//	@Success		200	{array}	PlatformResponse
//	@Router			/api/v1/platforms [get]
func (h *Handler) ListPlatforms(w http.ResponseWriter, r *http.Request) {
	platforms := lo.Map(h.conf.PlatformKeys(), func(key string, _ int) PlatformResponse {
		p, _ := h.conf.Platform(key)
		return PlatformResponse{
			Key:        key,
			Name:       p.Name,
			HasTarget:  p.HasTarget,
			EnabledTag: p.EnabledTag,
			Categories: lo.Map(p.Categories.IDs(), func(id int, _ int) CategoryResponse {
				return CategoryResponse{ID: id, Label: p.Categories[id]}
			}),
		}
	})
	h.writeJSON(w, http.StatusOK, platforms)
}
