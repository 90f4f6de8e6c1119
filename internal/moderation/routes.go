package moderation

import "github.com/go-chi/chi/v5"

// MountRoutes registers the moderation endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/comments", h.List)
	r.Post("/comments/{id}/{action}", h.Act)
}
