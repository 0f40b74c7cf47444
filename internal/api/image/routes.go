package image

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers image loader routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/_image", h.GetImage)
}
