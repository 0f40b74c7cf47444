package settings

import (
	"net/http"

	"github.com/futig/agent-gateway/internal/entity"
	"github.com/futig/agent-gateway/internal/pkg/response"
	"github.com/go-chi/chi/v5"
)

// Handler exposes the effective gateway configuration. The payload is fixed
// at startup.
type Handler struct {
	dto entity.GatewayConfigDTO
}

func NewHandler(dto entity.GatewayConfigDTO) *Handler {
	return &Handler{dto: dto}
}

// GetConfig handles GET /config
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.dto)
}

// RegisterRoutes registers configuration routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/config", h.GetConfig)
}
