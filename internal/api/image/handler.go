package image

import (
	"errors"
	"net/http"

	"github.com/futig/agent-gateway/internal/entity"
	"github.com/futig/agent-gateway/internal/pkg/logger"
	"github.com/futig/agent-gateway/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const cacheControl = "public, max-age=600, must-revalidate"

type Handler struct {
	usecase  ImageUsecase
	recorder ResultRecorder
}

func NewHandler(usecase ImageUsecase, recorder ResultRecorder) *Handler {
	return &Handler{
		usecase:  usecase,
		recorder: recorder,
	}
}

// GetImage handles GET /_image?url=
func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetImage")

	rawURL := r.URL.Query().Get("url")

	img, hit, err := h.usecase.Load(ctx, rawURL)
	if err != nil {
		status, message := mapError(err)
		h.recorder.Record(resultLabel(status))
		if status >= http.StatusInternalServerError {
			ctxzap.Error(ctx, "failed to load image", zap.String("url", rawURL), zap.Error(err))
		} else {
			ctxzap.Warn(ctx, "rejected image request", zap.String("url", rawURL), zap.Error(err))
		}
		response.Error(w, status, message)
		return
	}

	if hit {
		w.Header().Set("X-Cache", "HIT")
		h.recorder.Record("hit")
	} else {
		w.Header().Set("X-Cache", "MISS")
		h.recorder.Record("miss")
	}
	w.Header().Set("Cache-Control", cacheControl)

	response.Blob(w, http.StatusOK, img.ContentType, img.Body)
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, entity.ErrMissingImageURL):
		return http.StatusBadRequest, "url query parameter is required"
	case errors.Is(err, entity.ErrInvalidImageURL):
		return http.StatusBadRequest, "url must be an absolute http(s) url"
	case errors.Is(err, entity.ErrImageHostBlocked):
		return http.StatusBadRequest, "image host is not allowed"
	case errors.Is(err, entity.ErrNotAnImage):
		return http.StatusBadGateway, "upstream did not return an image"
	case errors.Is(err, entity.ErrImageTooLarge):
		return http.StatusBadGateway, "upstream image is too large"
	case errors.Is(err, entity.ErrImageFetchFailed):
		return http.StatusBadGateway, "failed to fetch upstream image"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func resultLabel(status int) string {
	if status < http.StatusInternalServerError {
		return "rejected"
	}
	return "error"
}
