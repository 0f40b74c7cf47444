package image

import (
	"context"

	"github.com/futig/agent-gateway/internal/entity"
)

type ImageUsecase interface {
	Load(ctx context.Context, rawURL string) (*entity.Image, bool, error)
}

type ResultRecorder interface {
	Record(result string)
}
