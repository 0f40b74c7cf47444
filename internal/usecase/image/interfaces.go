package image

import (
	"context"

	"github.com/futig/agent-gateway/internal/entity"
)

type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*entity.Image, error)
}
