package image

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/futig/agent-gateway/internal/config"
	"github.com/futig/agent-gateway/internal/entity"
	"github.com/futig/agent-gateway/internal/integration/common"
	pkgRetry "github.com/futig/agent-gateway/internal/pkg/retry"
	pkghttp "github.com/futig/agent-gateway/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Connector struct {
	config    config.ImageConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.ImageConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, cfg.MaxSize, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Fetch downloads an image from an absolute URL, retrying transient failures.
func (c *Connector) Fetch(ctx context.Context, rawURL string) (*entity.Image, error) {
	attempt := 0
	resp, err := pkgRetry.Do(ctx, &c.config.Retry, func() (*pkghttp.Response, error) {
		attempt++
		if attempt > 1 {
			ctxzap.Debug(ctx, "retrying image fetch", zap.Int("attempt", attempt))
		}
		return c.connector.Get(ctx, "", pkghttp.WithURL(rawURL), pkghttp.WithHeader("Accept", "image/*"))
	})
	if err != nil {
		ctxzap.Warn(ctx, "image fetch failed", zap.String("url", rawURL), zap.Int("attempts", attempt), zap.Error(err))
		if errors.Is(err, pkghttp.ErrBodyTooLarge) {
			return nil, fmt.Errorf("%w: %v", entity.ErrImageTooLarge, err)
		}
		return nil, fmt.Errorf("%w: %v", entity.ErrImageFetchFailed, err)
	}

	contentType := resp.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return nil, fmt.Errorf("%w: content type %q", entity.ErrNotAnImage, contentType)
	}

	ctxzap.Debug(ctx, "image fetched",
		zap.String("content_type", contentType),
		zap.Int("size", len(resp.Body)),
	)

	return &entity.Image{
		ContentType: contentType,
		Body:        resp.Body,
	}, nil
}
