package image

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/futig/agent-gateway/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Usecase loads remote images from allowlisted hosts through a TTL cache.
type Usecase struct {
	fetcher    Fetcher
	allowed    map[string]struct{}
	cache      *cache.Cache
	maxEntries int
	logger     *zap.Logger
}

// NewUsecase caches at most maxEntries images for ttl each.
func NewUsecase(fetcher Fetcher, domains []string, ttl time.Duration, maxEntries int, logger *zap.Logger) *Usecase {
	allowed := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		allowed[strings.ToLower(d)] = struct{}{}
	}

	return &Usecase{
		fetcher:    fetcher,
		allowed:    allowed,
		cache:      cache.New(ttl, 2*ttl),
		maxEntries: maxEntries,
		logger:     logger,
	}
}

// Load returns the image and whether it was served from cache.
func (u *Usecase) Load(ctx context.Context, rawURL string) (*entity.Image, bool, error) {
	target, err := u.validate(rawURL)
	if err != nil {
		return nil, false, err
	}

	key := target.String()
	if cached, ok := u.cache.Get(key); ok {
		ctxzap.Debug(ctx, "image cache hit", zap.String("url", key))
		return cached.(*entity.Image), true, nil
	}

	img, err := u.fetcher.Fetch(ctx, key)
	if err != nil {
		return nil, false, err
	}

	u.store(ctx, key, img)
	return img, false, nil
}

// store skips caching once the cache is full of live entries.
func (u *Usecase) store(ctx context.Context, key string, img *entity.Image) {
	if u.cache.ItemCount() >= u.maxEntries {
		u.cache.DeleteExpired()
		if u.cache.ItemCount() >= u.maxEntries {
			ctxzap.Debug(ctx, "image cache full, not caching", zap.String("url", key), zap.Int("max_entries", u.maxEntries))
			return
		}
	}
	u.cache.SetDefault(key, img)
}

// Allowed reports whether host may be used as an image source.
func (u *Usecase) Allowed(host string) bool {
	_, ok := u.allowed[strings.ToLower(host)]
	return ok
}

func (u *Usecase) validate(rawURL string) (*url.URL, error) {
	if rawURL == "" {
		return nil, entity.ErrMissingImageURL
	}

	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidImageURL, err)
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme %q", entity.ErrInvalidImageURL, target.Scheme)
	}
	if target.Hostname() == "" {
		return nil, fmt.Errorf("%w: host is empty", entity.ErrInvalidImageURL)
	}
	if target.User != nil {
		return nil, fmt.Errorf("%w: credentials are not allowed", entity.ErrInvalidImageURL)
	}
	if !u.Allowed(target.Hostname()) {
		return nil, fmt.Errorf("%w: %s", entity.ErrImageHostBlocked, target.Hostname())
	}

	target.Fragment = ""
	return target, nil
}
