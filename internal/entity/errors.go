package entity

import "errors"

// Domain errors
var (
	// Rewrite errors
	ErrUnknownPolicy = errors.New("unknown rewrite policy")
	ErrInvalidOrigin = errors.New("invalid backend origin")
	ErrNoRouteMatch  = errors.New("path does not match rewrite rule")

	// Image errors
	ErrMissingImageURL  = errors.New("image url is required")
	ErrInvalidImageURL  = errors.New("invalid image url")
	ErrImageHostBlocked = errors.New("image host is not allowed")
	ErrNotAnImage       = errors.New("upstream response is not an image")
	ErrImageFetchFailed = errors.New("failed to fetch image")
	ErrImageTooLarge    = errors.New("image too large")

	// Devstack errors
	ErrEnvFileMissing     = errors.New("environment file missing")
	ErrTemplateMissing    = errors.New("environment template missing")
	ErrComposeFileMissing = errors.New("compose file missing")
	ErrComposeFailed      = errors.New("container orchestration failed")
)
