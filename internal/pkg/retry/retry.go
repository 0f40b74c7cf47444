package retry

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	pkghttp "github.com/futig/agent-gateway/pkg/http"
)

type RetryConfig struct {
	Attempts uint          `env:"ATTEMPTS" envDefault:"3"`
	Delay    time.Duration `env:"DELAY" envDefault:"100ms"`
	MaxDelay time.Duration `env:"MAX_DELAY" envDefault:"2s"`
}

func (rc *RetryConfig) ToRetryOptions() []retry.Option {
	return []retry.Option{
		retry.Attempts(rc.Attempts),
		retry.MaxDelay(rc.MaxDelay),
		retry.Delay(rc.Delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	}
}

// IsRetryable retries network failures, timeouts included, and retryable
// upstream statuses. Client-side errors are final.
func IsRetryable(err error) bool {
	var netErr *pkghttp.NetworkError
	if errors.As(err, &netErr) {
		return true
	}

	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Retryable()
	}

	return false
}

// Do runs fn with the configured retry policy, bound to ctx. Once ctx is done
// no further attempt is made.
func Do[T any](ctx context.Context, rc *RetryConfig, fn func() (T, error)) (T, error) {
	opts := append(rc.ToRetryOptions(),
		retry.Context(ctx),
		retry.RetryIf(func(err error) bool {
			return ctx.Err() == nil && IsRetryable(err)
		}),
	)
	return retry.DoWithData(fn, opts...)
}
