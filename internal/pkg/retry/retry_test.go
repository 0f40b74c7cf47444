package retry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	pkghttp "github.com/futig/agent-gateway/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() *RetryConfig {
	return &RetryConfig{Attempts: 3, Delay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"network", &pkghttp.NetworkError{Err: errors.New("connection refused")}, true},
		{"client timeout", &pkghttp.NetworkError{Err: fmt.Errorf("Get: %w", context.DeadlineExceeded)}, true},
		{"server error", &pkghttp.HTTPError{StatusCode: http.StatusServiceUnavailable}, true},
		{"rate limited", &pkghttp.HTTPError{StatusCode: http.StatusTooManyRequests}, true},
		{"not found", &pkghttp.HTTPError{StatusCode: http.StatusNotFound}, false},
		{"other", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestDoRetriesTimedOutRequests(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), fastConfig(), func() (string, error) {
		calls++
		if calls < 3 {
			return "", &pkghttp.NetworkError{Err: fmt.Errorf("Get: %w", context.DeadlineExceeded)}
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnClientErrors(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastConfig(), func() (int, error) {
		calls++
		return 0, &pkghttp.HTTPError{StatusCode: http.StatusBadRequest}
	})

	var httpErr *pkghttp.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, 1, calls)
}

func TestDoStopsWhenCallerCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	_, err := Do(ctx, fastConfig(), func() (int, error) {
		calls++
		cancel()
		return 0, &pkghttp.NetworkError{Err: context.Canceled}
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
