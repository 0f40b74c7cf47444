package proxy

import (
	"context"
	"errors"
	"net/http"
	"net/http/httputil"
	"time"

	"github.com/futig/agent-gateway/internal/entity"
	"github.com/futig/agent-gateway/internal/metrics"
	"github.com/futig/agent-gateway/internal/pkg/logger"
	"github.com/futig/agent-gateway/internal/pkg/response"
	"github.com/futig/agent-gateway/internal/rewrite"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// RequestIDHeader carries the correlation id to the backend.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// Handler forwards requests matched by a rewrite rule to its origin.
type Handler struct {
	rule    *rewrite.Rule
	proxy   *httputil.ReverseProxy
	metrics *metrics.Metrics
}

func New(rule *rewrite.Rule, transport http.RoundTripper, m *metrics.Metrics) *Handler {
	h := &Handler{
		rule:    rule,
		metrics: m,
	}

	h.proxy = &httputil.ReverseProxy{
		Rewrite:      h.rewrite,
		Transport:    transport,
		ErrorHandler: h.handleError,
	}

	return h
}

func (h *Handler) rewrite(pr *httputil.ProxyRequest) {
	pr.Out.URL = h.rule.Destination(pr.In.URL)
	// Empty Host makes the transport use the destination host.
	pr.Out.Host = ""
	pr.SetXForwarded()

	if id, ok := pr.In.Context().Value(requestIDKey{}).(string); ok {
		pr.Out.Header.Set(RequestIDHeader, id)
	}
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	reason := "upstream"
	switch {
	case errors.Is(err, context.Canceled):
		reason = "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		reason = "timeout"
	}
	h.metrics.ProxyErrors.WithLabelValues(reason).Inc()

	ctxzap.Error(ctx, "proxy request failed",
		zap.String("destination", h.rule.Destination(r.URL).String()),
		zap.String("reason", reason),
		zap.Error(err),
	)

	if reason == "timeout" {
		response.Error(w, http.StatusGatewayTimeout, "backend timed out")
		return
	}
	response.Error(w, http.StatusBadGateway, "backend unavailable")
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.rule.Match(r.URL.Path) {
		ctxzap.Debug(r.Context(), "proxy skipped", zap.String("path", r.URL.Path), zap.Error(entity.ErrNoRouteMatch))
		response.Error(w, http.StatusNotFound, entity.ErrNoRouteMatch.Error())
		return
	}

	requestID := upstreamRequestID(r)

	ctx := logger.AddFields(logger.WithAction(r.Context(), "Proxy"),
		zap.String("upstream_request_id", requestID),
	)
	ctx = context.WithValue(ctx, requestIDKey{}, requestID)

	start := time.Now()
	ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
	h.proxy.ServeHTTP(ww, r.WithContext(ctx))

	status := ww.Status()
	if status == 0 {
		status = http.StatusOK
	}
	h.metrics.ObserveProxy(r.Method, status, time.Since(start))

	ctxzap.Debug(ctx, "request proxied",
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("origin", h.rule.Origin()),
	)
}

// upstreamRequestID prefers the caller's id, then the one the router assigned,
// so gateway and backend logs share it.
func upstreamRequestID(r *http.Request) string {
	if id := r.Header.Get(RequestIDHeader); id != "" {
		return id
	}
	if id := middleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return uuid.NewString()
}
