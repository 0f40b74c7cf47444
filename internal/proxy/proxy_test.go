package proxy

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/futig/agent-gateway/internal/metrics"
	"github.com/futig/agent-gateway/internal/rewrite"
	pkghttp "github.com/futig/agent-gateway/pkg/http"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seen struct {
	Method    string
	URI       string
	Host      string
	RequestID string
	Forwarded string
	ClientIP  string
	Proto     string
	Body      string
}

func newBackend(t *testing.T) (*httptest.Server, chan seen) {
	t.Helper()
	got := make(chan seen, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got <- seen{
			Method:    r.Method,
			URI:       r.URL.RequestURI(),
			Host:      r.Host,
			RequestID: r.Header.Get(RequestIDHeader),
			Forwarded: r.Header.Get("X-Forwarded-Host"),
			ClientIP:  r.Header.Get("X-Forwarded-For"),
			Proto:     r.Header.Get("X-Forwarded-Proto"),
			Body:      string(body),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func newHandler(t *testing.T, origin string, opts ...pkghttp.HttpOpts) (*Handler, *metrics.Metrics) {
	t.Helper()
	rule, err := rewrite.NewRule(rewrite.DefaultPrefix, origin)
	require.NoError(t, err)
	m := metrics.New()
	opts = append([]pkghttp.HttpOpts{pkghttp.WithConnClientTimeout(time.Second)}, opts...)
	return New(rule, pkghttp.NewTransport(opts...), m), m
}

func TestProxyForwardsPathAndQuery(t *testing.T) {
	backend, got := newBackend(t)
	h, m := newHandler(t, backend.URL)

	req := httptest.NewRequest(http.MethodGet, "http://gateway.local/api/foo?x=1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	s := <-got
	assert.Equal(t, "/api/foo?x=1", s.URI)
	assert.Equal(t, backend.Listener.Addr().String(), s.Host)
	assert.Equal(t, "gateway.local", s.Forwarded)
	assert.Equal(t, "192.0.2.1", s.ClientIP)
	assert.Equal(t, "http", s.Proto)
	assert.NotEmpty(t, s.RequestID)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProxyRequests.WithLabelValues("GET", "201")))
}

func TestProxyKeepsInboundRequestID(t *testing.T) {
	backend, got := newBackend(t)
	h, _ := newHandler(t, backend.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/sessions", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "req-42", (<-got).RequestID)
}

func TestProxyReusesRouterRequestID(t *testing.T) {
	backend, got := newBackend(t)
	h, _ := newHandler(t, backend.URL)

	var routerID string
	chain := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		routerID = middleware.GetReqID(r.Context())
		h.ServeHTTP(w, r)
	}))
	chain.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	require.NotEmpty(t, routerID)
	assert.Equal(t, routerID, (<-got).RequestID)
}

func TestProxyForwardsBody(t *testing.T) {
	backend, got := newBackend(t)
	h, _ := newHandler(t, backend.URL)

	req := httptest.NewRequest(http.MethodPut, "/api/projects/1", strings.NewReader(`{"title":"x"}`))
	h.ServeHTTP(httptest.NewRecorder(), req)

	s := <-got
	assert.Equal(t, http.MethodPut, s.Method)
	assert.Equal(t, `{"title":"x"}`, s.Body)
}

func TestProxyRejectsForeignPath(t *testing.T) {
	h, _ := newHandler(t, "http://localhost:1")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/apix", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProxyBackendDown(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	origin := backend.URL
	backend.Close()

	h, m := newHandler(t, origin)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "backend unavailable", body["error"])
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProxyErrors.WithLabelValues("upstream")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProxyRequests.WithLabelValues("GET", "502")))
}

func TestProxyBackendTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(300 * time.Millisecond):
		}
	}))
	t.Cleanup(slow.Close)

	h, m := newHandler(t, slow.URL, pkghttp.WithResponseHeaderTimeout(50*time.Millisecond))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/slow", nil))

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.JSONEq(t, `{"error":"backend timed out"}`, rec.Body.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProxyErrors.WithLabelValues("timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProxyRequests.WithLabelValues("GET", "504")))
}
