package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the gateway collectors on a dedicated registry.
type Metrics struct {
	registry *prometheus.Registry

	ProxyRequests *prometheus.CounterVec
	ProxyDuration *prometheus.HistogramVec
	ProxyErrors   *prometheus.CounterVec
	ImageRequests *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		ProxyRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_proxy_requests_total",
				Help: "Total number of requests forwarded to the backend",
			},
			[]string{"method", "status"},
		),
		ProxyDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gateway_proxy_request_duration_seconds",
				Help:    "Duration of proxied requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		ProxyErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_proxy_errors_total",
				Help: "Total number of proxied requests that failed before a backend response",
			},
			[]string{"reason"},
		),
		ImageRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_image_requests_total",
				Help: "Total number of image loader requests",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(m.ProxyRequests, m.ProxyDuration, m.ProxyErrors, m.ImageRequests)

	return m
}

// ObserveProxy records one completed proxied request.
func (m *Metrics) ObserveProxy(method string, status int, elapsed time.Duration) {
	m.ProxyRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.ProxyDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ImageResults counts image loader outcomes by result label.
type ImageResults struct {
	vec *prometheus.CounterVec
}

func (r ImageResults) Record(result string) {
	r.vec.WithLabelValues(result).Inc()
}

func (m *Metrics) ImageResults() ImageResults {
	return ImageResults{vec: m.ImageRequests}
}
