package common

import (
	"net/http"

	"github.com/futig/agent-gateway/internal/config"
	pkgHTTP "github.com/futig/agent-gateway/pkg/http"
	"go.uber.org/zap"
)

const userAgent = "agent-gateway/1.0"

func transportOptions(cfg config.HTTPClientConfig) []pkgHTTP.HttpOpts {
	return []pkgHTTP.HttpOpts{
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithTLSHandshakeTimeout(cfg.TLSHandshakeTimeout),
		pkgHTTP.WithMaxIdleConns(cfg.MaxIdleConns),
		pkgHTTP.WithMaxIdleConnsPerHost(cfg.MaxIdleConnsPerHost),
		pkgHTTP.WithInsecureSkipVerify(cfg.InsecureSkipVerify),
		pkgHTTP.WithRequestLogging(),
	}
}

// NewBaseConnector builds a connector for one-shot fetches. Redirects are not
// followed so callers can vet every host they talk to.
func NewBaseConnector(cfg config.HTTPClientConfig, maxBodySize int64, logger *zap.Logger) *pkgHTTP.Connector {
	connCfg := &pkgHTTP.ConnectorConfig{
		Logger:      logger,
		MaxBodySize: maxBodySize,
	}

	opts := append(transportOptions(cfg), pkgHTTP.WithUserAgent(userAgent), pkgHTTP.WithoutRedirects())
	return pkgHTTP.NewConnector(connCfg, opts...)
}

// NewProxyTransport builds the pooled transport behind the backend proxy.
func NewProxyTransport(cfg config.HTTPClientConfig) http.RoundTripper {
	return pkgHTTP.NewTransport(transportOptions(cfg)...)
}
