package http

import "time"

// HttpOpts tunes the client and transport built by this package.
type HttpOpts func(*httpConfig)

// Dial and transport timeouts.

func WithConnClientTimeout(timeout time.Duration) HttpOpts {
	return func(c *httpConfig) { c.connClientTimeout = timeout }
}

func WithClientKeepAlive(keepAlive time.Duration) HttpOpts {
	return func(c *httpConfig) { c.clientKeepAlive = keepAlive }
}

func WithTLSHandshakeTimeout(timeout time.Duration) HttpOpts {
	return func(c *httpConfig) { c.tlsHandshakeTimeout = timeout }
}

func WithResponseHeaderTimeout(timeout time.Duration) HttpOpts {
	return func(c *httpConfig) { c.responseHeaderTimeout = timeout }
}

func WithIdleConnTimeout(timeout time.Duration) HttpOpts {
	return func(c *httpConfig) { c.idleConnTimeout = timeout }
}

// Connection pool.

func WithMaxIdleConns(n int) HttpOpts {
	return func(c *httpConfig) { c.maxIdleConns = n }
}

func WithMaxIdleConnsPerHost(n int) HttpOpts {
	return func(c *httpConfig) { c.maxIdleConnsPerHost = n }
}

// Client behavior.

// WithRequestTimeout bounds a whole client round trip. NewTransport ignores it.
func WithRequestTimeout(timeout time.Duration) HttpOpts {
	return func(c *httpConfig) { c.requestTimeout = timeout }
}

// WithTransport wraps the base transport. Wrappers apply in the order given,
// so the last one added sees the request first.
func WithTransport(transport TransportFunc) HttpOpts {
	return func(c *httpConfig) { c.transports = append(c.transports, transport) }
}

func WithInsecureSkipVerify(skip bool) HttpOpts {
	return func(c *httpConfig) { c.insecureSkipVerify = skip }
}

// WithoutRedirects returns 3xx responses to the caller instead of following them.
func WithoutRedirects() HttpOpts {
	return func(c *httpConfig) { c.noRedirects = true }
}
