package http

import "net/http"

type headerTransport struct {
	headers   http.Header
	transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())

	for key, values := range t.headers {
		if reqCopy.Header.Get(key) != "" {
			continue
		}
		for _, v := range values {
			reqCopy.Header.Add(key, v)
		}
	}

	return t.transport.RoundTrip(reqCopy)
}

// WithDefaultHeader sets a header on every outbound request that does not
// already carry it.
func WithDefaultHeader(key, value string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		h := http.Header{}
		h.Set(key, value)
		return &headerTransport{
			headers:   h,
			transport: rt,
		}
	})
}

// WithUserAgent identifies the client to upstream servers.
func WithUserAgent(ua string) HttpOpts {
	return WithDefaultHeader("User-Agent", ua)
}
