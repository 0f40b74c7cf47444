package rewrite

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/futig/agent-gateway/internal/entity"
)

// DefaultPrefix is the inbound path prefix forwarded to the backend.
const DefaultPrefix = "/api"

// Rule maps every path under Prefix to the same path under Origin.
type Rule struct {
	prefix string
	origin *url.URL
}

// NewRule parses origin and builds a rule for prefix.
func NewRule(prefix, origin string) (*Rule, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", entity.ErrInvalidOrigin, origin, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q: scheme must be http or https", entity.ErrInvalidOrigin, origin)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %q: host is empty", entity.ErrInvalidOrigin, origin)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return nil, fmt.Errorf("%w: %q: query and fragment are not allowed", entity.ErrInvalidOrigin, origin)
	}

	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""

	return &Rule{
		prefix: "/" + strings.Trim(prefix, "/"),
		origin: u,
	}, nil
}

// Prefix returns the inbound path prefix.
func (r *Rule) Prefix() string {
	return r.prefix
}

// Origin returns the destination origin as a string.
func (r *Rule) Origin() string {
	return r.origin.String()
}

// Match reports whether path is the prefix itself or lies under it.
func (r *Rule) Match(path string) bool {
	if path == r.prefix {
		return true
	}
	return strings.HasPrefix(path, r.prefix+"/")
}

// Destination returns the outbound URL for an inbound request URL.
// The path and raw query are carried over unchanged.
func (r *Rule) Destination(in *url.URL) *url.URL {
	out := *r.origin

	out.Path = r.origin.Path + in.Path
	if in.RawPath != "" {
		out.RawPath = r.origin.EscapedPath() + in.RawPath
	}
	out.RawQuery = in.RawQuery

	return &out
}
