package rewrite

import (
	"fmt"

	"github.com/futig/agent-gateway/internal/entity"
)

// Policy selects how the backend origin is computed from the environment.
type Policy string

const (
	// PolicyOverride: API override, else production service host, else loopback.
	PolicyOverride Policy = "override"
	// PolicyBackendURL: backend URL, else production service host, else API
	// override, else loopback.
	PolicyBackendURL Policy = "backend-url"
)

const (
	// ProductionOrigin is the internal service hostname used in production mode.
	ProductionOrigin = "http://backend:8000"
	// LoopbackOrigin is the local development fallback.
	LoopbackOrigin = "http://localhost:8000"

	productionMode = "production"
)

// Sources holds the environment inputs of origin resolution.
// Empty strings count as unset.
type Sources struct {
	APIURL     string `env:"NEXT_PUBLIC_API_URL"`
	BackendURL string `env:"BACKEND_URL"`
	Mode       string `env:"NODE_ENV" envDefault:"development"`
}

func (s Sources) production() bool {
	return s.Mode == productionMode
}

// ParsePolicy validates a policy name.
func ParsePolicy(name string) (Policy, error) {
	switch p := Policy(name); p {
	case PolicyOverride, PolicyBackendURL:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", entity.ErrUnknownPolicy, name)
	}
}

// Resolve computes the backend origin for the given policy.
func Resolve(policy Policy, src Sources) (string, error) {
	switch policy {
	case PolicyOverride:
		if src.APIURL != "" {
			return src.APIURL, nil
		}
		if src.production() {
			return ProductionOrigin, nil
		}
		return LoopbackOrigin, nil

	case PolicyBackendURL:
		if src.BackendURL != "" {
			return src.BackendURL, nil
		}
		if src.production() {
			return ProductionOrigin, nil
		}
		if src.APIURL != "" {
			return src.APIURL, nil
		}
		return LoopbackOrigin, nil

	default:
		return "", fmt.Errorf("%w: %q", entity.ErrUnknownPolicy, policy)
	}
}
