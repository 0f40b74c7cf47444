package config

import (
	"flag"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/futig/agent-gateway/internal/entity"
	pkgRetry "github.com/futig/agent-gateway/internal/pkg/retry"
	"github.com/futig/agent-gateway/internal/rewrite"
	"github.com/joho/godotenv"
)

// Config holds the gateway configuration
type Config struct {
	// Server configuration
	ServerAddr      string        `env:"SERVER_ADDR" envDefault:":3000"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"60s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	RequestTimeout  time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Backend origin resolution
	RewritePolicy  string `env:"GATEWAY_REWRITE_POLICY" envDefault:"override"`
	RewritePrefix  string `env:"GATEWAY_REWRITE_PREFIX" envDefault:"/api"`
	RewriteSources rewrite.Sources

	// Upstream transport used by the /api proxy
	ProxyCfg HTTPClientConfig `envPrefix:"PROXY_"`

	// Frontend build flags
	FrontendCfg FrontendConfig

	// Remote image loader
	ImageCfg ImageConfig `envPrefix:"IMAGE_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// CORS allowed origins, comma separated; empty means any
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	// Environment (set from flag, not from env var)
	Environment string
}

// FrontendConfig mirrors the build flags of the frontend bundle.
type FrontendConfig struct {
	StrictMode bool   `env:"STRICT_MODE" envDefault:"true"`
	Minify     bool   `env:"MINIFY" envDefault:"true"`
	Output     string `env:"OUTPUT" envDefault:"standalone"`
	StaticDir  string `env:"STATIC_DIR" envDefault:"public"`
}

type ImageConfig struct {
	HTTPClientConfig
	Domains      []string             `env:"DOMAINS" envSeparator:"," envDefault:"localhost"`
	CacheTTL     time.Duration        `env:"CACHE_TTL" envDefault:"10m"`
	CacheEntries int                  `env:"CACHE_ENTRIES" envDefault:"256"`
	MaxSize      int64                `env:"MAX_SIZE" envDefault:"10485760"`
	Retry        pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"30s"`
	TLSHandshakeTimeout   time.Duration `env:"TLS_HANDSHAKE_TIMEOUT" envDefault:"10s"`
	MaxIdleConns          int           `env:"MAX_IDLE_CONNS" envDefault:"100"`
	MaxIdleConnsPerHost   int           `env:"MAX_IDLE_CONNS_PER_HOST" envDefault:"32"`
	// InsecureSkipVerify accepts self-signed backend certificates. Local use only.
	InsecureSkipVerify bool `env:"INSECURE_SKIP_VERIFY" envDefault:"false"`
}

// Frontend returns the settings exposed by GET /config.
func (c *Config) Frontend() entity.FrontendSettings {
	return entity.FrontendSettings{
		StrictMode:   c.FrontendCfg.StrictMode,
		Minify:       c.FrontendCfg.Minify,
		Output:       c.FrontendCfg.Output,
		ImageDomains: c.ImageCfg.Domains,
	}
}

// Standalone reports whether the gateway serves the frontend bundle itself.
func (c *Config) Standalone() bool {
	return c.FrontendCfg.Output == entity.OutputStandalone
}

// LoadConfig parses the -env flag and loads configuration for it.
func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	return Load(*envFlag)
}

// Load reads the env file for environment, then the process environment.
func Load(environment string) (*Config, error) {
	envFile := getEnvFile(environment)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = environment

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	if _, err := rewrite.ParsePolicy(cfg.RewritePolicy); err != nil {
		errors = append(errors, fmt.Sprintf("GATEWAY_REWRITE_POLICY must be %q or %q, got %q",
			rewrite.PolicyOverride, rewrite.PolicyBackendURL, cfg.RewritePolicy))
	}

	if !strings.HasPrefix(cfg.RewritePrefix, "/") || strings.Trim(cfg.RewritePrefix, "/") == "" {
		errors = append(errors, fmt.Sprintf("GATEWAY_REWRITE_PREFIX must be a non-root absolute path, got %q", cfg.RewritePrefix))
	}

	if cfg.ImageCfg.MaxSize < 1 {
		errors = append(errors, fmt.Sprintf("IMAGE_MAX_SIZE must be positive, got %d", cfg.ImageCfg.MaxSize))
	}

	if cfg.ImageCfg.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("IMAGE_CACHE_TTL must be at least 1s, got %s", cfg.ImageCfg.CacheTTL))
	}

	if cfg.ImageCfg.CacheEntries < 1 {
		errors = append(errors, fmt.Sprintf("IMAGE_CACHE_ENTRIES must be positive, got %d", cfg.ImageCfg.CacheEntries))
	}

	for _, d := range cfg.ImageCfg.Domains {
		if d == "" || strings.ContainsAny(d, "/:?#") {
			errors = append(errors, fmt.Sprintf("IMAGE_DOMAINS entries must be bare hostnames, got %q", d))
		}
	}

	if cfg.ImageCfg.Retry.Attempts < 1 || cfg.ImageCfg.Retry.Attempts > 10 {
		errors = append(errors, fmt.Sprintf("IMAGE_RETRY_ATTEMPTS must be between 1 and 10, got %d", cfg.ImageCfg.Retry.Attempts))
	}

	for _, o := range cfg.CORSAllowedOrigins {
		if u, err := url.Parse(o); o != "*" && (err != nil || u.Scheme == "" || u.Host == "") {
			errors = append(errors, fmt.Sprintf("CORS_ALLOWED_ORIGINS entries must be origins, got %q", o))
		}
	}

	if cfg.ProxyCfg.InsecureSkipVerify && (cfg.Environment == "prod" || cfg.Environment == "production") {
		errors = append(errors, "PROXY_INSECURE_SKIP_VERIFY must not be enabled in production")
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of debug, info, warn, error, got %q", cfg.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
