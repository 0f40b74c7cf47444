package devstack

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config controls the local stack bring-up.
type Config struct {
	Root        string        `env:"DEVSTACK_ROOT" envDefault:"."`
	ComposeFile string        `env:"DEVSTACK_COMPOSE_FILE" envDefault:"docker-compose.yml"`
	ComposeBin  string        `env:"DEVSTACK_COMPOSE_BIN" envDefault:"docker"`
	Wait        time.Duration `env:"DEVSTACK_WAIT" envDefault:"5s"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"warn"`

	FrontendURL string `env:"DEVSTACK_FRONTEND_URL" envDefault:"http://localhost:3000"`
	BackendURL  string `env:"DEVSTACK_BACKEND_URL" envDefault:"http://localhost:8000"`
	DocsPath    string `env:"DEVSTACK_DOCS_PATH" envDefault:"/docs"`
}

// LoadConfig reads the environment, then lets command-line flags override it.
func LoadConfig(args []string, stderr io.Writer) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	fs := flag.NewFlagSet("devstack", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.Root, "root", cfg.Root, "Project root containing the env files and compose file")
	fs.StringVar(&cfg.ComposeFile, "file", cfg.ComposeFile, "Compose file, relative to the project root")
	fs.DurationVar(&cfg.Wait, "wait", cfg.Wait, "How long to wait after starting containers")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.Wait < 0 {
		return nil, fmt.Errorf("wait must not be negative, got %s", cfg.Wait)
	}
	if cfg.ComposeFile == "" {
		return nil, fmt.Errorf("compose file must not be empty")
	}

	return cfg, nil
}
