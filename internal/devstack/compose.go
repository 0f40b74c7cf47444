package devstack

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Runner executes an external command in dir.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ExecRunner runs commands as child processes sharing the given output.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (r ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	return cmd.Run()
}

// Compose builds orchestration command lines for one compose file.
type Compose struct {
	Bin  string
	File string
}

func (c Compose) args(sub ...string) []string {
	var args []string
	// The plugin form is "docker compose", the standalone binary takes flags directly.
	if filepath.Base(c.Bin) == "docker" {
		args = append(args, "compose")
	}
	args = append(args, "-f", c.File)
	return append(args, sub...)
}

// UpArgs starts every service detached.
func (c Compose) UpArgs() []string {
	return c.args("up", "-d")
}

// Command renders a subcommand as a copy-pasteable shell line.
func (c Compose) Command(sub ...string) string {
	return strings.Join(append([]string{c.Bin}, c.args(sub...)...), " ")
}

type composeDocument struct {
	Services yaml.Node `yaml:"services"`
}

// ReadServices lists service names in file order.
func ReadServices(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc composeDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if doc.Services.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse %s: services must be a mapping", path)
	}

	names := make([]string, 0, len(doc.Services.Content)/2)
	for i := 0; i+1 < len(doc.Services.Content); i += 2 {
		names = append(names, doc.Services.Content[i].Value)
	}
	return names, nil
}
