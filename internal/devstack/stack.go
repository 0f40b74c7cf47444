package devstack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/futig/agent-gateway/internal/entity"
	"go.uber.org/zap"
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stack brings up the local application stack.
type Stack struct {
	cfg      *Config
	compose  Compose
	envFiles []EnvFile
	runner   Runner
	sleep    SleepFunc
	out      io.Writer
	logger   *zap.Logger
}

type Option func(*Stack)

// WithSleep replaces the wait between start and summary.
func WithSleep(sleep SleepFunc) Option {
	return func(s *Stack) {
		s.sleep = sleep
	}
}

// WithEnvFiles replaces the required env files.
func WithEnvFiles(files ...EnvFile) Option {
	return func(s *Stack) {
		s.envFiles = files
	}
}

func NewStack(cfg *Config, runner Runner, out io.Writer, logger *zap.Logger, opts ...Option) *Stack {
	s := &Stack{
		cfg:      cfg,
		compose:  Compose{Bin: cfg.ComposeBin, File: cfg.ComposeFile},
		envFiles: DefaultEnvFiles(),
		runner:   runner,
		sleep:    sleepContext,
		out:      out,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Up checks the env files, starts the containers once, waits, and prints the
// access summary. Any failure stops the sequence before the next step.
func (s *Stack) Up(ctx context.Context) error {
	for _, f := range s.envFiles {
		if err := f.Ensure(s.cfg.Root); err != nil {
			s.reportEnvError(f, err)
			return err
		}
		s.logger.Debug("env file present", zap.String("file", f.Path))
	}

	composePath := filepath.Join(s.cfg.Root, s.cfg.ComposeFile)
	if _, err := os.Stat(composePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %s", entity.ErrComposeFileMissing, composePath)
		}
		fmt.Fprintf(s.out, "❌ Compose file %s not found.\n", s.cfg.ComposeFile)
		return err
	}

	services, err := ReadServices(composePath)
	if err != nil {
		s.logger.Warn("could not list compose services", zap.String("file", composePath), zap.Error(err))
	}

	fmt.Fprintln(s.out, "🚀 Starting containers...")
	args := s.compose.UpArgs()
	s.logger.Debug("running compose", zap.String("bin", s.compose.Bin), zap.Strings("args", args))
	if err := s.runner.Run(ctx, s.cfg.Root, s.compose.Bin, args...); err != nil {
		fmt.Fprintf(s.out, "❌ Failed to start containers: %v\n", err)
		return fmt.Errorf("%w: %v", entity.ErrComposeFailed, err)
	}

	fmt.Fprintf(s.out, "⏳ Waiting %s for services to start...\n", s.cfg.Wait)
	if err := s.sleep(ctx, s.cfg.Wait); err != nil {
		return fmt.Errorf("wait for services: %w", err)
	}

	Summary{
		FrontendURL: s.cfg.FrontendURL,
		BackendURL:  s.cfg.BackendURL,
		DocsURL:     strings.TrimSuffix(s.cfg.BackendURL, "/") + s.cfg.DocsPath,
		Services:    services,
		LogsCommand: s.compose.Command("logs", "-f"),
		StopCommand: s.compose.Command("down"),
	}.Write(s.out)

	return nil
}

func (s *Stack) reportEnvError(f EnvFile, err error) {
	var missing *MissingEnvError
	if !errors.As(err, &missing) {
		fmt.Fprintf(s.out, "❌ Could not check %s: %v\n", f.Path, err)
		return
	}

	if missing.Created {
		fmt.Fprintf(s.out, "⚠️  %s not found. Created it from %s.\n", f.Path, f.Template)
		fmt.Fprintf(s.out, "   Please review %s and run this command again.\n", f.Path)
		return
	}

	if errors.Is(missing.Err, entity.ErrTemplateMissing) {
		fmt.Fprintf(s.out, "❌ %s not found and %s is missing too.\n", f.Path, f.Template)
	} else {
		fmt.Fprintf(s.out, "❌ %s not found and could not be created: %v\n", f.Path, missing.Err)
	}
	s.logger.Debug("env template copy failed", zap.String("label", f.Label), zap.Error(missing.Err))
}
