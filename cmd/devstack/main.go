package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/futig/agent-gateway/internal/devstack"
	"github.com/futig/agent-gateway/internal/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := devstack.LoadConfig(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(os.Stderr, "devstack:", err)
		return 2
	}

	log, err := logger.New(cfg.LogLevel, "local")
	if err != nil {
		fmt.Fprintln(os.Stderr, "devstack:", err)
		return 2
	}
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stack := devstack.NewStack(cfg, devstack.ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}, os.Stdout, log)
	if err := stack.Up(ctx); err != nil {
		log.Debug("devstack failed", zap.Error(err))
		return 1
	}
	return 0
}
