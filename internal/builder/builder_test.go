package builder

import (
	"context"
	"testing"
	"time"

	"github.com/futig/agent-gateway/internal/config"
	"github.com/futig/agent-gateway/internal/entity"
	"github.com/futig/agent-gateway/internal/rewrite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testConfig() *config.Config {
	cfg := &config.Config{
		ServerAddr:      "127.0.0.1:0",
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		IdleTimeout:     time.Second,
		RequestTimeout:  time.Second,
		ShutdownTimeout: time.Second,
		RewritePolicy:   string(rewrite.PolicyOverride),
		RewritePrefix:   rewrite.DefaultPrefix,
		LogLevel:        "debug",
		Environment:     "test",
	}
	cfg.FrontendCfg = config.FrontendConfig{StrictMode: true, Minify: true, Output: entity.OutputStandalone, StaticDir: "public"}
	cfg.ImageCfg.Domains = []string{"localhost"}
	cfg.ImageCfg.CacheTTL = time.Minute
	cfg.ImageCfg.CacheEntries = 8
	cfg.ImageCfg.MaxSize = 1024
	cfg.ImageCfg.Retry.Attempts = 1
	return cfg
}

func TestResolveRuleFollowsPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.RewritePolicy = string(rewrite.PolicyBackendURL)
	cfg.RewriteSources = rewrite.Sources{APIURL: "http://api:1", Mode: "production"}

	rule, err := resolveRule(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, rewrite.ProductionOrigin, rule.Origin())
}

func TestResolveRuleStrictModeRejectsBadOrigin(t *testing.T) {
	cfg := testConfig()
	cfg.RewriteSources = rewrite.Sources{APIURL: "backend:8000"}

	_, err := resolveRule(cfg, zaptest.NewLogger(t))
	assert.ErrorIs(t, err, entity.ErrInvalidOrigin)
}

func TestResolveRuleLenientModeFallsBack(t *testing.T) {
	cfg := testConfig()
	cfg.FrontendCfg.StrictMode = false
	cfg.RewriteSources = rewrite.Sources{APIURL: "backend:8000"}

	rule, err := resolveRule(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, rewrite.LoopbackOrigin, rule.Origin())
}

func TestResolveRuleUnknownPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.RewritePolicy = "sticky"

	_, err := resolveRule(cfg, zaptest.NewLogger(t))
	assert.ErrorIs(t, err, entity.ErrUnknownPolicy)
}

func TestAppRunStopsOnCancel(t *testing.T) {
	app, err := NewApp(testConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
}

func TestAppRunReportsListenErrors(t *testing.T) {
	cfg := testConfig()
	cfg.ServerAddr = "256.0.0.1:99999"

	app, err := NewApp(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Error(t, app.run(context.Background()))
}
