package builder

import (
	"fmt"
	"net/http"

	"github.com/futig/agent-gateway/internal/api"
	"github.com/futig/agent-gateway/internal/api/frontend"
	imageapi "github.com/futig/agent-gateway/internal/api/image"
	settingsapi "github.com/futig/agent-gateway/internal/api/settings"
	"github.com/futig/agent-gateway/internal/config"
	"github.com/futig/agent-gateway/internal/entity"
	"github.com/futig/agent-gateway/internal/integration/common"
	imageconn "github.com/futig/agent-gateway/internal/integration/image"
	"github.com/futig/agent-gateway/internal/metrics"
	"github.com/futig/agent-gateway/internal/pkg/logger"
	"github.com/futig/agent-gateway/internal/proxy"
	"github.com/futig/agent-gateway/internal/rewrite"
	imageuc "github.com/futig/agent-gateway/internal/usecase/image"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	return NewApp(cfg, log)
}

// NewApp wires the gateway from an already loaded configuration.
func NewApp(cfg *config.Config, log *zap.Logger) (*App, error) {
	log.Info("Building gateway",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	rule, err := resolveRule(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("resolve backend origin: %w", err)
	}
	log.Info("Rewrite rule configured",
		zap.String("policy", cfg.RewritePolicy),
		zap.String("source", rule.Prefix()+"/*"),
		zap.String("destination", rule.Origin()+rule.Prefix()+"/*"),
	)

	m := metrics.New()

	// Backend proxy
	proxyHandler := proxy.New(rule, common.NewProxyTransport(cfg.ProxyCfg), m)

	// Image loader
	imageConnector := imageconn.NewConnector(cfg.ImageCfg, log)
	imageUC := imageuc.NewUsecase(imageConnector, cfg.ImageCfg.Domains, cfg.ImageCfg.CacheTTL, cfg.ImageCfg.CacheEntries, log)
	imageHandler := imageapi.NewHandler(imageUC, m.ImageResults())
	log.Info("Image loader initialized", zap.Strings("domains", cfg.ImageCfg.Domains))

	settingsHandler := settingsapi.NewHandler(entity.GatewayConfigDTO{
		Environment:   cfg.Environment,
		RewritePolicy: cfg.RewritePolicy,
		Backend:       rule.Origin(),
		RewriteSource: rule.Prefix() + "/*",
		Frontend:      cfg.Frontend(),
	})

	var frontendHandler http.Handler
	if cfg.Standalone() {
		frontendHandler = frontend.NewHandler(cfg.FrontendCfg.StaticDir)
		log.Info("Serving frontend bundle", zap.String("dir", cfg.FrontendCfg.StaticDir))
	}

	router := api.SetupRouter(api.Handlers{
		Proxy:    proxyHandler,
		Image:    imageHandler,
		Settings: settingsHandler,
		Metrics:  m.Handler(),
		Frontend: frontendHandler,
	}, api.RouterOptions{
		RewritePrefix:      rule.Prefix(),
		Minify:             cfg.FrontendCfg.Minify,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RequestTimeout:     cfg.RequestTimeout,
	}, log)
	log.Info("HTTP router configured")

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          log,
	}, nil
}

// resolveRule computes the backend origin. In strict mode an unusable origin
// is fatal; otherwise the gateway falls back to the loopback backend.
func resolveRule(cfg *config.Config, log *zap.Logger) (*rewrite.Rule, error) {
	policy, err := rewrite.ParsePolicy(cfg.RewritePolicy)
	if err != nil {
		return nil, err
	}

	origin, err := rewrite.Resolve(policy, cfg.RewriteSources)
	if err != nil {
		return nil, err
	}

	rule, err := rewrite.NewRule(cfg.RewritePrefix, origin)
	if err == nil {
		return rule, nil
	}
	if cfg.FrontendCfg.StrictMode {
		return nil, err
	}

	log.Warn("Resolved backend origin is invalid, falling back to loopback",
		zap.String("origin", origin),
		zap.String("fallback", rewrite.LoopbackOrigin),
		zap.Error(err),
	)
	return rewrite.NewRule(cfg.RewritePrefix, rewrite.LoopbackOrigin)
}
