package api

import (
	"net/http"
	"time"

	"github.com/futig/agent-gateway/internal/api/docs"
	imageapi "github.com/futig/agent-gateway/internal/api/image"
	"github.com/futig/agent-gateway/internal/api/middleware"
	settingsapi "github.com/futig/agent-gateway/internal/api/settings"
	"github.com/futig/agent-gateway/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const compressionLevel = 5

// Handlers are the endpoints mounted by SetupRouter.
type Handlers struct {
	Proxy    http.Handler
	Image    *imageapi.Handler
	Settings *settingsapi.Handler
	Metrics  http.Handler
	// Frontend serves non-API paths; nil answers them with 404.
	Frontend http.Handler
}

type RouterOptions struct {
	RewritePrefix      string
	Minify             bool
	CORSAllowedOrigins []string
	RequestTimeout     time.Duration
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(h Handlers, opts RouterOptions, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)                          // Recover from panics
	r.Use(chimiddleware.RequestID)                          // Add request ID
	r.Use(middleware.Logger(logger, "/health", "/metrics")) // Log requests
	r.Use(middleware.CORS(opts.CORSAllowedOrigins))         // Handle CORS
	r.Use(chimiddleware.Timeout(opts.RequestTimeout))       // Default timeout

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, map[string]string{"status": "healthy"})
	})
	r.Method(http.MethodGet, "/metrics", h.Metrics)

	// Backend proxy, every method
	r.Handle(opts.RewritePrefix, h.Proxy)
	r.Handle(opts.RewritePrefix+"/*", h.Proxy)

	// Gateway-owned endpoints
	r.Group(func(r chi.Router) {
		if opts.Minify {
			r.Use(chimiddleware.Compress(compressionLevel))
		}

		docs.RegisterRoutes(r)
		settingsapi.RegisterRoutes(r, h.Settings)
		imageapi.RegisterRoutes(r, h.Image)
	})

	// Frontend bundle
	var notFound http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotFound, "not found")
	})
	if h.Frontend != nil {
		notFound = h.Frontend
		if opts.Minify {
			notFound = chimiddleware.Compress(compressionLevel)(notFound)
		}
	}
	r.NotFound(notFound.ServeHTTP)

	return r
}
