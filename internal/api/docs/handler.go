package docs

import (
	"bytes"
	_ "embed"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const (
	basePath    = "/docs"
	openAPIPath = basePath + "/swagger.yaml"
)

//go:embed swagger.yaml
var openAPI []byte

// builtAt stands in for a modification time so conditional requests work.
var builtAt = time.Now()

// UI serves Swagger UI pointed at the gateway's own OpenAPI document.
func UI() http.HandlerFunc {
	return httpSwagger.Handler(
		httpSwagger.URL(openAPIPath),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	)
}

// OpenAPI serves the embedded document.
func OpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	http.ServeContent(w, r, "swagger.yaml", builtAt, bytes.NewReader(openAPI))
}

func RegisterRoutes(r chi.Router) {
	r.Get(basePath, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, basePath+"/index.html", http.StatusFound)
	})
	r.Get(openAPIPath, OpenAPI)
	r.Get(basePath+"/*", UI())
}
