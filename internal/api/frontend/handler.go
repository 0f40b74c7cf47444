package frontend

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/futig/agent-gateway/internal/pkg/response"
)

const indexFile = "index.html"

// Handler serves a built single-page frontend from a directory. Unknown
// paths without a file extension fall back to index.html so client-side
// routing keeps working.
type Handler struct {
	root  string
	files http.Handler
}

func NewHandler(root string) *Handler {
	return &Handler{
		root:  root,
		files: http.FileServer(http.Dir(root)),
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		response.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	clean := path.Clean("/" + r.URL.Path)
	if info, err := os.Stat(filepath.Join(h.root, filepath.FromSlash(clean))); err == nil && !info.IsDir() {
		h.files.ServeHTTP(w, r)
		return
	}

	if clean != "/" && path.Ext(clean) != "" {
		response.Error(w, http.StatusNotFound, "not found")
		return
	}

	index := filepath.Join(h.root, indexFile)
	if _, err := os.Stat(index); err != nil {
		response.Error(w, http.StatusNotFound, "frontend bundle not found")
		return
	}

	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, index)
}
