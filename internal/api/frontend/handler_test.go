package frontend

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bundle(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, indexFile), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o644))
	return dir
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestServesExistingFiles(t *testing.T) {
	h := NewHandler(bundle(t))

	w := serve(h, http.MethodGet, "/assets/app.js")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "console.log(1)", w.Body.String())
}

func TestFallsBackToIndexForRoutes(t *testing.T) {
	h := NewHandler(bundle(t))

	for _, p := range []string{"/", "/sessions/42", "/projects/"} {
		w := serve(h, http.MethodGet, p)
		assert.Equal(t, http.StatusOK, w.Code, p)
		assert.Equal(t, "<html>app</html>", w.Body.String(), p)
		assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"), p)
	}
}

func TestMissingAssetIsNotFound(t *testing.T) {
	h := NewHandler(bundle(t))

	w := serve(h, http.MethodGet, "/assets/missing.css")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTraversalStaysInRoot(t *testing.T) {
	outer := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outer, "secret.txt"), []byte("secret"), 0o644))
	root := filepath.Join(outer, "web")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, indexFile), []byte("index"), 0o644))

	w := serve(NewHandler(root), http.MethodGet, "/../secret.txt")
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestRejectsWrites(t *testing.T) {
	w := serve(NewHandler(bundle(t)), http.MethodPost, "/")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestMissingBundle(t *testing.T) {
	w := serve(NewHandler(t.TempDir()), http.MethodGet, "/")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
