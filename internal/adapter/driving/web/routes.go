package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers the landing page and its static assets on mux.
// "GET /{$}" matches only the root, so API 404s still reach the catch-all.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Static assets (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Page routes.
	mux.HandleFunc("GET /{$}", h.Landing)
}
