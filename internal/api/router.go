// Package api implements the HTTP transport: health probes and the MCP
// handler mounted behind optional Bearer authentication, using chi.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with health endpoints (unauthenticated)
// and the MCP handler mounted at /mcp behind the auth middleware.
func NewRouter(mcpHandler http.Handler, authEnabled bool, token string) chi.Router {
	r := chi.NewRouter()

	r.Get("/health/live", healthHandler)
	r.Get("/health/ready", healthHandler)

	r.Group(func(g chi.Router) {
		g.Use(AuthMiddleware(authEnabled, token))
		g.Handle("/mcp", mcpHandler)
		g.Handle("/mcp/*", mcpHandler)
	})

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
