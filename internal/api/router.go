package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/EdwardDiehl/file-indexer/internal/engine"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
func NewRouter(eng *engine.Engine, authEnabled bool, token string) chi.Router {
	h := NewHandler(eng)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Search.
	r.Get("/search", h.Search)

	// Indexed file lookup.
	r.Get("/files/*", h.GetFile)

	// Live change events (protected by the same auth middleware).
	r.Get("/events", SSEHandler(eng).ServeHTTP)

	return r
}
