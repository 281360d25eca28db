package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/savscan/internal/saveservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *saveservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Saves.
	r.Get("/saves", h.ListSaves)
	r.Get("/saves/summary", h.Summary)

	// Search.
	r.Get("/search/value", h.FindValue)
	r.Get("/search/key", h.FindKey)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
