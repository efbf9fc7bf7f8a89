package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/classlog/internal/sessionservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *sessionservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Sessions.
	r.Get("/sessions", h.ListSessions)
	r.Get("/sessions/validate", h.ValidateAll)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Get("/timeline/{source}", h.Timeline)
		r.Get("/validate", h.Validate)
		r.Get("/comment", h.Comment)
		r.Get("/discord", h.Discord)
		r.Get("/sheet", h.Sheet)
	})

	// Search.
	r.Get("/search", h.Search)
	r.Get("/index/search", h.IndexSearch)

	// Cross-session listings.
	r.Get("/similar/{kind}", h.Similar)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
