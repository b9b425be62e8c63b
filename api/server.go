/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/shifts/*         Shift CRUD and validation
  /api/clockout/*       Clock-out cross-check
  /api/rosters/*        Week sweep and publish
  /api/users/*          Weekly summaries
  /api/organizations/*  Per-organization settings

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Shift routes
		r.Route("/shifts", func(r chi.Router) {
			r.Post("/", h.CreateShift)
			r.Post("/validate", h.ValidateShift)
			r.Get("/{id}", h.GetShift)
			r.Put("/{id}", h.UpdateShift)
		})

		// Clock-out routes
		r.Route("/clockout", func(r chi.Router) {
			r.Post("/check", h.ClockOutCheck)
		})

		// Roster routes
		r.Route("/rosters", func(r chi.Router) {
			r.Post("/validate", h.ValidateRoster)
			r.Post("/publish", h.PublishRoster)
		})

		// User routes
		r.Route("/users", func(r chi.Router) {
			r.Get("/{id}/weekly-summary", h.GetWeeklySummary)
		})

		// Organization routes
		r.Route("/organizations", func(r chi.Router) {
			r.Get("/{id}/settings", h.GetOrgSettings)
			r.Put("/{id}/settings", h.PutOrgSettings)
		})
	})

	return r
}
