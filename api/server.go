/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the scheduling frontend

ROUTE GROUPS:
  /api/compliance/*  Validation and cost
  /api/reports/*     Report generation and export
  /api/config/*      Jurisdiction presets
  /api/orgs/*        Roster write side

SECURITY NOTE:
  No authentication middleware; the engine sits behind the scheduling
  platform's gateway which terminates auth.

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

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/compliance", func(r chi.Router) {
			r.Post("/validate", h.ValidateShift)
			r.Post("/cost", h.CalculateCost)
			r.Post("/cost/variance", h.CostVariance)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/{orgID}", h.GenerateReport)
		})

		r.Route("/config", func(r chi.Router) {
			r.Get("/", h.ListJurisdictions)
			r.Get("/{jurisdiction}", h.GetConfig)
		})

		r.Route("/orgs", func(r chi.Router) {
			r.Post("/", h.CreateOrganization)
			r.Post("/{orgID}/employees", h.CreateEmployee)
			r.Post("/{orgID}/shifts", h.CreateShift)
			r.Post("/{orgID}/actual-hours", h.RecordActualHours)
		})
	})

	return r
}
