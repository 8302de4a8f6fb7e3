/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/payments/*               Recognition calculations (public)
  /api/signup, /api/login       Accounts
  /api/me/subscription-detail   Stored summary (JWT required)
  /api/admin/*                  Operational endpoints

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
func NewRouter(h *Handler, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	if len(corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   corsOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Account routes
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)

		// Calculation routes
		r.Route("/payments", func(r chi.Router) {
			r.Post("/normal", h.NormalSchedule)
			r.Post("/recalc", h.RecalcSchedule)
			r.Post("/calculate-recognition", h.CalculateRecognition)
		})

		// Stored summary routes (authenticated)
		r.Route("/me/subscription-detail", func(r chi.Router) {
			r.Use(h.RequireAuth)
			r.Get("/", h.GetMySummary)
			r.Post("/", h.SaveMySummary)
			r.Delete("/", h.DeleteMySummary)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/refresh", h.TriggerRefresh)
		})
	})

	return r
}
