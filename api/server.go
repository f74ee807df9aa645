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
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for frontend clients

ROUTE GROUPS:
  /api/auth/*          Login, logout, session
  /api/medicines/*     Catalog and per-medicine batches
  /api/stock/*         Stock-in, dispense, adjust
  /api/alerts          Low-stock / near-expiry / expired views
  /api/reports/*       Stock-status and movement reports
  /api/dashboard       Headline counts
  /api/transactions    Movement log
  /api/audit           Audit trail
  /api/users/*         Account administration
  /api/settings        Configuration singleton

SECURITY NOTE:
  Authorization happens in the domain layer per operation, keyed off
  the stored session. There is no token or cookie handling here.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds the HTTP router with all routes mounted.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.Get("/session", h.GetSession)
		})

		r.Route("/medicines", func(r chi.Router) {
			r.Get("/", h.ListMedicines)
			r.Post("/", h.SaveMedicine)
			r.Get("/{id}", h.GetMedicine)
			r.Post("/{id}/archive", h.SetArchived)
			r.Get("/{id}/batches", h.ListBatches)
			r.Get("/{id}/suggested-batch", h.SuggestBatch)
		})

		r.Route("/stock", func(r chi.Router) {
			r.Post("/in", h.StockIn)
			r.Post("/dispense", h.Dispense)
			r.Post("/adjust", h.Adjust)
		})

		r.Get("/alerts", h.GetAlerts)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/stock-status", h.GetStockStatus)
			r.Get("/movements", h.GetMovements)
		})

		r.Get("/dashboard", h.GetDashboard)
		r.Get("/transactions", h.ListTransactions)
		r.Get("/audit", h.ListAudit)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.ListUsers)
			r.Post("/", h.SaveUser)
			r.Post("/{id}/status", h.SetUserStatus)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.GetSettings)
			r.Put("/", h.UpdateSettings)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
