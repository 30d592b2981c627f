/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Wires URLs to handlers. chi for routing (lightweight, context-based),
  CORS open to the local front-end, PIN session middleware on every
  route except session opening.

ROUTE GROUPS:
  /api/session              PIN -> role
  /api/ledger/*             day lists, record, annul
  /api/reconciliation/*     preview, close, reopen
  /api/invoices/*           board, record, due dates, paid
  /api/rollups/*            daily / weekly / monthly / growth
  /api/export               read-only snapshot for the export collaborator
  /api/sync                 force re-sync of a pending snapshot

SEE ALSO:
  - handlers.go: handler implementations
  - cmd/server/main.go: server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates the router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Ledger-Pin", "X-Ledger-Operator", "X-Ledger-Shift"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/session", h.OpenSession)

		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireSession)

			r.Route("/ledger", func(r chi.Router) {
				r.Get("/{day}", h.ListDay)
				r.Post("/income", h.RecordIncome)
				r.Post("/withdrawal", h.RecordWithdrawal)
				r.Post("/expense", h.RecordExpense)
				r.Post("/annul/{id}", h.Annul)
			})

			r.Route("/reconciliation", func(r chi.Router) {
				r.Get("/{day}", h.PreviewDay)
				r.Post("/close", h.CloseDay)
				r.Post("/reopen", h.ReopenDay)
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Get("/", h.ListInvoices)
				r.Post("/", h.RecordInvoice)
				r.Post("/{id}/due-date", h.AssignDueDate)
				r.Post("/{id}/paid", h.MarkInvoicePaid)
			})

			r.Route("/rollups", func(r chi.Router) {
				r.Get("/daily/{day}", h.DailyRollup)
				r.Get("/weekly/{weekStart}", h.WeeklyRollup)
				r.Get("/monthly/{monthStart}", h.MonthlyRollup)
				r.Get("/growth", h.GrowthRollup)
			})

			r.Get("/export", h.Export)
			r.Post("/sync", h.ForceSync)
		})
	})

	return r
}
