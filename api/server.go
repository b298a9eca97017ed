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
  /api/stock/*          Intake records and stock position
  /api/transactions/*   Sales
  /api/debts/*          Receivables and repayments
  /api/customers/*      Customer directory
  /api/costs/*          Operational costs
  /api/settings         Singleton preferences
  /api/reports/*        Derived summaries
  /api/backup/*         Snapshot export and restore

SECURITY NOTE:
  Single-user deployment; no authentication middleware.

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
		// Stock routes
		r.Route("/stock", func(r chi.Router) {
			r.Get("/", h.ListStockEntries)
			r.Post("/", h.CreateStockEntry)
			r.Get("/summary", h.GetStockSummary)
			r.Put("/{id}", h.UpdateStockEntry)
			r.Delete("/{id}", h.DeleteStockEntry)
		})

		// Transaction routes
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.ListTransactions)
			r.Post("/", h.CreateTransaction)
			r.Put("/{id}", h.UpdateTransaction)
			r.Delete("/{id}", h.DeleteTransaction)
		})

		// Debt routes
		r.Route("/debts", func(r chi.Router) {
			r.Get("/", h.ListDebts)
			r.Get("/export", h.ExportDebts)
			r.Get("/{id}/payments", h.ListDebtPayments)
			r.Post("/{id}/payments", h.CreateDebtPayment)
		})

		// Customer routes
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.ListCustomers)
			r.Post("/", h.CreateCustomer)
			r.Get("/{id}/stats", h.GetCustomerStats)
			r.Put("/{id}", h.UpdateCustomer)
			r.Delete("/{id}", h.DeleteCustomer)
		})

		// Operational cost routes
		r.Route("/costs", func(r chi.Router) {
			r.Get("/", h.ListCosts)
			r.Post("/", h.CreateCost)
			r.Put("/{id}", h.UpdateCost)
			r.Delete("/{id}", h.DeleteCost)
		})

		// Settings routes
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.GetSettings)
			r.Put("/", h.UpdateSettings)
		})

		// Report routes
		r.Route("/reports", func(r chi.Router) {
			r.Get("/dashboard", h.GetDashboard)
			r.Get("/daily-sales", h.GetDailySales)
			r.Get("/monthly-summary", h.GetMonthlySummary)
			r.Get("/payment-methods", h.GetPaymentMethods)
			r.Get("/top-customers", h.GetTopCustomers)
			r.Get("/stock-vs-sales", h.GetStockVsSales)
		})

		// Backup routes
		r.Route("/backup", func(r chi.Router) {
			r.Get("/export", h.ExportBackup)
			r.Post("/import", h.ImportBackup)
		})
	})

	return r
}
