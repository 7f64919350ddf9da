package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/api/handlers"
	custommiddleware "github.com/hodltrack/Bitcoin-HODL-Backend/internal/api/middleware"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/config"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	authService *service.AuthService,
	ledgerService *service.LedgerService,
	importService *service.ImportService,
	priceService *service.PriceService,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	requireAuth := custommiddleware.Auth(authService)

	// Account routes
	authHandler := handlers.NewAuthHandler(authService)
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)
	r.With(requireAuth).Get("/users/me", authHandler.Me)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		// Ledger namespace, always scoped to the authenticated user
		r.Route("/transaction", func(r chi.Router) {
			r.Use(requireAuth)

			transactionHandler := handlers.NewTransactionHandler(ledgerService, importService, priceService)
			r.Get("/", transactionHandler.ListTransactions)
			r.Post("/", transactionHandler.CreateTransaction)
			r.Get("/summary", transactionHandler.Summary)
			r.Get("/valuation", transactionHandler.Valuation)
			r.Post("/bulk-delete", transactionHandler.BulkDeleteTransactions)
			r.Post("/import", transactionHandler.ImportTransactions)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Delete("/", transactionHandler.DeleteTransaction)
			})
		})

		// Price namespace
		r.Route("/bitcoin", func(r chi.Router) {
			priceHandler := handlers.NewPriceHandler(priceService, cfg.Price.DefaultCurrency)
			r.Get("/price", priceHandler.Price)
		})
	})

	return r
}
