package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/api"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/coingecko"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/config"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/database"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/repository"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Create repositories
	userRepo := repository.NewUserRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	authService := service.NewAuthService(userRepo, cfg.Auth.Key, cfg.Auth.TokenTTL)
	ledgerService := service.NewLedgerService(transactionRepo)
	importService := service.NewImportService(transactionRepo, ledgerService)
	priceService := service.NewPriceService(coingecko.NewClient(cfg.Price.BaseURL), cfg.Price.CacheTTL)

	if cfg.Price.RefreshCron != "" {
		if err := priceService.StartRefresh(cfg.Price.RefreshCron, cfg.Price.DefaultCurrency); err != nil {
			log.Fatalf("Failed to schedule price refresh: %v", err)
		}
		defer priceService.StopRefresh()
	}

	// Create router
	router := api.NewRouter(systemService, authService, ledgerService, importService, priceService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
