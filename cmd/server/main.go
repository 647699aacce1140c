package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stwalsh4118/immowert/api/internal/config"
	"github.com/stwalsh4118/immowert/api/internal/database"
	"github.com/stwalsh4118/immowert/api/internal/handlers"
	"github.com/stwalsh4118/immowert/api/internal/logger"
	"github.com/stwalsh4118/immowert/api/internal/repository"
	"github.com/stwalsh4118/immowert/api/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
	startupTimeout  = 15 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.NewWithLevel(cfg.Server.Env, cfg.Log.Level)
	log.Info("Starting Immowert API", map[string]interface{}{
		"version":      handlers.APIVersion,
		"environment":  cfg.Server.Env,
		"port":         cfg.Server.Port,
		"rates_source": cfg.Rates.Source,
	})

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), startupTimeout)
	defer cancelStartup()

	// Connect to PostgreSQL only when the rate source needs it
	var db *database.Database
	if cfg.UsesDatabase() {
		db, err = database.NewPostgresPool(startupCtx, cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database", err, map[string]interface{}{
				"host": cfg.Database.Host,
				"port": cfg.Database.Port,
				"name": cfg.Database.Name,
			})
		}
		defer db.Close()

		if err := db.Migrate(startupCtx); err != nil {
			log.Fatal("Failed to migrate database", err, nil)
		}

		log.Info("Database connection established", map[string]interface{}{
			"host":     cfg.Database.Host,
			"port":     cfg.Database.Port,
			"database": cfg.Database.Name,
			"pool_min": cfg.Database.PoolMin,
			"pool_max": cfg.Database.PoolMax,
		})
	}

	// Load rate tables
	rates := services.NewCachedRatesProvider(rateLoader(cfg, db), log)
	if err := rates.Refresh(startupCtx); err != nil {
		log.Fatal("Failed to load rate tables", err, map[string]interface{}{
			"source": cfg.Rates.Source,
			"file":   cfg.Rates.File,
		})
	}
	if err := rates.Start(cfg.Rates.Refresh); err != nil {
		log.Fatal("Failed to schedule rate refresh", err, nil)
	}
	defer rates.Stop()

	// Initialize service and handlers
	valuationService := services.NewValuationService(rates, log)

	var dbCheck handlers.DatabaseChecker
	if db != nil {
		dbCheck = db
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(handlers.RouterConfig{
		Log:         log,
		CORSOrigins: cfg.CORS.Origins,
		Health:      handlers.NewHealthHandler(rates, dbCheck, cfg.Server.Env),
		Valuation:   handlers.NewValuationHandler(valuationService),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}

// rateLoader picks the loader for the configured rate source. The postgres
// source overlays database cities onto the rates file when one is set.
func rateLoader(cfg *config.Config, db *database.Database) services.RateLoader {
	base := services.DefaultRateLoader()
	if cfg.Rates.File != "" {
		base = services.FileRateLoader(cfg.Rates.File)
	}

	switch cfg.Rates.Source {
	case config.RatesSourceFile:
		return base
	case config.RatesSourcePostgres:
		return services.PostgresRateLoader(repository.NewRateRepository(db), base)
	default:
		return services.DefaultRateLoader()
	}
}
