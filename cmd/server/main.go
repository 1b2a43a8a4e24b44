// backend-go/cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/stockpilot/backend-go/internal/api"
	"github.com/andresuchdata/stockpilot/backend-go/internal/cache"
	"github.com/andresuchdata/stockpilot/backend-go/internal/config"
	"github.com/andresuchdata/stockpilot/backend-go/internal/engine"
	"github.com/andresuchdata/stockpilot/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/stockpilot/backend-go/internal/service"
	"github.com/andresuchdata/stockpilot/backend-go/internal/storage"
	"github.com/andresuchdata/stockpilot/backend-go/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize repositories
	stores := postgres.NewStoreRepository(db)
	catalog := postgres.NewCatalogRepository(db)
	sales := postgres.NewSalesRepository(db)
	suppliers := postgres.NewSupplierRepository(db)
	calendar := postgres.NewCalendarRepository(db)
	orders := postgres.NewPORepository(db)

	optimizationCache, err := cache.NewOptimizationCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cache unavailable, running without it")
		optimizationCache = cache.NewNoopOptimizationCache()
	}

	var objects storage.ObjectStorage
	if cfg.Storage.Enabled {
		objects, err = storage.NewMinioClient(cfg.Storage)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Object storage unavailable, draft export disabled")
			objects = nil
		}
	}

	// Initialize the engine and services
	eng := engine.New(engine.Config{
		LookbackDays: cfg.Engine.LookbackDays,
		OrderingCost: cfg.Engine.OrderingCost,
		HoldingRate:  cfg.Engine.HoldingRate,
		NetReturns:   cfg.Engine.NetReturns,
		ABCBoundary:  engine.BoundaryMode(cfg.Engine.ABCBoundary),
		WorkerCount:  cfg.Engine.WorkerCount,
	})
	generator := engine.NewPOGenerator(engine.POConfig{
		VATRate:          cfg.Engine.VATRate,
		FreeShippingFrom: cfg.Engine.FreeShippingFrom,
		ShippingLarge:    cfg.Engine.ShippingLarge,
		ShippingMedium:   cfg.Engine.ShippingMedium,
		ShippingSmall:    cfg.Engine.ShippingSmall,
	})

	optimizationService := service.NewOptimizationService(stores, catalog, sales, eng, optimizationCache, cfg.Engine)
	forecastService := service.NewForecastService(stores, catalog, sales, calendar, eng, cfg.Engine)
	poService := service.NewPOService(stores, catalog, suppliers, orders, generator, optimizationService, forecastService, objects)

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{
		OptimizationService: optimizationService,
		ForecastService:     forecastService,
		POService:           poService,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
