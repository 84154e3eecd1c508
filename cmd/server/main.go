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
	"go.uber.org/zap"

	"github.com/glyphforge/glyphforge/internal/cache"
	"github.com/glyphforge/glyphforge/internal/config"
	handler "github.com/glyphforge/glyphforge/internal/delivery/http"
	"github.com/glyphforge/glyphforge/internal/engine"
	"github.com/glyphforge/glyphforge/internal/generator"
	"github.com/glyphforge/glyphforge/internal/pool"
	"github.com/glyphforge/glyphforge/internal/store"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	logger.Info("Starting glyphforge server")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	gin.SetMode(cfg.Server.GinMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Build the artifact cache. Categories without an override share the
	// defaults; overrides go here when a category needs its own budget.
	artifactCache, err := cache.New(cache.Config{
		DefaultCapacity: cfg.Cache.DefaultCapacity,
		DefaultTTL:      cfg.Cache.DefaultTTL(),
	})
	if err != nil {
		logger.Fatal("Invalid cache configuration", zap.Error(err))
	}

	// Assemble the engine from explicitly constructed collaborators.
	jobStore := store.NewMemoryStore()
	gen := generator.NewProcedural()
	workerPool := pool.New(cfg.Worker.PoolSize, cfg.Worker.PoolSize*4, logger)

	eng := engine.New(jobStore, artifactCache, gen, workerPool, logger, engine.Config{
		DefaultJobWorkers: cfg.Jobs.DefaultWorkers,
		RetentionAge:      cfg.Jobs.Retention(),
		CleanupInterval:   cfg.Jobs.CleanupInterval(),
	})
	eng.Start(ctx)

	// Initialize router
	router := handler.NewRouter(&handler.RouterDeps{
		Engine:          eng,
		Logger:          logger,
		RateLimitPerMin: cfg.Server.RateLimitPerMin,
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("API server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// No new submissions can arrive; let in-flight jobs finish.
	eng.Stop()
	cancel()

	logger.Info("Server stopped")
}
