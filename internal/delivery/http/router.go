package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/glyphforge/glyphforge/internal/delivery/http/middleware"
	"github.com/glyphforge/glyphforge/internal/engine"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	Engine          *engine.Engine
	Logger          *zap.Logger
	RateLimitPerMin int
	MaxBodyBytes    int64
}

// NewRouter creates and configures the Gin router with all routes and middleware.
func NewRouter(deps *RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger(deps.Logger))

	// Metrics endpoint (no rate limiting)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 group
	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimiter(deps.RateLimitPerMin))
	{
		healthHandler := NewHealthHandler(deps.Logger)
		v1.GET("/health", healthHandler.Health)

		categoryHandler := NewCategoryHandler(deps.Engine)
		v1.GET("/categories", categoryHandler.List)

		batchHandler := NewBatchHandler(deps.Engine, deps.Logger)
		v1.POST("/batches", middleware.BodySizeLimit(deps.MaxBodyBytes), batchHandler.Submit)
		v1.GET("/batches", batchHandler.List)
		v1.GET("/batches/:id", batchHandler.GetByID)
		v1.POST("/batches/:id/cancel", batchHandler.Cancel)

		wsHandler := NewWebSocketHandler(deps.Engine, deps.Logger)
		v1.GET("/batches/:id/stream", wsHandler.Stream)

		cacheHandler := NewCacheHandler(deps.Engine, deps.Logger)
		v1.GET("/cache/stats", cacheHandler.Stats)
		v1.POST("/cache/clear", cacheHandler.Clear)
	}

	return router
}
