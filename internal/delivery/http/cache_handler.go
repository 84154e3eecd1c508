package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/glyphforge/glyphforge/internal/engine"
)

// CacheHandler exposes the artifact cache's operational surface.
type CacheHandler struct {
	engine *engine.Engine
	logger *zap.Logger
}

// NewCacheHandler creates a new CacheHandler.
func NewCacheHandler(eng *engine.Engine, logger *zap.Logger) *CacheHandler {
	return &CacheHandler{engine: eng, logger: logger}
}

// Stats handles GET /api/v1/cache/stats
func (h *CacheHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.CacheStats())
}

// Clear handles POST /api/v1/cache/clear
func (h *CacheHandler) Clear(c *gin.Context) {
	h.engine.CacheClear()
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}
