package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/glyphforge/glyphforge/internal/engine"
)

// CategoryHandler handles artifact category listing requests.
type CategoryHandler struct {
	engine *engine.Engine
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(eng *engine.Engine) *CategoryHandler {
	return &CategoryHandler{engine: eng}
}

// List handles GET /api/v1/categories
func (h *CategoryHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": h.engine.Categories(),
	})
}
