package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/glyphforge/glyphforge/internal/engine"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development; restrict in production
	},
}

// WebSocketHandler handles WebSocket connections for real-time job progress.
type WebSocketHandler struct {
	engine *engine.Engine
	logger *zap.Logger
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(eng *engine.Engine, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{engine: eng, logger: logger}
}

// Stream handles GET /api/v1/batches/:id/stream (WebSocket upgrade). It
// pushes job snapshots until the job reaches a terminal state.
func (h *WebSocketHandler) Stream(c *gin.Context) {
	id := c.Param("id")

	if _, err := h.engine.GetJob(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.logger.Debug("websocket connection opened", zap.String("job_id", id))

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		job, err := h.engine.GetJob(id)
		if err != nil {
			conn.WriteJSON(gin.H{"error": "Job not found"})
			return
		}

		if err := conn.WriteJSON(job); err != nil {
			h.logger.Debug("websocket write failed (client disconnected)", zap.Error(err))
			return
		}

		if job.Status.IsTerminal() {
			h.logger.Debug("job reached terminal state, closing websocket", zap.String("job_id", id))
			return
		}
	}
}
