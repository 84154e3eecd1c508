package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/glyphforge/glyphforge/internal/domain"
	"github.com/glyphforge/glyphforge/internal/engine"
)

// SubmitBatchRequest is the wire shape of a batch submission.
type SubmitBatchRequest struct {
	Requests []domain.GenerationRequest `json:"requests" binding:"required"`
	Options  domain.BatchOptions        `json:"options"`
}

// BatchHandler handles HTTP requests for batch generation jobs.
type BatchHandler struct {
	engine *engine.Engine
	logger *zap.Logger
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(eng *engine.Engine, logger *zap.Logger) *BatchHandler {
	return &BatchHandler{engine: eng, logger: logger}
}

// Submit handles POST /api/v1/batches
func (h *BatchHandler) Submit(c *gin.Context) {
	var req SubmitBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body: " + err.Error(),
		})
		return
	}

	job, err := h.engine.Submit(req.Requests, req.Options)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyBatch),
			errors.Is(err, domain.ErrCountOutOfRange),
			errors.Is(err, domain.ErrUnknownCategory):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrBatchTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		default:
			h.logger.Error("batch submission failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusAccepted, domain.SubmitResponse{
		JobID:      job.ID,
		Status:     string(job.Status),
		TotalItems: job.TotalItems,
	})
}

// GetByID handles GET /api/v1/batches/:id
func (h *BatchHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	job, err := h.engine.GetJob(id)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
			return
		}
		h.logger.Error("get job failed", zap.Error(err), zap.String("job_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// List handles GET /api/v1/batches
func (h *BatchHandler) List(c *gin.Context) {
	jobs := h.engine.ListJobs()
	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// Cancel handles POST /api/v1/batches/:id/cancel. A false result is not an
// error: the job is unknown or already terminal.
func (h *BatchHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	accepted := h.engine.Cancel(id)
	c.JSON(http.StatusOK, gin.H{"cancelled": accepted})
}
