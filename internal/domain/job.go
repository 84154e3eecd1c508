package domain

import "time"

// JobStatus represents the lifecycle state of a batch generation job.
type JobStatus string

const (
	StatusPending    JobStatus = "PENDING"
	StatusProcessing JobStatus = "PROCESSING"
	StatusCompleted  JobStatus = "COMPLETED"
	StatusFailed     JobStatus = "FAILED"
	StatusCancelled  JobStatus = "CANCELLED"
)

// IsTerminal returns true if the status admits no further transitions.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Artifact is an opaque generated payload. The engine never interprets it.
type Artifact []byte

// GenerationRequest asks for Count artifacts of one category. Immutable once
// submitted.
type GenerationRequest struct {
	Category   string         `json:"category" binding:"required"`
	Count      int            `json:"count" binding:"required"`
	Parameters map[string]any `json:"parameters"`
}

// BatchOptions tunes how a batch is executed. MaxWorkers of zero means the
// engine default; values are clamped to [1, 20].
type BatchOptions struct {
	Parallel   bool `json:"parallel"`
	MaxWorkers int  `json:"max_workers"`
}

// AssetResult records the outcome of one generation task. Exactly one of
// Artifact/Error is set, matching Success.
type AssetResult struct {
	RequestIndex int       `json:"request_index"`
	ItemIndex    int       `json:"item_index"`
	Category     string    `json:"category"`
	Success      bool      `json:"success"`
	Artifact     Artifact  `json:"artifact,omitempty"`
	Error        string    `json:"error,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Job is the execution record of one batch submission. All mutation goes
// through the job store; everything handed out of the store is a snapshot.
type Job struct {
	ID              string              `json:"id"`
	Status          JobStatus           `json:"status"`
	Requests        []GenerationRequest `json:"requests"`
	Options         BatchOptions        `json:"options"`
	TotalItems      int                 `json:"total_items"`
	CompletedItems  int                 `json:"completed_items"`
	FailedItems     int                 `json:"failed_items"`
	Results         []AssetResult       `json:"results"`
	CancelRequested bool                `json:"cancel_requested"`
	Error           string              `json:"error,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	StartedAt       *time.Time          `json:"started_at,omitempty"`
	CompletedAt     *time.Time          `json:"completed_at,omitempty"`
}

// Clone returns a deep copy safe to hand to callers while workers keep
// appending to the original.
func (j *Job) Clone() *Job {
	c := *j
	c.Requests = make([]GenerationRequest, len(j.Requests))
	copy(c.Requests, j.Requests)
	c.Results = make([]AssetResult, len(j.Results))
	copy(c.Results, j.Results)
	if j.StartedAt != nil {
		t := *j.StartedAt
		c.StartedAt = &t
	}
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

// SubmitResponse is returned after a successful batch submission.
type SubmitResponse struct {
	JobID      string `json:"job_id"`
	Status     string `json:"status"`
	TotalItems int    `json:"total_items"`
}

// CategoryInfo describes a supported artifact category.
type CategoryInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
