package store

import (
	"time"

	"github.com/glyphforge/glyphforge/internal/domain"
)

// JobStore is the registry of batch jobs shared between the submitting
// caller, the engine workers and polling readers. Implementations must be
// safe for concurrent use, and every Job handed out must be a snapshot.
type JobStore interface {
	// Create inserts a new PENDING job and returns its snapshot.
	Create(requests []domain.GenerationRequest, opts domain.BatchOptions) *domain.Job

	// Get returns a snapshot of the job, or domain.ErrJobNotFound.
	Get(id string) (*domain.Job, error)

	// Transition sets the job status. The first transition to PROCESSING
	// stamps StartedAt; a transition to a terminal status stamps CompletedAt
	// and records errMsg. Unknown ids are a silent no-op: a job removed by
	// the cleanup sweep was terminal and is not expected to transition again.
	Transition(id string, status domain.JobStatus, errMsg string)

	// AppendResult appends one result and bumps the matching counter in a
	// single critical section. Unknown ids are a silent no-op.
	AppendResult(id string, res domain.AssetResult)

	// RequestCancel flags the job for cooperative cancellation. It returns
	// false if the job is unknown or already terminal.
	RequestCancel(id string) bool

	// CancelRequested reports whether cancellation has been requested.
	CancelRequested(id string) bool

	// List returns snapshots of every job.
	List() []*domain.Job

	// CleanupOlderThan removes terminal jobs whose CompletedAt is older than
	// the given age and returns how many were removed.
	CleanupOlderThan(age time.Duration) int
}
