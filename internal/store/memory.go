package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/glyphforge/glyphforge/internal/domain"
)

// Ensure MemoryStore implements JobStore.
var _ JobStore = (*MemoryStore)(nil)

// MemoryStore keeps jobs in a map guarded by a single RWMutex. One coarse
// lock is enough: every read-modify-write happens inside one critical
// section, so total vs completed+failed never observes a torn state.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]*domain.Job
	now  func() time.Time
}

// NewMemoryStore creates an empty in-memory job store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs: make(map[string]*domain.Job),
		now:  time.Now,
	}
}

func newJobID() string {
	// UUIDv7 is time-ordered, which keeps listings roughly chronological.
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *MemoryStore) Create(requests []domain.GenerationRequest, opts domain.BatchOptions) *domain.Job {
	total := 0
	for _, r := range requests {
		total += r.Count
	}

	job := &domain.Job{
		ID:         newJobID(),
		Status:     domain.StatusPending,
		Requests:   requests,
		Options:    opts,
		TotalItems: total,
		Results:    make([]domain.AssetResult, 0, total),
		CreatedAt:  s.now().UTC(),
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	return job.Clone()
}

func (s *MemoryStore) Get(id string) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return job.Clone(), nil
}

func (s *MemoryStore) Transition(id string, status domain.JobStatus, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return
	}
	job.Status = status
	if status == domain.StatusProcessing && job.StartedAt == nil {
		t := s.now().UTC()
		job.StartedAt = &t
	}
	if status.IsTerminal() && job.CompletedAt == nil {
		t := s.now().UTC()
		job.CompletedAt = &t
	}
	if errMsg != "" {
		job.Error = errMsg
	}
}

func (s *MemoryStore) AppendResult(id string, res domain.AssetResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return
	}
	job.Results = append(job.Results, res)
	if res.Success {
		job.CompletedItems++
	} else {
		job.FailedItems++
	}
}

func (s *MemoryStore) RequestCancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok || job.Status.IsTerminal() {
		return false
	}
	job.CancelRequested = true
	return true
}

func (s *MemoryStore) CancelRequested(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	return ok && job.CancelRequested
}

func (s *MemoryStore) List() []*domain.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j.Clone())
	}
	return out
}

func (s *MemoryStore) CleanupOlderThan(age time.Duration) int {
	cutoff := s.now().UTC().Add(-age)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, j := range s.jobs {
		if j.Status.IsTerminal() && j.CompletedAt != nil && j.CompletedAt.Before(cutoff) {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}
