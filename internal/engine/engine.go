package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/glyphforge/glyphforge/internal/cache"
	"github.com/glyphforge/glyphforge/internal/domain"
	"github.com/glyphforge/glyphforge/internal/generator"
	"github.com/glyphforge/glyphforge/internal/metrics"
	"github.com/glyphforge/glyphforge/internal/pool"
	"github.com/glyphforge/glyphforge/internal/store"
)

const (
	// maxItemsPerRequest bounds a single request's count.
	maxItemsPerRequest = 1000
	// maxBatchItems bounds the total items across one submission.
	maxBatchItems = 1000
	// maxJobWorkers caps per-job parallelism regardless of options.
	maxJobWorkers = 20
)

// Config tunes the engine.
type Config struct {
	// DefaultJobWorkers is the per-job parallelism when options don't set one.
	DefaultJobWorkers int
	// RetentionAge is how long terminal jobs stay visible before the janitor
	// removes them.
	RetentionAge time.Duration
	// CleanupInterval is how often the janitor sweeps.
	CleanupInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.DefaultJobWorkers < 1 {
		c.DefaultJobWorkers = 4
	}
	if c.RetentionAge <= 0 {
		c.RetentionAge = 24 * time.Hour
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = time.Hour
	}
	return c
}

// Engine orchestrates batch jobs: it expands submissions into generation
// tasks, fans them out over the shared worker pool with the cache in front
// of the generator, and finalizes job status once every dispatched task has
// resolved or cancellation was observed.
type Engine struct {
	store  store.JobStore
	cache  *cache.ArtifactCache
	gen    generator.Generator
	pool   *pool.WorkerPool
	logger *zap.Logger
	cfg    Config

	running sync.WaitGroup
}

// New wires an engine from its collaborators. Nothing here is global; tests
// build fresh instances.
func New(st store.JobStore, ac *cache.ArtifactCache, gen generator.Generator, wp *pool.WorkerPool, logger *zap.Logger, cfg Config) *Engine {
	return &Engine{
		store:  st,
		cache:  ac,
		gen:    gen,
		pool:   wp,
		logger: logger,
		cfg:    cfg.withDefaults(),
	}
}

// Start launches the shared worker pool and the retention janitor.
func (e *Engine) Start(ctx context.Context) {
	e.pool.Start(ctx)
	go e.janitor(ctx)
}

// Stop waits for running jobs to finish dispatching, then drains the worker
// pool. Call after the HTTP server has stopped accepting submissions.
func (e *Engine) Stop() {
	e.running.Wait()
	e.pool.Stop()
}

// Submit validates the batch, registers a PENDING job and hands execution to
// the background scheduler. It returns the creation-time snapshot before any
// generation work happens.
func (e *Engine) Submit(requests []domain.GenerationRequest, opts domain.BatchOptions) (*domain.Job, error) {
	if err := e.validate(requests); err != nil {
		return nil, err
	}

	job := e.store.Create(requests, opts)
	e.logger.Info("batch submitted",
		zap.String("job_id", job.ID),
		zap.Int("requests", len(requests)),
		zap.Int("total_items", job.TotalItems),
	)

	e.running.Add(1)
	go func() {
		defer e.running.Done()
		e.run(job)
	}()
	return job, nil
}

// GetJob returns a snapshot of the job or domain.ErrJobNotFound.
func (e *Engine) GetJob(id string) (*domain.Job, error) {
	return e.store.Get(id)
}

// ListJobs returns snapshots of every known job.
func (e *Engine) ListJobs() []*domain.Job {
	return e.store.List()
}

// Cancel requests cooperative cancellation. Tasks already picked up by a
// worker finish naturally; only not-yet-started tasks are dropped. Returns
// false (not an error) for unknown or already terminal jobs.
func (e *Engine) Cancel(id string) bool {
	accepted := e.store.RequestCancel(id)
	if accepted {
		e.logger.Info("cancellation requested", zap.String("job_id", id))
	}
	return accepted
}

// CacheStats exposes the artifact cache counters.
func (e *Engine) CacheStats() cache.Stats {
	return e.cache.Stats()
}

// CacheClear drops every cached artifact.
func (e *Engine) CacheClear() {
	e.cache.ClearAll()
	e.logger.Info("artifact cache cleared")
}

// Categories lists the generator's supported categories.
func (e *Engine) Categories() []domain.CategoryInfo {
	return e.gen.Categories()
}

func (e *Engine) validate(requests []domain.GenerationRequest) error {
	if len(requests) == 0 {
		return domain.ErrEmptyBatch
	}
	total := 0
	for i, r := range requests {
		if r.Count < 1 || r.Count > maxItemsPerRequest {
			return fmt.Errorf("request %d: %w", i, domain.ErrCountOutOfRange)
		}
		if !e.gen.Supports(r.Category) {
			return fmt.Errorf("request %d (%q): %w", i, r.Category, domain.ErrUnknownCategory)
		}
		total += r.Count
	}
	if total > maxBatchItems {
		return fmt.Errorf("%d items requested: %w", total, domain.ErrBatchTooLarge)
	}
	return nil
}

// jobWorkers resolves the effective per-job parallelism.
func (e *Engine) jobWorkers(opts domain.BatchOptions) int {
	if !opts.Parallel {
		return 1
	}
	w := opts.MaxWorkers
	if w == 0 {
		w = e.cfg.DefaultJobWorkers
	}
	if w < 1 {
		w = 1
	}
	if w > maxJobWorkers {
		w = maxJobWorkers
	}
	return w
}

// task is one item's generation descriptor.
type task struct {
	requestIndex int
	itemIndex    int
	category     string
	params       map[string]any
}

func expand(requests []domain.GenerationRequest) []task {
	tasks := make([]task, 0)
	for ri, r := range requests {
		for ii := 0; ii < r.Count; ii++ {
			tasks = append(tasks, task{
				requestIndex: ri,
				itemIndex:    ii,
				category:     r.Category,
				params:       r.Parameters,
			})
		}
	}
	return tasks
}

// run executes one job to completion on the shared pool. A per-job semaphore
// bounds how many of this job's tasks occupy pool workers at once, so a large
// batch cannot starve the pool for everyone else.
func (e *Engine) run(job *domain.Job) {
	e.store.Transition(job.ID, domain.StatusProcessing, "")

	tasks := expand(job.Requests)
	sem := make(chan struct{}, e.jobWorkers(job.Options))
	var wg sync.WaitGroup

	for _, t := range tasks {
		// Cancellation is cooperative: observed-true drops every remaining
		// task without recording it. Tasks already handed to a worker run
		// to completion.
		if e.store.CancelRequested(job.ID) {
			break
		}

		sem <- struct{}{}
		wg.Add(1)
		t := t
		e.pool.Submit(func(ctx context.Context) {
			defer wg.Done()
			defer func() { <-sem }()

			// Re-check at pickup: dispatched-but-not-yet-started tasks are
			// skipped too, not executed and not recorded.
			if e.store.CancelRequested(job.ID) {
				return
			}
			e.runTask(ctx, job.ID, t)
		})
	}

	wg.Wait()
	e.finalize(job.ID)
}

// runTask resolves one item: cache lookup, generation on miss, result
// recording. A generation failure is contained here as a failed AssetResult;
// it never aborts the batch.
func (e *Engine) runTask(ctx context.Context, jobID string, t task) {
	res := domain.AssetResult{
		RequestIndex: t.requestIndex,
		ItemIndex:    t.itemIndex,
		Category:     t.category,
		Timestamp:    time.Now().UTC(),
	}

	if artifact, ok := e.cache.Get(t.category, t.params); ok {
		res.Success = true
		res.Artifact = artifact
		metrics.TasksTotal.WithLabelValues(t.category, "cached").Inc()
	} else {
		start := time.Now()
		artifact, err := e.gen.Generate(ctx, t.category, t.params)
		metrics.GenerationDuration.WithLabelValues(t.category).Observe(time.Since(start).Seconds())

		if err != nil {
			res.Error = err.Error()
			metrics.TasksTotal.WithLabelValues(t.category, "failed").Inc()
			e.logger.Warn("generation failed",
				zap.String("job_id", jobID),
				zap.String("category", t.category),
				zap.Int("request_index", t.requestIndex),
				zap.Int("item_index", t.itemIndex),
				zap.Error(err),
			)
		} else {
			e.cache.Set(t.category, t.params, artifact)
			res.Success = true
			res.Artifact = artifact
			metrics.TasksTotal.WithLabelValues(t.category, "generated").Inc()
		}
	}

	e.store.AppendResult(jobID, res)
}

// finalize settles the terminal status once dispatch has wound down.
func (e *Engine) finalize(id string) {
	snap, err := e.store.Get(id)
	if err != nil {
		// Cleaned up mid-flight; nothing left to finalize.
		return
	}

	resolved := snap.CompletedItems + snap.FailedItems
	var status domain.JobStatus
	var errMsg string
	switch {
	case snap.CancelRequested && resolved < snap.TotalItems:
		status = domain.StatusCancelled
	case snap.FailedItems > 0 && snap.CompletedItems == 0:
		status = domain.StatusFailed
		errMsg = failureSummary(snap)
	default:
		// Partial success is success at the job level; per-item failures
		// stay visible in the results.
		status = domain.StatusCompleted
	}

	e.store.Transition(id, status, errMsg)
	metrics.JobsTotal.WithLabelValues(string(status)).Inc()
	e.logger.Info("job finalized",
		zap.String("job_id", id),
		zap.String("status", string(status)),
		zap.Int("completed", snap.CompletedItems),
		zap.Int("failed", snap.FailedItems),
		zap.Int("total", snap.TotalItems),
	)
}

func failureSummary(job *domain.Job) string {
	for _, r := range job.Results {
		if !r.Success {
			return fmt.Sprintf("all %d items failed; first error: %s", job.FailedItems, r.Error)
		}
	}
	return fmt.Sprintf("all %d items failed", job.FailedItems)
}

// janitor periodically evicts terminal jobs past the retention age.
func (e *Engine) janitor(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := e.store.CleanupOlderThan(e.cfg.RetentionAge); n > 0 {
				e.logger.Info("cleaned up expired jobs", zap.Int("removed", n))
			}
		}
	}
}
