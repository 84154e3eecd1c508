package pool

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/glyphforge/glyphforge/internal/metrics"
)

// Task is one unit of work executed by a pool worker.
type Task func(ctx context.Context)

// WorkerPool is a fixed-size pool of goroutines shared by every job in the
// process. Bounding the pool caps CPU and memory pressure from concurrent
// artifact generation; jobs never get dedicated goroutines.
type WorkerPool struct {
	size   int
	tasks  chan Task
	logger *zap.Logger
	wg     sync.WaitGroup
}

// New creates a worker pool with the given size and submission queue depth.
func New(size, queueDepth int, logger *zap.Logger) *WorkerPool {
	if size < 1 {
		size = 1
	}
	if queueDepth < size {
		queueDepth = size
	}
	return &WorkerPool{
		size:   size,
		tasks:  make(chan Task, queueDepth),
		logger: logger,
	}
}

// Start launches all worker goroutines. Call Stop to wait for them to finish.
func (p *WorkerPool) Start(ctx context.Context) {
	p.logger.Info("starting worker pool", zap.Int("pool_size", p.size))

	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

// Submit enqueues a task. It blocks while the queue is full, which
// backpressures job dispatchers rather than growing without bound.
func (p *WorkerPool) Submit(task Task) {
	p.tasks <- task
}

// Stop closes the queue and waits for workers to drain it. Submit must not
// be called after Stop.
func (p *WorkerPool) Stop() {
	close(p.tasks)
	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	p.logger.Debug("worker started", zap.Int("worker_id", id))

	for task := range p.tasks {
		metrics.WorkersActive.Inc()
		p.runTask(ctx, id, task)
		metrics.WorkersActive.Dec()
	}

	p.logger.Debug("worker exiting", zap.Int("worker_id", id))
}

// runTask isolates panic recovery so a misbehaving generator cannot take the
// worker down with it.
func (p *WorkerPool) runTask(ctx context.Context, id int, task Task) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("worker panic recovered",
				zap.Int("worker_id", id),
				zap.Any("panic", r),
			)
		}
	}()
	task(ctx)
}
