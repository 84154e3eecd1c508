package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// JobsTotal counts finalized jobs by terminal status.
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glyphforge_jobs_total",
			Help: "Total number of finalized batch jobs",
		},
		[]string{"status"},
	)

	// TasksTotal counts generation tasks by category and outcome.
	TasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glyphforge_tasks_total",
			Help: "Total number of generation tasks",
		},
		[]string{"category", "outcome"},
	)

	// GenerationDuration tracks generator invocation latency in seconds.
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "glyphforge_generation_duration_seconds",
			Help:    "Duration of artifact generation calls in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~16s
		},
		[]string{"category"},
	)

	// WorkersActive tracks the number of workers currently running a task.
	WorkersActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "glyphforge_workers_active",
			Help: "Number of worker goroutines currently executing a task",
		},
	)

	// CacheHits counts artifact cache hits by category.
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glyphforge_cache_hits_total",
			Help: "Total number of artifact cache hits",
		},
		[]string{"category"},
	)

	// CacheMisses counts artifact cache misses by category.
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glyphforge_cache_misses_total",
			Help: "Total number of artifact cache misses",
		},
		[]string{"category"},
	)

	// CacheEvictions counts LRU evictions by category.
	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glyphforge_cache_evictions_total",
			Help: "Total number of artifact cache LRU evictions",
		},
		[]string{"category"},
	)

	// CacheExpiries counts lazily expired entries by category.
	CacheExpiries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glyphforge_cache_expiries_total",
			Help: "Total number of artifact cache TTL expiries",
		},
		[]string{"category"},
	)
)
