package cache

import (
	"container/list"
	"fmt"
	"sync"
	"time"

	"github.com/glyphforge/glyphforge/internal/domain"
	"github.com/glyphforge/glyphforge/internal/metrics"
)

// CategoryConfig bounds one category's sub-cache.
type CategoryConfig struct {
	Capacity int
	TTL      time.Duration
}

// Config configures the artifact cache. Categories without an explicit entry
// get the defaults on first access.
type Config struct {
	DefaultCapacity int
	DefaultTTL      time.Duration
	Categories      map[string]CategoryConfig
}

// Validate rejects capacities that cannot hold a single entry. A zero or
// negative TTL is allowed: such entries expire immediately, which the tests
// for non-cacheable categories rely on.
func (c Config) Validate() error {
	if c.DefaultCapacity < 1 {
		return fmt.Errorf("default capacity must be at least 1, got %d", c.DefaultCapacity)
	}
	for name, cc := range c.Categories {
		if cc.Capacity < 1 {
			return fmt.Errorf("category %q: capacity must be at least 1, got %d", name, cc.Capacity)
		}
	}
	return nil
}

// CategoryStats reports one sub-cache's counters and occupancy.
type CategoryStats struct {
	Size      int    `json:"size"`
	Capacity  int    `json:"capacity"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Expiries  uint64 `json:"expiries"`
}

// Stats aggregates counters across all categories.
type Stats struct {
	Categories map[string]CategoryStats `json:"categories"`
	Total      CategoryStats            `json:"total"`
}

type entry struct {
	key       string
	artifact  domain.Artifact
	createdAt time.Time
	ttl       time.Duration
}

// categoryCache is one bounded LRU partition. The front of the list is the
// most recently used entry.
type categoryCache struct {
	capacity  int
	ttl       time.Duration
	ll        *list.List
	entries   map[string]*list.Element
	hits      uint64
	misses    uint64
	evictions uint64
	expiries  uint64
}

// ArtifactCache memoizes generation results per category under a capacity
// and TTL budget. Each category has its own partition so a cheap high-churn
// category cannot evict a rare expensive one.
type ArtifactCache struct {
	mu     sync.Mutex
	cfg    Config
	shards map[string]*categoryCache
	now    func() time.Time
}

// New creates an artifact cache from a validated config.
func New(cfg Config) (*ArtifactCache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("cache config: %w", err)
	}
	return &ArtifactCache{
		cfg:    cfg,
		shards: make(map[string]*categoryCache),
		now:    time.Now,
	}, nil
}

// shard returns the category partition, lazily creating it. Caller holds mu.
func (c *ArtifactCache) shard(category string) *categoryCache {
	if s, ok := c.shards[category]; ok {
		return s
	}
	cc := CategoryConfig{Capacity: c.cfg.DefaultCapacity, TTL: c.cfg.DefaultTTL}
	if override, ok := c.cfg.Categories[category]; ok {
		cc = override
	}
	s := &categoryCache{
		capacity: cc.Capacity,
		ttl:      cc.TTL,
		ll:       list.New(),
		entries:  make(map[string]*list.Element),
	}
	c.shards[category] = s
	return s
}

// Get returns the cached artifact for (category, parameters) if present and
// unexpired. An expired entry counts as a miss and is evicted on the spot.
// A hit promotes the entry to most recently used.
//
// Get followed by Set is not exactly-once: two callers racing on the same
// fingerprint may both miss and both compute. Duplicate generation is pure,
// so the race wastes work but never corrupts state.
func (c *ArtifactCache) Get(category string, params map[string]any) (domain.Artifact, bool) {
	key := Fingerprint(category, params)

	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.shard(category)
	el, ok := s.entries[key]
	if !ok {
		s.misses++
		metrics.CacheMisses.WithLabelValues(category).Inc()
		return nil, false
	}

	e := el.Value.(*entry)
	if !c.now().Before(e.createdAt.Add(e.ttl)) {
		s.ll.Remove(el)
		delete(s.entries, key)
		s.expiries++
		s.misses++
		metrics.CacheExpiries.WithLabelValues(category).Inc()
		metrics.CacheMisses.WithLabelValues(category).Inc()
		return nil, false
	}

	s.ll.MoveToFront(el)
	s.hits++
	metrics.CacheHits.WithLabelValues(category).Inc()
	return e.artifact, true
}

// Set inserts or replaces the entry for (category, parameters) using the
// category TTL. Overwriting refreshes recency and re-stamps the TTL without
// changing capacity accounting. At capacity, the least recently used entry
// is evicted first.
func (c *ArtifactCache) Set(category string, params map[string]any, artifact domain.Artifact) {
	key := Fingerprint(category, params)

	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.shard(category)
	if el, ok := s.entries[key]; ok {
		e := el.Value.(*entry)
		e.artifact = artifact
		e.createdAt = c.now()
		e.ttl = s.ttl
		s.ll.MoveToFront(el)
		return
	}

	if s.ll.Len() >= s.capacity {
		oldest := s.ll.Back()
		if oldest != nil {
			s.ll.Remove(oldest)
			delete(s.entries, oldest.Value.(*entry).key)
			s.evictions++
			metrics.CacheEvictions.WithLabelValues(category).Inc()
		}
	}

	s.entries[key] = s.ll.PushFront(&entry{
		key:       key,
		artifact:  artifact,
		createdAt: c.now(),
		ttl:       s.ttl,
	})
}

// ClearAll drops every entry in every category. Counters are preserved;
// occupancy goes to zero.
func (c *ArtifactCache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.shards {
		s.ll.Init()
		s.entries = make(map[string]*list.Element)
	}
}

// Stats returns per-category counters plus an aggregate.
func (c *ArtifactCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := Stats{Categories: make(map[string]CategoryStats, len(c.shards))}
	for name, s := range c.shards {
		cs := CategoryStats{
			Size:      s.ll.Len(),
			Capacity:  s.capacity,
			Hits:      s.hits,
			Misses:    s.misses,
			Evictions: s.evictions,
			Expiries:  s.expiries,
		}
		out.Categories[name] = cs
		out.Total.Size += cs.Size
		out.Total.Capacity += cs.Capacity
		out.Total.Hits += cs.Hits
		out.Total.Misses += cs.Misses
		out.Total.Evictions += cs.Evictions
		out.Total.Expiries += cs.Expiries
	}
	return out
}
