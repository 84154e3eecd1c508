package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/glyphforge/glyphforge/internal/domain"
)

func newTestCache(t *testing.T, cfg Config) *ArtifactCache {
	t.Helper()
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected config error: %v", err)
	}
	return c
}

func defaultConfig() Config {
	return Config{DefaultCapacity: 8, DefaultTTL: time.Hour}
}

func TestCache_RoundTrip(t *testing.T) {
	c := newTestCache(t, defaultConfig())

	params := map[string]any{"size": float64(64), "stroke": "thick"}
	c.Set("sigil", params, domain.Artifact("payload"))

	got, ok := c.Get("sigil", params)
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if string(got) != "payload" {
		t.Errorf("expected %q, got %q", "payload", got)
	}
}

func TestCache_MissOnUnknownKey(t *testing.T) {
	c := newTestCache(t, defaultConfig())

	if _, ok := c.Get("sigil", map[string]any{"size": float64(64)}); ok {
		t.Error("expected a miss for a key never set")
	}
}

func TestCache_FingerprintIgnoresParamOrder(t *testing.T) {
	a := Fingerprint("sigil", map[string]any{"a": 1, "b": "x", "c": true})
	b := Fingerprint("sigil", map[string]any{"c": true, "b": "x", "a": 1})
	if a != b {
		t.Error("same parameters should fingerprint identically regardless of order")
	}

	other := Fingerprint("enso", map[string]any{"a": 1, "b": "x", "c": true})
	if a == other {
		t.Error("different categories must not collide")
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	cfg := defaultConfig()
	cfg.Categories = map[string]CategoryConfig{
		"sigil": {Capacity: 3, TTL: time.Hour},
	}
	c := newTestCache(t, cfg)

	for i := 0; i < 3; i++ {
		c.Set("sigil", map[string]any{"n": i}, domain.Artifact(fmt.Sprintf("a%d", i)))
	}

	// Touch n=0 so n=1 becomes the LRU entry.
	if _, ok := c.Get("sigil", map[string]any{"n": 0}); !ok {
		t.Fatal("expected hit for n=0")
	}

	// Capacity+1th distinct key evicts n=1.
	c.Set("sigil", map[string]any{"n": 3}, domain.Artifact("a3"))

	if _, ok := c.Get("sigil", map[string]any{"n": 1}); ok {
		t.Error("expected the least recently used entry (n=1) to be evicted")
	}
	for _, n := range []int{0, 2, 3} {
		if _, ok := c.Get("sigil", map[string]any{"n": n}); !ok {
			t.Errorf("expected n=%d to remain resident", n)
		}
	}

	stats := c.Stats().Categories["sigil"]
	if stats.Size != 3 {
		t.Errorf("expected exactly capacity entries resident, got %d", stats.Size)
	}
	if stats.Evictions != 1 {
		t.Errorf("expected 1 eviction, got %d", stats.Evictions)
	}
}

func TestCache_OverwriteDoesNotEvict(t *testing.T) {
	cfg := defaultConfig()
	cfg.Categories = map[string]CategoryConfig{
		"sigil": {Capacity: 2, TTL: time.Hour},
	}
	c := newTestCache(t, cfg)

	c.Set("sigil", map[string]any{"n": 0}, domain.Artifact("v1"))
	c.Set("sigil", map[string]any{"n": 1}, domain.Artifact("other"))
	c.Set("sigil", map[string]any{"n": 0}, domain.Artifact("v2"))

	stats := c.Stats().Categories["sigil"]
	if stats.Size != 2 {
		t.Errorf("overwrite must not change capacity accounting, size=%d", stats.Size)
	}
	if stats.Evictions != 0 {
		t.Errorf("overwrite must not evict, evictions=%d", stats.Evictions)
	}

	got, ok := c.Get("sigil", map[string]any{"n": 0})
	if !ok || string(got) != "v2" {
		t.Errorf("expected overwritten value v2, got %q (hit=%v)", got, ok)
	}

	// Overwrite refreshed recency, so n=1 is now the LRU entry.
	c.Set("sigil", map[string]any{"n": 2}, domain.Artifact("v3"))
	if _, ok := c.Get("sigil", map[string]any{"n": 1}); ok {
		t.Error("expected n=1 to be evicted after n=0 was refreshed")
	}
}

func TestCache_ZeroTTLNeverReturned(t *testing.T) {
	cfg := defaultConfig()
	cfg.Categories = map[string]CategoryConfig{
		"ephemeral": {Capacity: 4, TTL: 0},
	}
	c := newTestCache(t, cfg)

	c.Set("ephemeral", map[string]any{"n": 0}, domain.Artifact("gone"))

	if _, ok := c.Get("ephemeral", map[string]any{"n": 0}); ok {
		t.Error("an entry with ttl=0 must never be returned")
	}

	stats := c.Stats().Categories["ephemeral"]
	if stats.Expiries != 1 {
		t.Errorf("expected 1 expiry, got %d", stats.Expiries)
	}
	if stats.Misses != 1 {
		t.Errorf("an expired entry counts as a miss, got %d misses", stats.Misses)
	}
	if stats.Size != 0 {
		t.Errorf("expired entry must be evicted lazily on lookup, size=%d", stats.Size)
	}
}

func TestCache_ExpiredEntryEvictedLazily(t *testing.T) {
	c := newTestCache(t, defaultConfig())

	c.Set("sigil", map[string]any{"n": 0}, domain.Artifact("old"))

	// Rewind the clock past the TTL instead of sleeping.
	c.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	if _, ok := c.Get("sigil", map[string]any{"n": 0}); ok {
		t.Error("expected the entry to have expired")
	}

	// Re-inserting after expiry works normally.
	c.now = time.Now
	c.Set("sigil", map[string]any{"n": 0}, domain.Artifact("new"))
	if got, ok := c.Get("sigil", map[string]any{"n": 0}); !ok || string(got) != "new" {
		t.Errorf("expected fresh entry after expiry, got %q (hit=%v)", got, ok)
	}
}

func TestCache_CategoriesAreIsolated(t *testing.T) {
	cfg := defaultConfig()
	cfg.Categories = map[string]CategoryConfig{
		"churn": {Capacity: 1, TTL: time.Hour},
		"rare":  {Capacity: 2, TTL: time.Hour},
	}
	c := newTestCache(t, cfg)

	c.Set("rare", map[string]any{"n": 0}, domain.Artifact("precious"))
	for i := 0; i < 10; i++ {
		c.Set("churn", map[string]any{"n": i}, domain.Artifact("junk"))
	}

	if _, ok := c.Get("rare", map[string]any{"n": 0}); !ok {
		t.Error("churn in one category must not evict another category's entries")
	}

	stats := c.Stats()
	if stats.Categories["churn"].Size != 1 {
		t.Errorf("expected churn size 1, got %d", stats.Categories["churn"].Size)
	}
	if stats.Categories["churn"].Evictions != 9 {
		t.Errorf("expected 9 churn evictions, got %d", stats.Categories["churn"].Evictions)
	}
}

func TestCache_ClearAll(t *testing.T) {
	c := newTestCache(t, defaultConfig())

	c.Set("sigil", map[string]any{"n": 0}, domain.Artifact("a"))
	c.Set("enso", map[string]any{"n": 0}, domain.Artifact("b"))

	c.ClearAll()

	stats := c.Stats()
	if stats.Total.Size != 0 {
		t.Errorf("expected zero total size after clear, got %d", stats.Total.Size)
	}
	for name, cs := range stats.Categories {
		if cs.Size != 0 {
			t.Errorf("expected zero size in category %q, got %d", name, cs.Size)
		}
	}

	if _, ok := c.Get("sigil", map[string]any{"n": 0}); ok {
		t.Error("expected a miss after clear")
	}
}

func TestCache_StatsCounters(t *testing.T) {
	c := newTestCache(t, defaultConfig())

	params := map[string]any{"n": 0}
	c.Get("sigil", params) // miss
	c.Set("sigil", params, domain.Artifact("a"))
	c.Get("sigil", params) // hit
	c.Get("sigil", params) // hit

	cs := c.Stats().Categories["sigil"]
	if cs.Hits != 2 {
		t.Errorf("expected 2 hits, got %d", cs.Hits)
	}
	if cs.Misses != 1 {
		t.Errorf("expected 1 miss, got %d", cs.Misses)
	}
	if cs.Capacity != 8 {
		t.Errorf("expected default capacity 8, got %d", cs.Capacity)
	}

	total := c.Stats().Total
	if total.Hits != 2 || total.Misses != 1 {
		t.Errorf("aggregate counters mismatch: %+v", total)
	}
}

func TestCacheConfig_Validate(t *testing.T) {
	if err := (Config{DefaultCapacity: 0}).Validate(); err == nil {
		t.Error("expected error for zero default capacity")
	}
	bad := Config{
		DefaultCapacity: 1,
		Categories:      map[string]CategoryConfig{"sigil": {Capacity: -1}},
	}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for negative category capacity")
	}
	if err := defaultConfig().Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
