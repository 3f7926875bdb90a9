// Package schedcache memoizes one schedule pipeline result behind a
// content-hash key with a short time-to-live.
//
// The pipeline is pure but not free, and several UI surfaces re-request
// the same projection within a render tick. The cache holds exactly one
// entry: the most recent result. A new key replaces it, matching keys
// within the TTL return it, and Invalidate drops it immediately so a task
// edit never serves stale blocks for the remainder of the TTL window.
//
// Unlike the usual module-level cache variable, the cache is an explicit
// service object the caller owns and injects, so tests construct
// independent instances without global leakage.
package schedcache

import (
	"sync"
	"time"

	"timegrid/pkg/model"
	"timegrid/pkg/scheduler"
)

// DefaultTTL bounds how long a hit may be served without recomputation.
const DefaultTTL = 3 * time.Second

// Cache is a single-entry memoization layer over the scheduler pipeline.
// Safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	ttl      time.Duration
	key      string
	blocks   []model.ScheduleBlock
	storedAt time.Time
}

// New returns a cache with the given TTL; non-positive falls back to
// DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{ttl: ttl}
}

// Generate returns the memoized blocks when the input fingerprint matches
// the stored entry within the TTL, otherwise runs the engine and stores
// the fresh result.
func (c *Cache) Generate(e *scheduler.Engine, in scheduler.Input) []model.ScheduleBlock {
	key := Fingerprint(in)
	if blocks, ok := c.lookup(key); ok {
		return blocks
	}
	blocks := e.Generate(in)
	c.store(key, blocks)
	return blocks
}

// Invalidate drops the stored entry. Task-list mutations must call this
// rather than waiting out the TTL.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = ""
	c.blocks = nil
	c.storedAt = time.Time{}
}

func (c *Cache) lookup(key string) ([]model.ScheduleBlock, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.key != key || c.key == "" {
		return nil, false
	}
	if time.Since(c.storedAt) > c.ttl {
		return nil, false
	}
	return c.blocks, true
}

func (c *Cache) store(key string, blocks []model.ScheduleBlock) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = key
	c.blocks = blocks
	c.storedAt = time.Now()
}
