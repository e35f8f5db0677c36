// Package cache provides a read-through, range-keyed cache in front of a
// sheets.Fetcher.
package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Veraticus/mission-control/internal/model"
	"github.com/Veraticus/mission-control/internal/sheets"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is used when New is given a non-positive TTL.
const DefaultTTL = 60 * time.Second

// entry represents a cached fetch result.
type entry struct {
	expiry time.Time
	result sheets.FetchResult
}

// Stats reports cache activity.
type Stats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Entries int    `json:"entries"`
}

// Fetcher caches successful results of the wrapped fetcher for a fixed TTL.
// Failed fetches are never cached.
type Fetcher struct {
	next      sheets.Fetcher
	entries   map[string]entry
	stopCh    chan struct{}
	now       func() time.Time
	group     singleflight.Group
	ttl       time.Duration
	hits      atomic.Uint64
	misses    atomic.Uint64
	mu        sync.RWMutex
	closeOnce sync.Once
}

var _ sheets.Fetcher = (*Fetcher)(nil)

// New wraps next with a cache and starts the expiry sweeper. Call Close to
// stop it.
func New(next sheets.Fetcher, ttl time.Duration) *Fetcher {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c := &Fetcher{
		next:    next,
		entries: make(map[string]entry),
		stopCh:  make(chan struct{}),
		now:     time.Now,
		ttl:     ttl,
	}

	go c.cleanup()

	return c
}

// TTL returns the configured time-to-live.
func (c *Fetcher) TTL() time.Duration {
	return c.ttl
}

// Fetch implements sheets.Fetcher.
func (c *Fetcher) Fetch(ctx context.Context, rng model.SheetRange) sheets.FetchResult {
	key := rng.String()

	if res, ok := c.get(key); ok {
		c.hits.Add(1)
		res.Cached = true
		return res
	}
	c.misses.Add(1)

	// The flight outlives any one caller; each caller waits on its own ctx.
	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		// Another flight may have filled the entry since the check above.
		if res, ok := c.get(key); ok {
			res.Cached = true
			return res, nil
		}
		res := c.next.Fetch(flightCtx, rng)
		if res.OK() {
			c.set(key, res)
		}
		return res, nil
	})

	select {
	case r := <-ch:
		res, _ := r.Val.(sheets.FetchResult)
		return res
	case <-ctx.Done():
		return sheets.Failure(rng, ctx.Err(), c.now())
	}
}

// get retrieves a result if it exists and hasn't expired.
func (c *Fetcher) get(key string) (sheets.FetchResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[key]
	if !exists {
		return sheets.FetchResult{}, false
	}

	if c.now().After(e.expiry) {
		return sheets.FetchResult{}, false
	}

	return e.result, true
}

func (c *Fetcher) set(key string, result sheets.FetchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		result: result,
		expiry: c.now().Add(c.ttl),
	}
}

// cleanup periodically removes expired entries.
func (c *Fetcher) cleanup() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *Fetcher) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if now.After(e.expiry) {
			delete(c.entries, key)
		}
	}
}

// Invalidate drops the entry for rng.
func (c *Fetcher) Invalidate(rng model.SheetRange) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, rng.String())
}

// Purge removes all entries from the cache.
func (c *Fetcher) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Len returns the number of entries, expired or not.
func (c *Fetcher) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns hit and miss counters.
func (c *Fetcher) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.Len(),
	}
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (c *Fetcher) Close() {
	c.closeOnce.Do(func() {
		close(c.stopCh)
	})
}
