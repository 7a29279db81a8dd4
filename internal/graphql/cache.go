package graphql

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"golang.org/x/sync/singleflight"

	"github.com/vanshika/foodiefusion/internal/metrics"
)

const (
	// DefaultFreshness matches the CMS revalidation window used by the site.
	DefaultFreshness = 60 * time.Second
	// DefaultMaxEntries bounds the cache. Search terms come from visitors, so
	// the key space is not under our control.
	DefaultMaxEntries = 5000
)

type cacheEntry struct {
	data    json.RawMessage
	expires time.Time
}

// CachingClient is a read-through decorator that keeps successful query
// results for a freshness window. Mutations and failures are never cached,
// and concurrent identical lookups share one round trip.
//
// Expired entries are dropped when looked up and by a background sweep that
// runs once per ttl until Close. When the cache is full after a sweep, new
// results are served but not stored.
type CachingClient struct {
	inner      Client
	ttl        time.Duration
	maxEntries int
	entries    cmap.ConcurrentMap[string, cacheEntry]
	group      singleflight.Group
	now        func() time.Time

	// mu orders stores against Purge; generation changes on every Purge so a
	// fetch that started before it does not store stale data.
	mu         sync.RWMutex
	generation uint64

	stop     chan struct{}
	stopOnce sync.Once
}

// NewCachingClient wraps inner. A non-positive ttl disables caching.
func NewCachingClient(inner Client, ttl time.Duration) *CachingClient {
	c := &CachingClient{
		inner:      inner,
		ttl:        ttl,
		maxEntries: DefaultMaxEntries,
		entries:    cmap.New[cacheEntry](),
		now:        time.Now,
		stop:       make(chan struct{}),
	}
	if ttl > 0 {
		go c.sweepLoop(ttl)
	}
	return c
}

// WithMaxEntries overrides the entry bound. Non-positive values are ignored.
func (c *CachingClient) WithMaxEntries(n int) *CachingClient {
	if n > 0 {
		c.maxEntries = n
	}
	return c
}

// WithClock overrides the time provider (used primarily in tests).
func (c *CachingClient) WithClock(now func() time.Time) *CachingClient {
	if now != nil {
		c.now = now
	}
	return c
}

func (c *CachingClient) Execute(ctx context.Context, req Request) (json.RawMessage, error) {
	if c.ttl <= 0 {
		return c.inner.Execute(ctx, req)
	}
	op, err := DescribeOperation(req.Query)
	if err != nil || op.Type != ast.Query {
		return c.inner.Execute(ctx, req)
	}
	key, err := cacheKey(req)
	if err != nil {
		return c.inner.Execute(ctx, req)
	}

	if entry, ok := c.entries.Get(key); ok {
		if c.now().Before(entry.expires) {
			metrics.RecordCache("hit")
			return entry.data, nil
		}
		c.removeExpired(key)
	}
	metrics.RecordCache("miss")

	v, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		generation := c.generation
		c.mu.RUnlock()

		data, err := c.inner.Execute(ctx, req)
		if err != nil {
			return nil, err
		}
		c.store(key, data, generation)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(json.RawMessage), nil
}

func (c *CachingClient) store(key string, data json.RawMessage, generation uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.generation != generation {
		metrics.RecordCache("stale")
		return
	}
	if c.entries.Count() >= c.maxEntries && !c.entries.Has(key) {
		c.Sweep()
		if c.entries.Count() >= c.maxEntries {
			metrics.RecordCache("full")
			return
		}
	}
	c.entries.Set(key, cacheEntry{data: data, expires: c.now().Add(c.ttl)})
}

func (c *CachingClient) removeExpired(key string) {
	c.entries.RemoveCb(key, expiredBy(c.now()))
}

func expiredBy(now time.Time) cmap.RemoveCb[string, cacheEntry] {
	return func(_ string, e cacheEntry, exists bool) bool {
		return exists && !now.Before(e.expires)
	}
}

// Sweep drops every expired entry and reports how many went.
func (c *CachingClient) Sweep() int {
	now := c.now()
	expired := expiredBy(now)
	removed := 0
	for key, e := range c.entries.Items() {
		if now.Before(e.expires) {
			continue
		}
		if c.entries.RemoveCb(key, expired) {
			removed++
		}
	}
	return removed
}

func (c *CachingClient) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}

// Purge drops every cached entry so the next render refetches from the CMS.
// Fetches already in flight do not store their results.
func (c *CachingClient) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	n := c.entries.Count()
	c.entries.Clear()
	return n
}

// Len reports the number of cached entries, fresh or not.
func (c *CachingClient) Len() int {
	return c.entries.Count()
}

func (c *CachingClient) VerifyConnectivity(ctx context.Context) error {
	return c.inner.VerifyConnectivity(ctx)
}

// Close stops the sweep and closes the wrapped client.
func (c *CachingClient) Close(ctx context.Context) error {
	c.stopOnce.Do(func() { close(c.stop) })
	return c.inner.Close(ctx)
}

// cacheKey hashes the document and its variables. encoding/json sorts map
// keys, so equal variable sets hash equally.
func cacheKey(req Request) (string, error) {
	vars, err := json.Marshal(req.Variables)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write([]byte(req.Query))
	h.Write([]byte{0})
	h.Write(vars)
	return hex.EncodeToString(h.Sum(nil)), nil
}
