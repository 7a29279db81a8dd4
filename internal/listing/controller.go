// Package listing holds the state machine behind every "load more" list on
// the site. A Controller owns the items accumulated so far, the cursor of the
// last fetched page and whether more pages exist.
package listing

import (
	"context"
	"errors"
	"sync"

	"github.com/vanshika/foodiefusion/internal/domain"
	"github.com/vanshika/foodiefusion/internal/metrics"
)

// ErrNoFetcher is returned by LoadMore on a controller built without a fetcher.
var ErrNoFetcher = errors.New("listing: no fetcher configured")

// Fetcher loads the page that follows cursor.
type Fetcher[T any] func(ctx context.Context, cursor string) (domain.Page[T], error)

// State is a copy of the controller's state at one instant.
type State[T any] struct {
	Items   []T
	Cursor  string
	HasMore bool
	Loading bool
}

// Empty reports whether nothing has been accumulated. Renderers show a single
// "no items" placeholder in that case.
func (s State[T]) Empty() bool {
	return len(s.Items) == 0
}

// Controller is safe for concurrent use. The fetch runs outside the lock; a
// generation counter lets LoadMore notice a Reset or Close that happened while
// it was waiting and drop the stale result.
type Controller[T any] struct {
	fetch Fetcher[T]

	mu         sync.Mutex
	items      []T
	cursor     string
	hasMore    bool
	loading    bool
	closed     bool
	generation uint64
}

// New builds a controller initialised from snapshot.
func New[T any](fetch Fetcher[T], snapshot domain.Page[T]) *Controller[T] {
	c := &Controller[T]{fetch: fetch}
	c.apply(snapshot)
	return c
}

// Snapshot returns a copy of the current state.
func (c *Controller[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State[T]{
		Items:   append([]T(nil), c.items...),
		Cursor:  c.cursor,
		HasMore: c.hasMore,
		Loading: c.loading,
	}
}

// LoadMore fetches the next page and appends it. It reports whether state
// changed. Calls made while a load is in flight, after the list is exhausted
// or after Close return false without contacting the fetcher.
//
// A failed fetch leaves items and cursor untouched and keeps HasMore true so
// the caller can retry; the error is returned for display.
func (c *Controller[T]) LoadMore(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.closed || c.loading || !c.hasMore {
		c.mu.Unlock()
		metrics.RecordListLoad("skipped")
		return false, nil
	}
	if c.fetch == nil {
		c.mu.Unlock()
		return false, ErrNoFetcher
	}
	c.loading = true
	gen := c.generation
	cursor := c.cursor
	c.mu.Unlock()

	page, err := c.fetch(ctx, cursor)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.generation {
		metrics.RecordListLoad("discarded")
		return false, nil
	}
	c.loading = false
	if err != nil {
		c.hasMore = true
		metrics.RecordListLoad("error")
		return false, err
	}

	c.items = append(c.items, page.Items...)
	c.cursor = page.EndCursor
	c.hasMore = page.HasNextPage
	metrics.RecordListLoad("ok")
	return true, nil
}

// Reset replaces the whole state with snapshot. It is valid at any time; a
// fetch still in flight is discarded when it completes.
func (c *Controller[T]) Reset(snapshot domain.Page[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.apply(snapshot)
}

// Close detaches the controller from its owner. In-flight results are dropped
// and later LoadMore calls are no-ops.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.closed = true
	c.loading = false
}

// Drain calls LoadMore until the list is exhausted, the context is done or a
// fetch fails.
func (c *Controller[T]) Drain(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		changed, err := c.LoadMore(ctx)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
	}
}

// apply must be called with mu held, or before c is shared.
func (c *Controller[T]) apply(snapshot domain.Page[T]) {
	c.items = append([]T(nil), snapshot.Items...)
	c.cursor = snapshot.EndCursor
	c.hasMore = snapshot.CanAdvance()
	c.loading = false
}
