package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recipesQuery = `query AllRecipes($after: String) { recipes(after: $after) { nodes { id } } }`

func TestCachingClientServesFreshEntries(t *testing.T) {
	mem := NewMemoryClient()
	mem.PushData(`{"recipes":{"nodes":[{"id":"r1"}]}}`)
	mem.PushData(`{"recipes":{"nodes":[{"id":"r2"}]}}`)

	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	cache := NewCachingClient(mem, time.Minute).WithClock(func() time.Time { return now })
	req := Request{Query: recipesQuery, Variables: map[string]any{"after": ""}}

	first, err := cache.Execute(context.Background(), req)
	require.NoError(t, err)
	second, err := cache.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
	assert.Len(t, mem.Calls(), 1)

	now = now.Add(61 * time.Second)
	third, err := cache.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"recipes":{"nodes":[{"id":"r2"}]}}`, string(third))
	assert.Len(t, mem.Calls(), 2)
}

func TestCachingClientKeysOnVariables(t *testing.T) {
	mem := NewMemoryClient()
	cache := NewCachingClient(mem, time.Minute)

	_, _ = cache.Execute(context.Background(), Request{Query: recipesQuery, Variables: map[string]any{"after": "c9"}})
	_, _ = cache.Execute(context.Background(), Request{Query: recipesQuery, Variables: map[string]any{"after": "c18"}})

	assert.Len(t, mem.Calls(), 2)
	assert.Equal(t, 2, cache.Len())
}

func TestCachingClientSkipsMutations(t *testing.T) {
	mem := NewMemoryClient()
	cache := NewCachingClient(mem, time.Minute)
	req := Request{Query: `mutation CreateComment($input: CreateCommentInput!) { createComment(input: $input) { success } }`}

	_, _ = cache.Execute(context.Background(), req)
	_, _ = cache.Execute(context.Background(), req)

	assert.Len(t, mem.Calls(), 2)
	assert.Zero(t, cache.Len())
}

func TestCachingClientDoesNotCacheFailures(t *testing.T) {
	mem := NewMemoryClient()
	mem.PushError(&RemoteError{})
	mem.PushData(`{"ok":true}`)
	cache := NewCachingClient(mem, time.Minute)
	req := Request{Query: `query Ok { ok }`}

	_, err := cache.Execute(context.Background(), req)
	var remoteErr *RemoteError
	require.True(t, errors.As(err, &remoteErr))

	data, err := cache.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(data))
}

func TestCachingClientPurge(t *testing.T) {
	mem := NewMemoryClient()
	cache := NewCachingClient(mem, time.Minute)
	req := Request{Query: `query Ok { ok }`}

	_, _ = cache.Execute(context.Background(), req)
	assert.Equal(t, 1, cache.Purge())
	_, _ = cache.Execute(context.Background(), req)

	assert.Len(t, mem.Calls(), 2)
}

type gatedClient struct {
	mu      sync.Mutex
	calls   int
	entered chan struct{}
	release chan struct{}
}

func (g *gatedClient) Execute(context.Context, Request) (json.RawMessage, error) {
	g.mu.Lock()
	g.calls++
	first := g.calls == 1
	g.mu.Unlock()
	if first {
		close(g.entered)
	}
	<-g.release
	return json.RawMessage(`{"ok":true}`), nil
}

func (g *gatedClient) VerifyConnectivity(context.Context) error { return nil }
func (g *gatedClient) Close(context.Context) error              { return nil }

func TestCachingClientCollapsesConcurrentLookups(t *testing.T) {
	gate := &gatedClient{entered: make(chan struct{}), release: make(chan struct{})}
	cache := NewCachingClient(gate, time.Minute)
	req := Request{Query: `query Ok { ok }`}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := cache.Execute(context.Background(), req)
			assert.NoError(t, err)
			assert.JSONEq(t, `{"ok":true}`, string(data))
		}()
	}

	<-gate.entered
	close(gate.release)
	wg.Wait()

	gate.mu.Lock()
	defer gate.mu.Unlock()
	assert.Equal(t, 1, gate.calls)
}

func TestCachingClientDropsExpiredEntries(t *testing.T) {
	mem := NewMemoryClient()
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	cache := NewCachingClient(mem, time.Minute).WithClock(func() time.Time { return now })
	t.Cleanup(func() { _ = cache.Close(context.Background()) })

	search := func(term string) {
		t.Helper()
		_, err := cache.Execute(context.Background(), Request{Query: recipesQuery, Variables: map[string]any{"after": term}})
		require.NoError(t, err)
	}

	for i := 0; i < 100; i++ {
		search(fmt.Sprintf("term-%d", i))
		now = now.Add(time.Second)
	}
	// Entries written at or before second 40 are a full minute old.
	assert.Equal(t, 41, cache.Sweep())
	assert.Equal(t, 59, cache.Len())

	now = now.Add(time.Hour)
	search("term-99")
	assert.Equal(t, 58, cache.Sweep())
	assert.Equal(t, 1, cache.Len())
	assert.Len(t, mem.Calls(), 101)
}

func TestCachingClientRemovesExpiredEntryOnLookup(t *testing.T) {
	mem := NewMemoryClient()
	mem.PushError(&RemoteError{})
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	cache := NewCachingClient(mem, time.Minute).WithClock(func() time.Time { return now })
	t.Cleanup(func() { _ = cache.Close(context.Background()) })
	req := Request{Query: `query Ok { ok }`}

	// first call fails and is not cached
	_, err := cache.Execute(context.Background(), req)
	require.Error(t, err)
	_, err = cache.Execute(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 1, cache.Len())

	now = now.Add(2 * time.Minute)
	mem.PushError(&RemoteError{})
	_, err = cache.Execute(context.Background(), req)
	require.Error(t, err)
	assert.Zero(t, cache.Len())
}

func TestCachingClientStopsStoringWhenFull(t *testing.T) {
	mem := NewMemoryClient()
	cache := NewCachingClient(mem, time.Minute).WithMaxEntries(2)
	t.Cleanup(func() { _ = cache.Close(context.Background()) })

	for _, after := range []string{"a", "b", "c"} {
		_, err := cache.Execute(context.Background(), Request{Query: recipesQuery, Variables: map[string]any{"after": after}})
		require.NoError(t, err)
	}

	assert.Equal(t, 2, cache.Len())
}

func TestCachingClientPurgeDiscardsInFlightResult(t *testing.T) {
	gate := &gatedClient{entered: make(chan struct{}), release: make(chan struct{})}
	cache := NewCachingClient(gate, time.Minute)
	t.Cleanup(func() { _ = cache.Close(context.Background()) })
	req := Request{Query: `query Ok { ok }`}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := cache.Execute(context.Background(), req)
		assert.NoError(t, err)
	}()

	<-gate.entered
	cache.Purge()
	close(gate.release)
	<-done

	assert.Zero(t, cache.Len())
}
