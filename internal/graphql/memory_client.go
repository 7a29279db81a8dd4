package graphql

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryClient is an in-memory implementation of the Client interface used
// for unit testing repository and handler logic without a running CMS.
type MemoryClient struct {
	mu           sync.Mutex
	calls        []ExecutedRequest
	results      []memoryResult
	err          error
	connectivity error
	closed       bool
}

// ExecutedRequest captures a document and the variables it was sent with.
type ExecutedRequest struct {
	Query     string
	Variables map[string]any
}

type memoryResult struct {
	data json.RawMessage
	err  error
}

// NewMemoryClient instantiates the in-memory client with no canned results.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// WithError configures the client to return err for every subsequent call.
func (m *MemoryClient) WithError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithConnectivityError forces VerifyConnectivity to return the supplied error.
func (m *MemoryClient) WithConnectivityError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectivity = err
	return m
}

// PushData queues a data payload for the next Execute call. Strings and byte
// slices are taken as raw JSON; anything else is marshalled.
func (m *MemoryClient) PushData(v any) {
	var raw json.RawMessage
	switch d := v.(type) {
	case string:
		raw = json.RawMessage(d)
	case []byte:
		raw = json.RawMessage(d)
	case json.RawMessage:
		raw = d
	default:
		b, err := json.Marshal(d)
		if err != nil {
			panic(err)
		}
		raw = b
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, memoryResult{data: raw})
}

// PushError queues a failure for the next Execute call.
func (m *MemoryClient) PushError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, memoryResult{err: err})
}

func (m *MemoryClient) Execute(_ context.Context, req Request) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}

	m.calls = append(m.calls, ExecutedRequest{
		Query:     req.Query,
		Variables: cloneMap(req.Variables),
	})

	if len(m.results) == 0 {
		return nullData, nil
	}

	res := m.results[0]
	m.results = m.results[1:]
	if res.err != nil {
		return nil, res.err
	}
	return res.data, nil
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectivity
}

func (m *MemoryClient) Close(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Calls returns a snapshot of executed requests.
func (m *MemoryClient) Calls() []ExecutedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedRequest(nil), m.calls...)
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
