// Package graphql is the single entry point for talking to the CMS GraphQL
// endpoint. Every content fetch in the site goes through Client.Execute.
package graphql

import (
	"context"
	"encoding/json"
	"net/http"
)

// Client defines the contract the repositories rely on to reach the CMS.
type Client interface {
	// Execute performs one round trip and returns the raw "data" member of the
	// response. A JSON null is a valid successful result meaning "no match".
	Execute(ctx context.Context, req Request) (json.RawMessage, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Request is a query document plus its variables. It is built fresh per call.
type Request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// Options configures the HTTP client implementation.
type Options struct {
	Endpoint string
	// HTTPClient overrides the transport; nil uses a client with default settings.
	HTTPClient *http.Client
}

// nullData is returned when a response omits the data member entirely.
var nullData = json.RawMessage("null")

// IsNull reports whether a data payload is absent or JSON null.
func IsNull(data json.RawMessage) bool {
	if len(data) == 0 {
		return true
	}
	return string(data) == "null"
}
