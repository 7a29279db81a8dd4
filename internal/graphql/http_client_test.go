package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*HTTPClient, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient(Options{Endpoint: srv.URL}, nil)
	require.NoError(t, err)
	return client, &hits
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestNewHTTPClientRequiresEndpoint(t *testing.T) {
	_, err := NewHTTPClient(Options{Endpoint: "  "}, nil)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "configuration", Kind(err))
}

func TestExecuteOnUnconfiguredClientFailsBeforeNetwork(t *testing.T) {
	var client *HTTPClient
	_, err := client.Execute(context.Background(), Request{Query: `query { __typename }`})

	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestExecutePostsQueryAndVariables(t *testing.T) {
	var got struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	client, hits := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, `{"data":{"recipe":{"title":"Sourdough"}}}`)
	})

	data, err := client.Execute(context.Background(), Request{
		Query:     `query GetRecipeBySlug($id: ID!) { recipe(id: $id, idType: SLUG) { title } }`,
		Variables: map[string]any{"id": "sourdough"},
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{"recipe":{"title":"Sourdough"}}`, string(data))
	assert.Equal(t, "sourdough", got.Variables["id"])
	assert.Contains(t, got.Query, "GetRecipeBySlug")
	assert.EqualValues(t, 1, atomic.LoadInt32(hits))
}

func TestExecuteRejectsNonJSONContentType(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>upstream down</html>")
	})

	data, err := client.Execute(context.Background(), Request{Query: `{ __typename }`})
	assert.Nil(t, data)

	var protoErr *ProtocolError
	require.True(t, errors.As(err, &protoErr))
	assert.Equal(t, http.StatusBadGateway, protoErr.StatusCode)
	assert.Equal(t, "<html>upstream down</html>", string(protoErr.Body))
	assert.NotContains(t, err.Error(), "upstream down")
}

func TestExecuteRejectsMalformedJSON(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"data": {`)
	})

	_, err := client.Execute(context.Background(), Request{Query: `{ __typename }`})
	var protoErr *ProtocolError
	assert.True(t, errors.As(err, &protoErr))
}

func TestExecuteErrorListWinsOverData(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{
			"data": {"recipes": {"nodes": []}},
			"errors": [{"message": "Cannot query field \"bogus\"", "locations": [{"line": 1, "column": 3}]}]
		}`)
	})

	data, err := client.Execute(context.Background(), Request{Query: `{ bogus }`})
	assert.Nil(t, data)

	var remoteErr *RemoteError
	require.True(t, errors.As(err, &remoteErr))
	require.Len(t, remoteErr.Errors, 1)
	assert.Equal(t, `Cannot query field "bogus"`, remoteErr.Errors[0].Message)
	assert.Equal(t, "remote", Kind(err))
}

func TestExecuteIgnoresEmptyErrorList(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"data": {"ok": true}, "errors": []}`)
	})

	data, err := client.Execute(context.Background(), Request{Query: `{ ok }`})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": true}`, string(data))
}

func TestExecuteReturnsNullDataAsSuccess(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"data": null}`)
	})

	data, err := client.Execute(context.Background(), Request{Query: `{ recipe { title } }`})
	require.NoError(t, err)
	assert.True(t, IsNull(data))
}

func TestExecuteRejectsNon2xxJSON(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"message": "boom"}`)
	})

	_, err := client.Execute(context.Background(), Request{Query: `{ __typename }`})
	var protoErr *ProtocolError
	require.True(t, errors.As(err, &protoErr))
	assert.Equal(t, http.StatusInternalServerError, protoErr.StatusCode)
}

func TestExecuteRejectsEmptyQuery(t *testing.T) {
	client, hits := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"data": {}}`)
	})

	_, err := client.Execute(context.Background(), Request{Query: "   "})
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.EqualValues(t, 0, atomic.LoadInt32(hits))
}

func TestVerifyConnectivity(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"data": {"__typename": "RootQuery"}}`)
	})

	assert.NoError(t, client.VerifyConnectivity(context.Background()))
	assert.NoError(t, client.Close(context.Background()))
}

func TestIsJSONContentType(t *testing.T) {
	assert.True(t, isJSONContentType("application/json"))
	assert.True(t, isJSONContentType("application/json; charset=UTF-8"))
	assert.True(t, isJSONContentType("application/graphql-response+json"))
	assert.False(t, isJSONContentType("text/html; charset=utf-8"))
	assert.False(t, isJSONContentType(""))
}
