package graphql

import (
	"errors"
	"fmt"

	"github.com/vektah/gqlparser/v2/gqlerror"
)

var (
	// ErrNotFound marks a successful response whose requested entity is null.
	ErrNotFound = errors.New("graphql: entity not found")
	// ErrEmptyQuery is returned when Execute receives a blank document.
	ErrEmptyQuery = errors.New("graphql: query document is empty")
)

// ConfigurationError reports a missing or invalid endpoint. It is raised
// before any network call is attempted.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "graphql: configuration error: " + e.Reason
}

// ProtocolError reports a transport-level response that is not a usable
// GraphQL envelope: wrong content type, unparseable JSON, or a non-2xx status.
// Body is kept for diagnostic logging only and is not part of Error().
type ProtocolError struct {
	StatusCode  int
	ContentType string
	Reason      string
	Body        []byte
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("graphql: invalid response from API (status %d): %s", e.StatusCode, e.Reason)
}

// RemoteError carries the top-level error list returned by the CMS.
type RemoteError struct {
	Errors gqlerror.List
}

func (e *RemoteError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "graphql: remote error"
	case 1:
		return "graphql: remote error: " + e.Errors[0].Message
	default:
		return fmt.Sprintf("graphql: %d remote errors, first: %s", len(e.Errors), e.Errors[0].Message)
	}
}

// Kind classifies an error returned by Execute into a short label used for
// metrics and logs.
func Kind(err error) string {
	var (
		cfgErr    *ConfigurationError
		protoErr  *ProtocolError
		remoteErr *RemoteError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &cfgErr):
		return "configuration"
	case errors.As(err, &protoErr):
		return "protocol"
	case errors.As(err, &remoteErr):
		return "remote"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "transport"
	}
}
