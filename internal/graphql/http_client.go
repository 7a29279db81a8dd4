package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/vanshika/foodiefusion/internal/metrics"
)

const (
	maxResponseBytes = 8 << 20
	maxLoggedBody    = 2048
	pingQuery        = `query Ping { __typename }`
)

// HTTPClient posts GraphQL documents to a single CMS endpoint.
type HTTPClient struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient validates the options and returns a ready client. An empty
// endpoint is a configuration error.
func NewHTTPClient(opts Options, logger *slog.Logger) (*HTTPClient, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		return nil, &ConfigurationError{Reason: "GraphQL endpoint is not configured"}
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &HTTPClient{
		endpoint:   endpoint,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Execute sends exactly one POST and classifies the response. There are no
// retries and no timeout beyond what ctx and the transport impose.
func (c *HTTPClient) Execute(ctx context.Context, req Request) (json.RawMessage, error) {
	if c == nil || c.endpoint == "" {
		return nil, &ConfigurationError{Reason: "GraphQL endpoint is not configured"}
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}

	op := "anonymous"
	if info, err := DescribeOperation(req.Query); err == nil {
		op = info.Label()
	}

	start := time.Now()
	data, err := c.roundTrip(ctx, req)
	metrics.RecordGraphQL(op, Kind(err), time.Since(start).Seconds())
	if err != nil {
		c.logFailure(op, err)
		return nil, err
	}
	return data, nil
}

func (c *HTTPClient) roundTrip(ctx context.Context, req Request) (json.RawMessage, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode graphql request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build graphql request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("graphql request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read graphql response: %w", err)
	}

	return decodeResponse(resp.StatusCode, resp.Header.Get("Content-Type"), body)
}

// decodeResponse turns a raw HTTP response into data or a typed failure.
// An error list always wins over data, even when both are present.
func decodeResponse(status int, contentType string, body []byte) (json.RawMessage, error) {
	if !isJSONContentType(contentType) {
		return nil, &ProtocolError{
			StatusCode:  status,
			ContentType: contentType,
			Reason:      "expected JSON, got " + displayContentType(contentType),
			Body:        body,
		}
	}
	if !gjson.ValidBytes(body) {
		return nil, &ProtocolError{
			StatusCode:  status,
			ContentType: contentType,
			Reason:      "response body is not valid JSON",
			Body:        body,
		}
	}

	if errs := gjson.GetBytes(body, "errors"); errs.Exists() && errs.Type != gjson.Null {
		if list := decodeErrorList(errs); len(list) > 0 {
			return nil, &RemoteError{Errors: list}
		}
	}

	if status < 200 || status > 299 {
		return nil, &ProtocolError{
			StatusCode:  status,
			ContentType: contentType,
			Reason:      http.StatusText(status),
			Body:        body,
		}
	}

	data := gjson.GetBytes(body, "data")
	if !data.Exists() {
		return nullData, nil
	}
	return json.RawMessage(data.Raw), nil
}

func decodeErrorList(errs gjson.Result) gqlerror.List {
	if !errs.IsArray() {
		// Some servers send a single object or a bare string.
		msg := errs.Get("message").String()
		if msg == "" {
			msg = errs.String()
		}
		if msg == "" {
			return nil
		}
		return gqlerror.List{{Message: msg}}
	}

	var list gqlerror.List
	if err := json.Unmarshal([]byte(errs.Raw), &list); err == nil {
		return list
	}
	for _, item := range errs.Array() {
		msg := item.Get("message").String()
		if msg == "" {
			msg = item.Raw
		}
		list = append(list, &gqlerror.Error{Message: msg})
	}
	return list
}

func isJSONContentType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(strings.ToLower(contentType), "application/json")
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func displayContentType(contentType string) string {
	if contentType == "" {
		return "no content type"
	}
	return contentType
}

func (c *HTTPClient) logFailure(op string, err error) {
	attrs := []any{"operation", op, "kind", Kind(err), "error", err}
	if pe, ok := err.(*ProtocolError); ok && len(pe.Body) > 0 {
		body := pe.Body
		if len(body) > maxLoggedBody {
			body = body[:maxLoggedBody]
		}
		attrs = append(attrs, "body", string(body))
	}
	if re, ok := err.(*RemoteError); ok {
		attrs = append(attrs, "errors", re.Errors.Error())
	}
	c.logger.Error("graphql request failed", attrs...)
}

// VerifyConnectivity issues a trivial typename query against the endpoint.
func (c *HTTPClient) VerifyConnectivity(ctx context.Context) error {
	_, err := c.Execute(ctx, Request{Query: pingQuery})
	return err
}

// Close releases idle connections held by the transport.
func (c *HTTPClient) Close(context.Context) error {
	if c != nil && c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}
	return nil
}
