package dms

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmsconsole/metaform/pkg/domain/interfaces"
	"github.com/dmsconsole/metaform/pkg/utils/logging"
	"github.com/dmsconsole/metaform/pkg/utils/safe"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

const (
	// DefaultTimeout bounds every request unless overridden
	DefaultTimeout = 30 * time.Second

	// RequestIDHeader carries the per-request correlation id
	RequestIDHeader = "X-Request-Id"

	// maxErrorBody is how much of an error response is kept in the error
	maxErrorBody = 512
)

// Client talks to the DMS backend over REST. It implements
// interfaces.Backend.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

var _ interfaces.Backend = &Client{}

// Option is a functional option for Client configuration
type Option func(*Client)

// WithToken sets the bearer token sent on every request
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a new Client for the backend rooted at baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, goerr.New("backend URL is required")
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Schema() interfaces.SchemaService     { return &schemaService{c} }
func (c *Client) Dropdowns() interfaces.DropdownService { return &dropdownService{c} }
func (c *Client) Items() interfaces.ItemService         { return &itemService{c} }
func (c *Client) Batches() interfaces.BatchService      { return &batchService{c} }

// do sends a request and decodes a JSON response into out when out is not
// nil
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return goerr.Wrap(err, "failed to encode request", goerr.V(PathKey, path))
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return goerr.Wrap(err, "failed to build request", goerr.V(PathKey, path))
	}

	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	logger := logging.From(ctx)
	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		return goerr.Wrap(err, "request failed",
			goerr.V(MethodKey, method),
			goerr.V(PathKey, path),
			goerr.V(RequestIDKey, reqID))
	}
	defer safe.DrainAndClose(ctx, resp.Body)

	logger.Debug("backend call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", reqID,
		"duration", time.Since(started),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		sentinel := ErrUnexpectedStatus
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			sentinel = ErrUnauthorized
		}
		return goerr.Wrap(sentinel, "backend call failed",
			goerr.V(MethodKey, method),
			goerr.V(PathKey, path),
			goerr.V(StatusKey, resp.StatusCode),
			goerr.V(BodyKey, strings.TrimSpace(string(excerpt))),
			goerr.V(RequestIDKey, reqID))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerr.Wrap(err, "failed to decode response",
			goerr.V(MethodKey, method),
			goerr.V(PathKey, path),
			goerr.V(RequestIDKey, reqID))
	}
	return nil
}
