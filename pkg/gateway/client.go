// Package gateway is a thin typed HTTP client for the auto-evolve backend.
// One method per backend capability, no retries, no caching: every call is a
// single request whose JSON body is decoded into the documented shape.
//
// Error policy is call-site specific. "Hard" calls (reads, source and
// settings mutations) propagate transport and backend errors to the caller.
// "Soft" triggers (crawl/index/discover/ingest/evaluate submissions) fold
// any failure into a TriggerResult with Status "error" so that starting a
// background job can never crash the initiating action.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client issues requests against a single backend base URL. It holds no
// mutable state across calls and is safe for concurrent use.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (used by tests and by
// callers that need custom transports).
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpc.Timeout = d }
}

// New creates a Client for the given base URL, e.g. "http://localhost:8000".
// A trailing slash is trimmed so endpoint paths can always start with "/".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// StatusError reports a non-2xx backend response.
type StatusError struct {
	Code int
	Body string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("backend returned %d: %s", e.Code, body)
}

// get issues a GET request and returns the raw response body.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}

	return c.do(req)
}

// post issues a POST request with an optional JSON body and returns the raw
// response body. A nil body sends an empty POST.
func (c *Client) post(ctx context.Context, path string, query url.Values, body any) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body %s: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req)
}

// delete issues a DELETE request and returns the raw response body.
func (c *Client) delete(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}

	return c.do(req)
}

// do executes the request and reads the full body. Non-2xx responses become
// a *StatusError carrying the body for diagnostics.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close after full read

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response %s: %w", req.URL.Path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(data)}
	}

	return data, nil
}

// decode unmarshals a response body, wrapping the error with the endpoint.
func decode(path string, data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response %s: %w", path, err)
	}
	return nil
}
