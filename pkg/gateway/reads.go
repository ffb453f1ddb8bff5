package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// itemsEnvelope is the common {items: [...], error?: ...} wrapper the backend
// puts around list endpoints. The backend reports its own failures as a 200
// with an error field, so hard reads must surface that as a Go error.
type itemsEnvelope[T any] struct {
	Items []T    `json:"items"`
	Error string `json:"error"`
}

// listItems fetches an items-wrapped endpoint and unwraps it.
func listItems[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	data, err := c.get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var env itemsEnvelope[T]
	if err := decode(path, data, &env); err != nil {
		return nil, err
	}
	if env.Error != "" {
		return nil, fmt.Errorf("backend error on %s: %s", path, env.Error)
	}

	return env.Items, nil
}

// Health fetches GET /health.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	data, err := c.get(ctx, "/health", nil)
	if err != nil {
		return h, err
	}
	if err := decode("/health", data, &h); err != nil {
		return h, err
	}
	return h, nil
}

// Metrics fetches the GET /metrics snapshot.
func (c *Client) Metrics(ctx context.Context) (Metrics, error) {
	var m Metrics
	data, err := c.get(ctx, "/metrics", nil)
	if err != nil {
		return m, err
	}
	if err := decode("/metrics", data, &m); err != nil {
		return m, err
	}
	return m, nil
}

// MetricsHistory fetches past evaluation runs, newest first.
// limit <= 0 applies DefaultHistoryLimit.
func (c *Client) MetricsHistory(ctx context.Context, limit int) ([]CIScore, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	return listItems[CIScore](ctx, c, "/metrics/history", q)
}

// Events fetches the most recent backend events, newest first as returned
// by the backend. limit <= 0 applies DefaultEventLimit.
func (c *Client) Events(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = DefaultEventLimit
	}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	return listItems[Event](ctx, c, "/events", q)
}

// Documents fetches recently ingested documents.
// limit <= 0 applies DefaultDocumentLimit.
func (c *Client) Documents(ctx context.Context, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = DefaultDocumentLimit
	}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	return listItems[Document](ctx, c, "/docs", q)
}

// Sources fetches the crawl source list.
// limit <= 0 applies DefaultSourceLimit; offset < 0 is treated as 0.
func (c *Client) Sources(ctx context.Context, limit, offset int) ([]Source, error) {
	if limit <= 0 {
		limit = DefaultSourceLimit
	}
	if offset < 0 {
		offset = 0
	}
	q := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
	return listItems[Source](ctx, c, "/sources", q)
}

// IndexVersions fetches GET /index/versions.
func (c *Client) IndexVersions(ctx context.Context) ([]IndexVersion, error) {
	return listItems[IndexVersion](ctx, c, "/index/versions", nil)
}

// Search runs a retrieval-augmented query. k <= 0 applies DefaultSearchK.
func (c *Client) Search(ctx context.Context, query string, k int) (SearchResult, error) {
	if k <= 0 {
		k = DefaultSearchK
	}
	q := url.Values{
		"q": {query},
		"k": {strconv.Itoa(k)},
	}

	var res SearchResult
	data, err := c.get(ctx, "/search", q)
	if err != nil {
		return res, err
	}
	if err := decode("/search", data, &res); err != nil {
		return res, err
	}
	return res, nil
}

// TaskStatus fetches the status of a backend task by handle. This is a hard
// call: the poller needs to distinguish transport failure from a reported
// state, so errors propagate.
func (c *Client) TaskStatus(ctx context.Context, taskID string) (TaskStatus, error) {
	var st TaskStatus
	path := "/tasks/" + url.PathEscape(taskID)

	data, err := c.get(ctx, path, nil)
	if err != nil {
		return st, err
	}
	if err := decode(path, data, &st); err != nil {
		return st, err
	}

	st.Raw = data
	if st.TaskID == "" {
		st.TaskID = taskID
	}
	return st, nil
}
