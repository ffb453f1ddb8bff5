package gateway

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// softTrigger posts to a job-submitting endpoint and converts any failure
// into a TriggerResult with Status "error". Triggering a background job must
// never raise: the caller always gets a resolvable result to display.
func (c *Client) softTrigger(ctx context.Context, path string, query url.Values, body any) TriggerResult {
	data, err := c.post(ctx, path, query, body)
	if err != nil {
		return TriggerResult{Status: "error", Error: err.Error()}
	}

	var res TriggerResult
	if err := decode(path, data, &res); err != nil {
		return TriggerResult{Status: "error", Error: err.Error(), Raw: data}
	}

	res.Raw = data
	if res.Status == "" {
		res.Status = "ok"
	}
	return res
}

// RunCrawl triggers a crawl pass over the registered sources.
// limit <= 0 applies DefaultCrawlLimit.
func (c *Client) RunCrawl(ctx context.Context, limit int) TriggerResult {
	if limit <= 0 {
		limit = DefaultCrawlLimit
	}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	return c.softTrigger(ctx, "/crawl/run", q, nil)
}

// RunIndex triggers indexing of unembedded documents. batch <= 0 lets the
// backend pick its own batch size.
func (c *Client) RunIndex(ctx context.Context, batch int) TriggerResult {
	var q url.Values
	if batch > 0 {
		q = url.Values{"batch": {strconv.Itoa(batch)}}
	}
	return c.softTrigger(ctx, "/index/run", q, nil)
}

// discoverQuery builds the shared query string for the discover endpoints.
func discoverQuery(p DiscoverParams) url.Values {
	q := url.Values{}
	if p.PerQuery > 0 {
		q.Set("per_query", strconv.Itoa(p.PerQuery))
	}
	if p.MaxNew > 0 {
		q.Set("max_new", strconv.Itoa(p.MaxNew))
	}
	if len(p.Queries) > 0 {
		q.Set("queries", strings.Join(p.Queries, ","))
	}
	return q
}

// RunDiscover triggers synchronous source discovery.
func (c *Client) RunDiscover(ctx context.Context, p DiscoverParams) TriggerResult {
	return c.softTrigger(ctx, "/discover/run", discoverQuery(p), nil)
}

// RunDiscoverAsync triggers background source discovery and returns a task
// handle in TriggerResult.TaskID when the backend accepted the job.
func (c *Client) RunDiscoverAsync(ctx context.Context, p DiscoverParams) TriggerResult {
	return c.softTrigger(ctx, "/discover/run_async", discoverQuery(p), nil)
}

// RunIngest triggers a full discover+crawl+index pass synchronously.
func (c *Client) RunIngest(ctx context.Context, p IngestParams) TriggerResult {
	var body any
	if len(p.SourceIDs) > 0 || p.NewURL != "" {
		body = p
	}
	return c.softTrigger(ctx, "/ingest/run", nil, body)
}

// RunIngestAsync triggers the full ingestion pass in the background.
func (c *Client) RunIngestAsync(ctx context.Context) TriggerResult {
	return c.softTrigger(ctx, "/ingest/run_async", nil, nil)
}

// evaluateBody is the POST /evaluate/run payload.
type evaluateBody struct {
	Sets []string `json:"sets,omitempty"`
}

// RunEvaluate triggers an evaluation run over the given question sets.
// An empty sets slice lets the backend use its defaults.
func (c *Client) RunEvaluate(ctx context.Context, sets []string) TriggerResult {
	return c.softTrigger(ctx, "/evaluate/run", nil, evaluateBody{Sets: sets})
}

// RunEvaluateAsync triggers a background evaluation run.
func (c *Client) RunEvaluateAsync(ctx context.Context, sets []string) TriggerResult {
	return c.softTrigger(ctx, "/evaluate/run_async", nil, evaluateBody{Sets: sets})
}

// SeedFromDocs asks the backend to derive new discovery topics from the
// ingested corpus. limit <= 0 lets the backend choose.
func (c *Client) SeedFromDocs(ctx context.Context, limit int) TriggerResult {
	var q url.Values
	if limit > 0 {
		q = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	return c.softTrigger(ctx, "/evolve/seed_from_docs", q, nil)
}
