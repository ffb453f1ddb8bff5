package gateway

import "encoding/json"

// Metrics is the point-in-time snapshot returned by GET /metrics. Each poll
// replaces the previous snapshot wholesale; nothing is merged client-side.
type Metrics struct {
	Documents        int       `json:"documents"`
	NbDocs           int       `json:"nb_docs"`
	NbSources        int       `json:"nb_sources"`
	Coverage         float64   `json:"coverage"`
	FreshnessDays    *float64  `json:"freshness_days"`
	AvgResponseTime  *float64  `json:"avg_response_time"`
	LastUpdate       string    `json:"last_update"`
	CI               *CIStatus `json:"ci"`
	EvalThreshold    *float64  `json:"eval_threshold"`
	DiscoveryQueries []string  `json:"discovery_queries"`
}

// CIStatus carries the latest continuous-evaluation sub-scores.
type CIStatus struct {
	Overall      *float64 `json:"overall"`
	Exact        *float64 `json:"exact"`
	Groundedness *float64 `json:"groundedness"`
	Freshness    *float64 `json:"freshness"`
	UpdatedAt    string   `json:"updated_at"`
}

// CIScore is one historical evaluation run from GET /metrics/history.
type CIScore struct {
	ID               int64          `json:"id"`
	TS               string         `json:"ts"`
	Overall          *float64       `json:"overall"`
	Exact            *float64       `json:"exact"`
	Groundedness     *float64       `json:"groundedness"`
	SemanticF1       *float64       `json:"semantic_f1"`
	Freshness        *float64       `json:"freshness"`
	AvgFreshnessDays *float64       `json:"avg_freshness_days"`
	Meta             map[string]any `json:"meta"`
}

// Event is one append-only log record from GET /events. Records are
// immutable once received; ordering is server-assigned and preserved
// as returned.
type Event struct {
	TS      string         `json:"ts"`
	Stage   string         `json:"stage"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Meta    map[string]any `json:"meta"`
}

// Document is one ingested document from GET /docs.
type Document struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	Lang      string `json:"lang"`
	CreatedAt string `json:"created_at"`
}

// Source is one crawl source from GET /sources.
type Source struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	Kind      string `json:"kind"`
	CreatedAt string `json:"created_at"`
}

// IndexVersion is one entry from GET /index/versions.
type IndexVersion struct {
	ID             int64   `json:"id"`
	CreatedAt      string  `json:"created_at"`
	Status         string  `json:"status"`
	ThresholdScore float64 `json:"threshold_score"`
	DocCount       int     `json:"doc_count"`
}

// Health is the GET /health response.
type Health struct {
	Status  string `json:"status"`
	Env     string `json:"env"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

// SearchResult is the GET /search response. Sources is a list of
// [title, url] pairs as emitted by the backend.
type SearchResult struct {
	Query      string           `json:"query"`
	Answer     string           `json:"answer"`
	Sources    [][]string       `json:"sources"`
	Citations  []map[string]any `json:"citations"`
	Confidence float64          `json:"confidence"`
	Error      string           `json:"error"`
}

// ConnectivityResult is the POST /sources/{id}/test response.
type ConnectivityResult struct {
	OK      bool   `json:"ok"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Settings maps setting keys to arbitrary JSON values as stored backend-side.
type Settings map[string]any

// TaskStatus is the GET /tasks/{id} response. State is the raw backend task
// state; Status is the normalized value the poller inspects. Only "pending"
// and "running" are non-terminal; any other string, including values this
// client has never seen, terminates a poll loop.
type TaskStatus struct {
	TaskID string `json:"task_id"`
	State  string `json:"state"`
	Status string `json:"status"`
	Error  string `json:"error"`

	// Raw preserves the full response body for display and logging.
	Raw json.RawMessage `json:"-"`
}

// TriggerResult is the common shape of every job-submitting endpoint.
// A soft trigger never surfaces a Go error: transport and backend failures
// are folded into Status "error" so the initiating action always resolves.
type TriggerResult struct {
	Status     string `json:"status"`
	TaskID     string `json:"task_id"`
	Error      string `json:"error"`
	Inserted   int    `json:"inserted"`
	Indexed    int    `json:"indexed"`
	NewSources int    `json:"new_sources"`
	Discovered int    `json:"discovered"`
	Seeded     int    `json:"seeded"`

	// Raw preserves the full response body for display and logging.
	Raw json.RawMessage `json:"-"`
}

// DiscoverParams tunes POST /discover/run and /discover/run_async.
// Zero values let the backend apply its own defaults (per_query 5, max_new 25).
type DiscoverParams struct {
	PerQuery int      `json:"per_query,omitempty"`
	MaxNew   int      `json:"max_new,omitempty"`
	Queries  []string `json:"-"`
}

// IngestParams tunes POST /ingest/run.
type IngestParams struct {
	SourceIDs []int64 `json:"source_ids,omitempty"`
	NewURL    string  `json:"new_url,omitempty"`
}

// Default fetch windows. The periodic snapshot view reads a smaller window
// than the live tail, which over-fetches to approximate a stream over a
// polling transport.
const (
	DefaultCrawlLimit    = 10
	DefaultEventLimit    = 200
	DefaultTailLimit     = 400
	DefaultSearchK       = 6
	DefaultHistoryLimit  = 50
	DefaultDocumentLimit = 50
	DefaultSourceLimit   = 100
)
