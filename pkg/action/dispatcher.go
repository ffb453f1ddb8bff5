// Package action maps operator commands onto gateway calls, chaining into
// the job poller when the backend hands back a task handle, and publishes
// the outcome as a result the UI can display.
//
// Every dispatch resolves: soft-trigger failures, poll timeouts and mutation
// errors all end as an error-shaped Result, never as a panic or a perpetual
// pending state. Results are keyed by a per-dispatch ID so concurrent
// dispatches remain distinguishable even though the "last result" cell
// itself is last-writer-wins.
package action

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"evodash/pkg/gateway"
	"evodash/pkg/jobs"
)

// Command identifies an operator command.
type Command string

// Operator commands.
const (
	Crawl         Command = "crawl"
	Index         Command = "index"
	Discover      Command = "discover"
	Ingest        Command = "ingest"
	Evaluate      Command = "evaluate"
	Seed          Command = "seed"
	SourceCreate  Command = "source_create"
	SourceDelete  Command = "source_delete"
	SettingSave   Command = "setting_save"
	IndexActivate Command = "index_activate"
)

// Resource names a cached view that a mutating command invalidates. The
// contract is cooperative: invalidation only marks the view dirty, the
// refreshed data arrives on the view's next poll tick.
type Resource string

// Invalidatable resources.
const (
	ResourceMetrics   Resource = "metrics"
	ResourceSources   Resource = "sources"
	ResourceSettings  Resource = "settings"
	ResourceVersions  Resource = "versions"
	ResourceDocuments Resource = "documents"
)

// Result is the outcome of one dispatched command. A command that chains
// into job polling publishes twice under the same ID: first with Final
// false while the job runs, then with the terminal outcome.
type Result struct {
	ID      uuid.UUID
	Command Command
	Status  string
	TaskID  string
	Message string
	Err     string
	Raw     json.RawMessage
	Final   bool
	At      time.Time
}

// Failed reports whether the result is error-shaped.
func (r Result) Failed() bool {
	return r.Err != "" || r.Status == "error"
}

// Gateway is the subset of the gateway client the dispatcher drives.
type Gateway interface {
	RunCrawl(ctx context.Context, limit int) gateway.TriggerResult
	RunIndex(ctx context.Context, batch int) gateway.TriggerResult
	RunDiscover(ctx context.Context, p gateway.DiscoverParams) gateway.TriggerResult
	RunDiscoverAsync(ctx context.Context, p gateway.DiscoverParams) gateway.TriggerResult
	RunIngest(ctx context.Context, p gateway.IngestParams) gateway.TriggerResult
	RunIngestAsync(ctx context.Context) gateway.TriggerResult
	RunEvaluate(ctx context.Context, sets []string) gateway.TriggerResult
	RunEvaluateAsync(ctx context.Context, sets []string) gateway.TriggerResult
	SeedFromDocs(ctx context.Context, limit int) gateway.TriggerResult
	CreateSource(ctx context.Context, sourceURL, kind string) (int64, error)
	DeleteSource(ctx context.Context, id int64) (int, error)
	SaveSetting(ctx context.Context, key string, value any) error
	ActivateIndex(ctx context.Context, versionID int64, threshold float64) error
}

// Poller awaits a task handle until terminal state or timeout.
type Poller interface {
	Await(ctx context.Context, taskID string) gateway.TaskStatus
}

// Dispatcher executes operator commands. Dispatch methods block until the
// final outcome (including job polling); callers that need concurrency run
// them from their own goroutine or tea.Cmd.
type Dispatcher struct {
	gw     Gateway
	poller Poller
	locale string

	mu   sync.Mutex
	last Result

	onResult     func(Result)
	onInvalidate func(...Resource)
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithLocale selects the operator message language ("fr" or "en").
func WithLocale(locale string) Option {
	return func(d *Dispatcher) { d.locale = locale }
}

// WithObserver registers a callback invoked on every published result,
// including the intermediate job-pending one.
func WithObserver(fn func(Result)) Option {
	return func(d *Dispatcher) { d.onResult = fn }
}

// WithInvalidator registers the cache-invalidation hook fired after
// successful mutating commands.
func WithInvalidator(fn func(...Resource)) Option {
	return func(d *Dispatcher) { d.onInvalidate = fn }
}

// New creates a Dispatcher. poller may be nil, in which case commands that
// return a task handle report the submission result without waiting.
func New(gw Gateway, poller Poller, opts ...Option) *Dispatcher {
	d := &Dispatcher{gw: gw, poller: poller, locale: "fr"}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Last returns the most recently published result. The cell is shared by
// all commands: concurrent dispatches race and the cell reflects whichever
// settled last.
func (d *Dispatcher) Last() Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

// publish stores the result in the last-result cell and notifies the
// observer.
func (d *Dispatcher) publish(r Result) Result {
	d.mu.Lock()
	d.last = r
	d.mu.Unlock()

	if d.onResult != nil {
		d.onResult(r)
	}
	return r
}

// invalidate fires the cache-invalidation hook.
func (d *Dispatcher) invalidate(resources ...Resource) {
	if d.onInvalidate != nil && len(resources) > 0 {
		d.onInvalidate(resources...)
	}
}

// Crawl triggers a crawl pass.
func (d *Dispatcher) Crawl(ctx context.Context, limit int) Result {
	return d.trigger(ctx, Crawl,
		[]Resource{ResourceMetrics, ResourceDocuments},
		func() gateway.TriggerResult { return d.gw.RunCrawl(ctx, limit) })
}

// Index triggers indexing of unembedded documents.
func (d *Dispatcher) Index(ctx context.Context, batch int) Result {
	return d.trigger(ctx, Index,
		[]Resource{ResourceMetrics, ResourceVersions},
		func() gateway.TriggerResult { return d.gw.RunIndex(ctx, batch) })
}

// Discover triggers source discovery; async selects the background variant
// that returns a task handle.
func (d *Dispatcher) Discover(ctx context.Context, p gateway.DiscoverParams, async bool) Result {
	call := func() gateway.TriggerResult { return d.gw.RunDiscover(ctx, p) }
	if async {
		call = func() gateway.TriggerResult { return d.gw.RunDiscoverAsync(ctx, p) }
	}
	return d.trigger(ctx, Discover,
		[]Resource{ResourceMetrics, ResourceSources},
		call)
}

// Ingest triggers the full discover+crawl+index pass; async selects the
// background variant.
func (d *Dispatcher) Ingest(ctx context.Context, p gateway.IngestParams, async bool) Result {
	call := func() gateway.TriggerResult { return d.gw.RunIngest(ctx, p) }
	if async {
		call = func() gateway.TriggerResult { return d.gw.RunIngestAsync(ctx) }
	}
	return d.trigger(ctx, Ingest,
		[]Resource{ResourceMetrics, ResourceSources, ResourceDocuments},
		call)
}

// Evaluate triggers an evaluation run over the given question sets.
func (d *Dispatcher) Evaluate(ctx context.Context, sets []string, async bool) Result {
	call := func() gateway.TriggerResult { return d.gw.RunEvaluate(ctx, sets) }
	if async {
		call = func() gateway.TriggerResult { return d.gw.RunEvaluateAsync(ctx, sets) }
	}
	return d.trigger(ctx, Evaluate,
		[]Resource{ResourceMetrics},
		call)
}

// Seed asks the backend to derive new discovery topics from the corpus.
func (d *Dispatcher) Seed(ctx context.Context, limit int) Result {
	return d.trigger(ctx, Seed,
		[]Resource{ResourceMetrics, ResourceSettings},
		func() gateway.TriggerResult { return d.gw.SeedFromDocs(ctx, limit) })
}

// trigger runs a soft-trigger command through the submit → poll → publish
// state machine. The error state absorbs failures from submission or
// polling but is never sticky: the dispatcher returns to idle and accepts
// the next command.
func (d *Dispatcher) trigger(ctx context.Context, cmd Command, invalidates []Resource, call func() gateway.TriggerResult) Result {
	id := uuid.New()
	set := lookup(d.locale, cmd)

	res := call()

	r := Result{
		ID:      id,
		Command: cmd,
		Status:  res.Status,
		TaskID:  res.TaskID,
		Raw:     res.Raw,
		At:      time.Now(),
	}

	if res.Status == "error" {
		r.Err = res.Error
		r.Message = fmt.Sprintf(set.failed, res.Error)
		r.Final = true
		return d.publish(r)
	}

	// Synchronous completion: no handle to poll, the submission result is
	// the final outcome.
	if res.TaskID == "" || d.poller == nil {
		r.Message = set.started
		r.Final = true
		d.invalidate(invalidates...)
		return d.publish(r)
	}

	// Background job: show the started message while polling, then
	// overwrite with the terminal outcome.
	r.Message = set.started
	d.publish(r)

	st := d.poller.Await(ctx, res.TaskID)

	final := Result{
		ID:      id,
		Command: cmd,
		Status:  st.Status,
		TaskID:  st.TaskID,
		Raw:     st.Raw,
		At:      time.Now(),
		Final:   true,
	}

	switch {
	case st.Status == jobs.StateTimeout:
		final.Err = st.Error
		final.Message = set.timeout
	case st.Status == "error" || st.Error != "":
		final.Err = st.Error
		if final.Err == "" {
			final.Err = st.Status
		}
		final.Message = fmt.Sprintf(set.failed, final.Err)
	default:
		final.Message = set.done
		d.invalidate(invalidates...)
	}

	return d.publish(final)
}

// CreateSource registers a new crawl source.
func (d *Dispatcher) CreateSource(ctx context.Context, sourceURL, kind string) Result {
	return d.mutate(SourceCreate,
		[]Resource{ResourceSources, ResourceMetrics},
		func() error {
			_, err := d.gw.CreateSource(ctx, sourceURL, kind)
			return err
		})
}

// DeleteSource removes a crawl source.
func (d *Dispatcher) DeleteSource(ctx context.Context, id int64) Result {
	return d.mutate(SourceDelete,
		[]Resource{ResourceSources, ResourceMetrics},
		func() error {
			_, err := d.gw.DeleteSource(ctx, id)
			return err
		})
}

// SaveSetting upserts one admin setting.
func (d *Dispatcher) SaveSetting(ctx context.Context, key string, value any) Result {
	return d.mutate(SettingSave,
		[]Resource{ResourceSettings},
		func() error { return d.gw.SaveSetting(ctx, key, value) })
}

// ActivateIndex promotes an index version.
func (d *Dispatcher) ActivateIndex(ctx context.Context, versionID int64, threshold float64) Result {
	return d.mutate(IndexActivate,
		[]Resource{ResourceVersions, ResourceMetrics},
		func() error { return d.gw.ActivateIndex(ctx, versionID, threshold) })
}

// mutate runs a hard-call mutation, folding any error into an error-shaped
// result so the UI action always resolves.
func (d *Dispatcher) mutate(cmd Command, invalidates []Resource, call func() error) Result {
	set := lookup(d.locale, cmd)

	r := Result{
		ID:      uuid.New(),
		Command: cmd,
		At:      time.Now(),
		Final:   true,
	}

	if err := call(); err != nil {
		r.Status = "error"
		r.Err = err.Error()
		r.Message = fmt.Sprintf(set.failed, err)
		return d.publish(r)
	}

	r.Status = "ok"
	r.Message = set.done
	d.invalidate(invalidates...)
	return d.publish(r)
}
