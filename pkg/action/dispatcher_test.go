package action

import (
	"context"
	"fmt"
	"testing"

	"evodash/pkg/gateway"
	"evodash/pkg/jobs"
)

// fakeGateway implements Gateway with canned responses per call.
type fakeGateway struct {
	crawlResult    gateway.TriggerResult
	ingestResult   gateway.TriggerResult
	evaluateResult gateway.TriggerResult
	createErr      error
	deleteErr      error
	saveErr        error
	activateErr    error
}

func (f *fakeGateway) RunCrawl(ctx context.Context, limit int) gateway.TriggerResult {
	return f.crawlResult
}

func (f *fakeGateway) RunIndex(ctx context.Context, batch int) gateway.TriggerResult {
	return gateway.TriggerResult{Status: "ok"}
}

func (f *fakeGateway) RunDiscover(ctx context.Context, p gateway.DiscoverParams) gateway.TriggerResult {
	return gateway.TriggerResult{Status: "ok"}
}

func (f *fakeGateway) RunDiscoverAsync(ctx context.Context, p gateway.DiscoverParams) gateway.TriggerResult {
	return gateway.TriggerResult{Status: "ok", TaskID: "disc-1"}
}

func (f *fakeGateway) RunIngest(ctx context.Context, p gateway.IngestParams) gateway.TriggerResult {
	return f.ingestResult
}

func (f *fakeGateway) RunIngestAsync(ctx context.Context) gateway.TriggerResult {
	return f.ingestResult
}

func (f *fakeGateway) RunEvaluate(ctx context.Context, sets []string) gateway.TriggerResult {
	return f.evaluateResult
}

func (f *fakeGateway) RunEvaluateAsync(ctx context.Context, sets []string) gateway.TriggerResult {
	return f.evaluateResult
}

func (f *fakeGateway) SeedFromDocs(ctx context.Context, limit int) gateway.TriggerResult {
	return gateway.TriggerResult{Status: "ok"}
}

func (f *fakeGateway) CreateSource(ctx context.Context, sourceURL, kind string) (int64, error) {
	return 1, f.createErr
}

func (f *fakeGateway) DeleteSource(ctx context.Context, id int64) (int, error) {
	return 1, f.deleteErr
}

func (f *fakeGateway) SaveSetting(ctx context.Context, key string, value any) error {
	return f.saveErr
}

func (f *fakeGateway) ActivateIndex(ctx context.Context, versionID int64, threshold float64) error {
	return f.activateErr
}

// fakePoller replays a fixed status sequence and records invocations.
type fakePoller struct {
	statuses []string
	calls    []string
}

func (f *fakePoller) Await(ctx context.Context, taskID string) gateway.TaskStatus {
	f.calls = append(f.calls, taskID)
	last := f.statuses[len(f.statuses)-1]
	return gateway.TaskStatus{TaskID: taskID, Status: last}
}

func TestCrawlWithoutTaskIDResolvesImmediately(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{crawlResult: gateway.TriggerResult{Status: "started"}}
	poller := &fakePoller{statuses: []string{"done"}}
	d := New(gw, poller)

	r := d.Crawl(context.Background(), 10)

	if r.Message != "Crawl lancé" {
		t.Errorf("Message = %q; want \"Crawl lancé\"", r.Message)
	}
	if !r.Final {
		t.Error("result without task handle must be final")
	}
	if len(poller.calls) != 0 {
		t.Errorf("poller invoked %d times; want 0 when no task_id returned", len(poller.calls))
	}
}

func TestIngestAsyncChainsIntoPoller(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{ingestResult: gateway.TriggerResult{Status: "accepted", TaskID: "abc"}}
	poller := &fakePoller{statuses: []string{"done"}}

	var published []Result
	d := New(gw, poller, WithObserver(func(r Result) { published = append(published, r) }))

	r := d.Ingest(context.Background(), gateway.IngestParams{}, true)

	if len(poller.calls) != 1 || poller.calls[0] != "abc" {
		t.Fatalf("poller calls = %v; want [abc]", poller.calls)
	}
	if r.Status != "done" {
		t.Errorf("final Status = %q; want done", r.Status)
	}
	if r.Message != "Ingestion terminée" {
		t.Errorf("final Message = %q; want terminé variant", r.Message)
	}

	// Two publications under the same ID: started (non-final), then done.
	if len(published) != 2 {
		t.Fatalf("published %d results; want 2", len(published))
	}
	if published[0].Final || published[0].Message != "Ingestion lancée" {
		t.Errorf("intermediate result = %+v; want non-final started message", published[0])
	}
	if published[0].ID != published[1].ID {
		t.Error("intermediate and final results must share the dispatch ID")
	}
}

func TestSoftTriggerFailureResolvesToErrorResult(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{crawlResult: gateway.TriggerResult{Status: "error", Error: "connection refused"}}
	d := New(gw, &fakePoller{statuses: []string{"done"}})

	r := d.Crawl(context.Background(), 10)

	if !r.Failed() {
		t.Error("result must be error-shaped")
	}
	if r.Message == "" {
		t.Error("message must be non-empty on failure")
	}
	if !r.Final {
		t.Error("failed dispatch must still resolve")
	}

	// Errors are not sticky: the next command runs normally.
	gw.crawlResult = gateway.TriggerResult{Status: "ok"}
	if next := d.Crawl(context.Background(), 10); next.Failed() {
		t.Errorf("dispatcher stuck in error state: %+v", next)
	}
}

func TestPollTimeoutIsDistinguishableFromFailure(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{ingestResult: gateway.TriggerResult{Status: "ok", TaskID: "slow"}}
	poller := &fakePoller{statuses: []string{jobs.StateTimeout}}
	d := New(gw, poller)

	r := d.Ingest(context.Background(), gateway.IngestParams{}, true)

	if r.Status != jobs.StateTimeout {
		t.Errorf("Status = %q; want %q", r.Status, jobs.StateTimeout)
	}
	if r.Message != "Ingestion : délai d'attente dépassé" {
		t.Errorf("Message = %q; want timeout variant", r.Message)
	}
}

func TestMutationInvalidatesDependentViews(t *testing.T) {
	t.Parallel()

	var invalidated []Resource
	d := New(&fakeGateway{}, nil, WithInvalidator(func(rs ...Resource) {
		invalidated = append(invalidated, rs...)
	}))

	r := d.CreateSource(context.Background(), "https://example.org", "html")
	if r.Failed() {
		t.Fatalf("unexpected failure: %+v", r)
	}

	want := map[Resource]bool{ResourceSources: true, ResourceMetrics: true}
	for _, res := range invalidated {
		delete(want, res)
	}
	if len(want) != 0 {
		t.Errorf("missing invalidations: %v (got %v)", want, invalidated)
	}
}

func TestFailedMutationDoesNotInvalidate(t *testing.T) {
	t.Parallel()

	var invalidated int
	gw := &fakeGateway{saveErr: fmt.Errorf("db unavailable")}
	d := New(gw, nil, WithInvalidator(func(rs ...Resource) { invalidated++ }))

	r := d.SaveSetting(context.Background(), "K", "v")

	if !r.Failed() {
		t.Error("result must be error-shaped")
	}
	if invalidated != 0 {
		t.Error("failed mutation must not invalidate views")
	}
}

func TestEnglishLocaleMessages(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{crawlResult: gateway.TriggerResult{Status: "started"}}
	d := New(gw, nil, WithLocale("en"))

	r := d.Crawl(context.Background(), 10)
	if r.Message != "Crawl started" {
		t.Errorf("Message = %q; want \"Crawl started\"", r.Message)
	}
}

func TestLastReflectsMostRecentDispatch(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{crawlResult: gateway.TriggerResult{Status: "ok"}}
	d := New(gw, nil)

	first := d.Crawl(context.Background(), 10)
	second := d.Seed(context.Background(), 0)

	if d.Last().ID != second.ID {
		t.Error("Last() must reflect the most recently settled dispatch")
	}
	if first.ID == second.ID {
		t.Error("each dispatch must get its own ID")
	}
}
