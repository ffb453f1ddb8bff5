package jobs

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"evodash/pkg/gateway"
)

// sequenceStatus returns a StatusFunc that replays the given statuses in
// order, repeating the last one forever.
func sequenceStatus(statuses ...string) StatusFunc {
	var calls atomic.Int64
	return func(ctx context.Context, taskID string) (gateway.TaskStatus, error) {
		n := calls.Add(1) - 1
		if int(n) >= len(statuses) {
			n = int64(len(statuses) - 1)
		}
		return gateway.TaskStatus{TaskID: taskID, Status: statuses[n]}, nil
	}
}

func TestIsTerminalByExclusion(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"pending", "running", "Pending", " RUNNING "} {
		if IsTerminal(s) {
			t.Errorf("IsTerminal(%q) = true; want false", s)
		}
	}
	// Everything else is terminal, including statuses never seen before.
	for _, s := range []string{"done", "ok", "error", "failed", "timeout", "exploded", ""} {
		if !IsTerminal(s) {
			t.Errorf("IsTerminal(%q) = false; want true", s)
		}
	}
}

func TestAwaitReturnsImmediatelyOnTerminal(t *testing.T) {
	t.Parallel()

	p := &Poller{Status: sequenceStatus("done"), Interval: time.Hour, Timeout: time.Hour}

	start := time.Now()
	st := p.Await(context.Background(), "t1")
	if st.Status != "done" {
		t.Errorf("Status = %q; want done", st.Status)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("terminal status must return without sleeping, took %v", elapsed)
	}
}

func TestAwaitSleepsOneIntervalForRunningThenDone(t *testing.T) {
	t.Parallel()

	interval := 50 * time.Millisecond
	p := &Poller{Status: sequenceStatus("running", "done"), Interval: interval, Timeout: time.Minute}

	start := time.Now()
	st := p.Await(context.Background(), "t2")
	elapsed := time.Since(start)

	if st.Status != "done" {
		t.Errorf("Status = %q; want done", st.Status)
	}
	if elapsed < interval {
		t.Errorf("returned after %v; want at least one interval %v", elapsed, interval)
	}
	if elapsed > 5*interval {
		t.Errorf("returned after %v; want roughly one interval %v", elapsed, interval)
	}
}

func TestAwaitTimesOutWithinOneExtraInterval(t *testing.T) {
	t.Parallel()

	// Scaled-down version of the 5000ms/2000ms property: with a status that
	// never leaves "running", Await returns the synthetic timeout within
	// [timeout, timeout+interval].
	interval := 40 * time.Millisecond
	timeout := 100 * time.Millisecond
	p := &Poller{Status: sequenceStatus("running"), Interval: interval, Timeout: timeout}

	start := time.Now()
	st := p.Await(context.Background(), "t3")
	elapsed := time.Since(start)

	if st.Status != StateTimeout {
		t.Fatalf("Status = %q; want %q", st.Status, StateTimeout)
	}
	if st.TaskID != "t3" {
		t.Errorf("TaskID = %q; want t3 (handle preserved in timeout marker)", st.TaskID)
	}
	if elapsed < timeout {
		t.Errorf("returned after %v; before the %v budget", elapsed, timeout)
	}
	if elapsed > timeout+2*interval {
		t.Errorf("returned after %v; want within one extra interval of %v", elapsed, timeout)
	}
}

func TestAwaitKeepsPollingThroughTransientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	status := func(ctx context.Context, taskID string) (gateway.TaskStatus, error) {
		if calls.Add(1) == 1 {
			return gateway.TaskStatus{}, fmt.Errorf("connection refused")
		}
		return gateway.TaskStatus{TaskID: taskID, Status: "done"}, nil
	}

	p := &Poller{Status: status, Interval: 10 * time.Millisecond, Timeout: time.Second}
	st := p.Await(context.Background(), "t4")

	if st.Status != "done" {
		t.Errorf("Status = %q; want done after transient error", st.Status)
	}
}

func TestAwaitTimeoutCarriesLastTransportError(t *testing.T) {
	t.Parallel()

	status := func(ctx context.Context, taskID string) (gateway.TaskStatus, error) {
		return gateway.TaskStatus{}, fmt.Errorf("connection refused")
	}

	p := &Poller{Status: status, Interval: 10 * time.Millisecond, Timeout: 30 * time.Millisecond}
	st := p.Await(context.Background(), "t5")

	if st.Status != StateTimeout {
		t.Fatalf("Status = %q; want %q", st.Status, StateTimeout)
	}
	if st.Error == "" {
		t.Error("timeout after persistent transport failure must report the last error")
	}
}

func TestAwaitStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	p := &Poller{Status: sequenceStatus("running"), Interval: time.Hour, Timeout: time.Hour}

	done := make(chan gateway.TaskStatus, 1)
	go func() { done <- p.Await(ctx, "t6") }()

	cancel()

	select {
	case st := <-done:
		if st.Status != StateTimeout {
			t.Errorf("Status = %q; want %q on cancellation", st.Status, StateTimeout)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Await did not return after context cancellation")
	}
}

func TestConcurrentAwaitsAreIndependent(t *testing.T) {
	t.Parallel()

	// Two loops on the same handle issue two independent query streams.
	var calls atomic.Int64
	status := func(ctx context.Context, taskID string) (gateway.TaskStatus, error) {
		calls.Add(1)
		return gateway.TaskStatus{TaskID: taskID, Status: "done"}, nil
	}

	p := &Poller{Status: status, Interval: 10 * time.Millisecond, Timeout: time.Second}

	done := make(chan struct{})
	go func() {
		p.Await(context.Background(), "same")
		close(done)
	}()
	p.Await(context.Background(), "same")
	<-done

	if got := calls.Load(); got != 2 {
		t.Errorf("status queried %d times; want 2 (no dedup of identical handles)", got)
	}
}
