// Package jobs polls backend task handles until they reach a terminal state.
// Each Await call is an independent loop: callers decide how many run
// concurrently, and polling the same handle twice issues two separate query
// streams. Nothing is shared between loops.
package jobs

import (
	"context"
	"strings"
	"time"

	"evodash/pkg/gateway"
)

// Default polling cadence and budget, matching the observed dashboard
// behavior for long-running discover/run-once operations.
const (
	DefaultInterval = 2 * time.Second
	DefaultTimeout  = 5 * time.Minute
)

// StateTimeout is the synthetic status returned when a task never reaches a
// terminal state within the poll budget. It is a normal outcome, not an
// error, and is distinguishable from a backend-reported failure.
const StateTimeout = "timeout"

// StatusFunc queries the current status of a task handle.
type StatusFunc func(ctx context.Context, taskID string) (gateway.TaskStatus, error)

// IsTerminal reports whether a status value ends a poll loop. Terminality is
// defined by exclusion: only "pending" and "running" keep the loop alive.
// Any other value ("done", "error", "failed", or something this client has
// never seen) is terminal, so an unknown backend state can never hang a
// poll forever.
func IsTerminal(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "pending", "running":
		return false
	}
	return true
}

// Poller drives status queries at a fixed interval until terminal state or
// deadline. The zero value is usable once Status is set; Interval and
// Timeout fall back to the package defaults.
type Poller struct {
	Status   StatusFunc
	Interval time.Duration
	Timeout  time.Duration
}

// New returns a Poller backed by the gateway client's TaskStatus call.
func New(client *gateway.Client, interval, timeout time.Duration) *Poller {
	return &Poller{
		Status:   client.TaskStatus,
		Interval: interval,
		Timeout:  timeout,
	}
}

// Await polls taskID until a terminal status, the timeout, or context
// cancellation. It never returns an error: on timeout or cancellation the
// result carries StateTimeout and the handle, so the caller always has a
// resolvable outcome to display.
//
// A failed status query is treated as transient and polling continues; the
// last transport failure is reported in the Error field if the loop then
// times out without ever observing a terminal state.
func (p *Poller) Await(ctx context.Context, taskID string) gateway.TaskStatus {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	deadline := time.Now().Add(timeout)
	var lastErr error

	for {
		st, err := p.Status(ctx, taskID)
		if err == nil && IsTerminal(st.Status) {
			if st.TaskID == "" {
				st.TaskID = taskID
			}
			return st
		}
		if err != nil {
			lastErr = err
		}

		if !time.Now().Before(deadline) {
			return timeoutStatus(taskID, lastErr)
		}

		select {
		case <-ctx.Done():
			return timeoutStatus(taskID, ctx.Err())
		case <-time.After(interval):
		}

		if !time.Now().Before(deadline) {
			return timeoutStatus(taskID, lastErr)
		}
	}
}

// timeoutStatus builds the synthetic non-terminal-exhaustion result.
func timeoutStatus(taskID string, err error) gateway.TaskStatus {
	st := gateway.TaskStatus{TaskID: taskID, Status: StateTimeout}
	if err != nil {
		st.Error = err.Error()
	}
	return st
}
