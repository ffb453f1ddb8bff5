// Package feed keeps polled read-only projections of backend resources
// consistent under overlapping fetches. A projection replaces its data
// wholesale on every successful fetch (last-write-wins, no merging), with
// one guard: a fetch issued earlier that resolves after a newer fetch must
// not clobber the newer data. Failed fetches keep the previous data visible
// rather than clearing the view.
package feed

import (
	"context"
	"sync"
	"time"
)

// Projection holds the latest successfully fetched value of one polled
// resource. Fetches are ordered by issue sequence: call Begin before issuing
// a request and Resolve with the same sequence when it completes. Safe for
// concurrent use.
type Projection[T any] struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
	data    T
	ok      bool
}

// Begin registers a new fetch and returns its issue sequence.
func (p *Projection[T]) Begin() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.issued++
	return p.issued
}

// Resolve applies a completed fetch. Data is applied only when no
// later-issued fetch has already resolved; it reports whether the value was
// applied. Stale resolutions are discarded.
func (p *Projection[T]) Resolve(seq uint64, v T) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if seq <= p.applied {
		return false
	}

	p.applied = seq
	p.data = v
	p.ok = true
	return true
}

// Fail records a failed fetch. The previous data stays visible
// (stale-but-present); the sequence is consumed so a later retry can still
// apply.
func (p *Projection[T]) Fail(seq uint64) {
	// Nothing to record: applied only advances on success, so an older
	// in-flight fetch can still land afterwards.
	_ = seq
}

// Get returns the current data and whether any fetch has ever succeeded.
func (p *Projection[T]) Get() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data, p.ok
}

// Version returns the issue sequence of the currently applied data. Callers
// use it to detect "data changed since last render" (the tail view snaps to
// bottom when the version advances).
func (p *Projection[T]) Version() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.applied
}

// Puller drives one projection at a fixed cadence. It fetches once
// immediately, then on every tick until the context is cancelled.
// Cancellation stops the ticker; an in-flight fetch finishes and its result
// is applied or discarded by the usual sequence rule.
type Puller[T any] struct {
	// Interval between fetches.
	Interval time.Duration

	// Fetch retrieves the full current window of the resource.
	Fetch func(ctx context.Context) (T, error)

	// Proj receives resolved data. Required.
	Proj *Projection[T]

	// OnUpdate, if set, runs after each applied fetch with the new data.
	OnUpdate func(T)

	// OnError, if set, runs after each failed fetch. The projection keeps
	// its previous data regardless.
	OnError func(error)
}

// Run polls until ctx is cancelled.
func (p *Puller[T]) Run(ctx context.Context) {
	p.tick(ctx)

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// tick performs one fetch cycle.
func (p *Puller[T]) tick(ctx context.Context) {
	seq := p.Proj.Begin()

	v, err := p.Fetch(ctx)
	if err != nil {
		p.Proj.Fail(seq)
		if p.OnError != nil {
			p.OnError(err)
		}
		return
	}

	if p.Proj.Resolve(seq, v) && p.OnUpdate != nil {
		p.OnUpdate(v)
	}
}
