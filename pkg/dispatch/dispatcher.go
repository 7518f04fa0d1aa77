// Package dispatch runs one perspective worker per lens concurrently and
// hands results back in the order they finish.
package dispatch

import (
	"context"
	"iter"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tinyland-inc/rashomon/pkg/lens"
	"github.com/tinyland-inc/rashomon/pkg/logger"
	"github.com/tinyland-inc/rashomon/pkg/perspective"
)

// Producer is the worker contract the dispatcher depends on.
type Producer interface {
	Produce(ctx context.Context, l lens.Lens, event, credential string) perspective.Result
}

type Dispatcher struct {
	worker Producer
	lenses []lens.Lens
}

// New returns a dispatcher over lenses, or over every lens when none are
// given. Repeated and out-of-range lenses are dropped.
func New(worker Producer, lenses ...lens.Lens) *Dispatcher {
	if len(lenses) == 0 {
		lenses = lens.All()
	}
	seen := make(map[lens.Lens]bool, len(lenses))
	unique := make([]lens.Lens, 0, len(lenses))
	for _, l := range lenses {
		if !l.Valid() {
			logger.WarnCF("dispatch", "Ignoring unknown lens", map[string]any{"lens": int(l)})
			continue
		}
		if seen[l] {
			continue
		}
		seen[l] = true
		unique = append(unique, l)
	}
	return &Dispatcher{worker: worker, lenses: unique}
}

// Lenses returns the configured lenses in dispatch order.
func (d *Dispatcher) Lenses() []lens.Lens {
	return append([]lens.Lens(nil), d.lenses...)
}

// Completions is a single-pass stream of exactly one result per lens.
// It is meant for one consumer.
type Completions struct {
	id      string
	results chan perspective.Result
	done    chan struct{}
}

// Stream starts every worker at once and returns their results as they
// complete. Abandoning the stream early is safe: the remaining workers
// finish into a buffer and exit.
func (d *Dispatcher) Stream(ctx context.Context, event, credential string) *Completions {
	event = perspective.NormalizeEvent(event)
	c := &Completions{
		id:      uuid.NewString(),
		results: make(chan perspective.Result, len(d.lenses)),
		done:    make(chan struct{}),
	}

	logger.DebugCF("dispatch", "Dispatch started", map[string]any{
		"dispatch_id": c.id,
		"lenses":      len(d.lenses),
		"live":        strings.TrimSpace(credential) != "",
	})

	var g errgroup.Group
	g.SetLimit(max(len(d.lenses), 1))
	for _, l := range d.lenses {
		g.Go(func() error {
			c.results <- d.worker.Produce(ctx, l, event, credential)
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(c.results)
		close(c.done)
	}()
	return c
}

// ID identifies this dispatch in logs.
func (c *Completions) ID() string { return c.id }

// Next blocks for the next finished result. It reports false once every
// result has been delivered.
func (c *Completions) Next() (perspective.Result, bool) {
	r, ok := <-c.results
	return r, ok
}

// All yields the remaining results in completion order.
func (c *Completions) All() iter.Seq[perspective.Result] {
	return func(yield func(perspective.Result) bool) {
		for {
			r, ok := c.Next()
			if !ok || !yield(r) {
				return
			}
		}
	}
}

// Wait blocks until every worker has returned.
func (c *Completions) Wait() { <-c.done }

// Dispatch drains Stream into a map keyed by lens.
func (d *Dispatcher) Dispatch(ctx context.Context, event, credential string) map[lens.Lens]string {
	out := make(map[lens.Lens]string, len(d.lenses))
	for r := range d.Stream(ctx, event, credential).All() {
		out[r.Lens] = r.Text
	}
	return out
}

// Report is a finished dispatch as presented by the CLI and HTTP surfaces.
type Report struct {
	ID      string
	Event   string
	Results []perspective.Result
	Elapsed time.Duration
}

// Texts returns the results keyed by lens.
func (r Report) Texts() map[lens.Lens]string {
	out := make(map[lens.Lens]string, len(r.Results))
	for _, res := range r.Results {
		out[res.Lens] = res.Text
	}
	return out
}

// Run drains a stream, calling onResult as each result arrives, and times
// the whole dispatch. onResult may be nil.
func (d *Dispatcher) Run(ctx context.Context, event, credential string, onResult func(perspective.Result)) Report {
	start := time.Now()
	stream := d.Stream(ctx, event, credential)
	report := Report{
		ID:      stream.ID(),
		Event:   perspective.NormalizeEvent(event),
		Results: make([]perspective.Result, 0, len(d.lenses)),
	}
	for r := range stream.All() {
		report.Results = append(report.Results, r)
		if onResult != nil {
			onResult(r)
		}
	}
	report.Elapsed = time.Since(start)

	logger.InfoCF("dispatch", "Dispatch complete", map[string]any{
		"dispatch_id": report.ID,
		"results":     len(report.Results),
		"elapsed_ms":  report.Elapsed.Milliseconds(),
	})
	return report
}
