// Package perspective produces one lens's reading of an event.
//
// A Worker always returns text. With a credential it makes one call to the
// configured generator; without one, or when that call fails, it returns the
// deterministic fallback for the lens. Callers cannot tell the two apart
// from the Result.
package perspective

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tinyland-inc/rashomon/pkg/fallback"
	"github.com/tinyland-inc/rashomon/pkg/lens"
	"github.com/tinyland-inc/rashomon/pkg/logger"
	"github.com/tinyland-inc/rashomon/pkg/providers"
)

// MaxWords is the length hint sent with every generation request.
const MaxWords = 100

// Result is one lens's analysis.
type Result struct {
	Lens lens.Lens `json:"lens"`
	Text string    `json:"text"`
}

// Source says where a result's text came from. It is reported to observers
// only and never attached to a Result.
type Source string

const (
	SourceLive     Source = "live"
	SourceDemo     Source = "demo"
	SourceFallback Source = "fallback"
)

// Observer receives one call per produced result.
type Observer interface {
	Observe(l lens.Lens, source Source, elapsed time.Duration)
}

type Worker struct {
	factory   providers.Factory
	synth     *fallback.Synthesizer
	observers []Observer
}

// NewWorker builds a worker. A nil synth uses the builtin catalog.
func NewWorker(factory providers.Factory, synth *fallback.Synthesizer, observers ...Observer) *Worker {
	if synth == nil {
		synth = fallback.Default()
	}
	return &Worker{factory: factory, synth: synth, observers: observers}
}

// NormalizeEvent trims event text and replaces blank input with the
// fallback placeholder.
func NormalizeEvent(event string) string {
	if e := strings.TrimSpace(event); e != "" {
		return e
	}
	return fallback.Placeholder
}

// Subject is the user message sent for event.
func Subject(event string) string {
	return fmt.Sprintf("Event: %s\nProduce a ~%d-word analysis.", event, MaxWords)
}

// Produce returns exactly one Result for l. It never fails.
func (w *Worker) Produce(ctx context.Context, l lens.Lens, event, credential string) Result {
	start := time.Now()
	event = NormalizeEvent(event)
	credential = strings.TrimSpace(credential)

	fallbackText := func() string { return w.synth.Text(l, event) }

	if credential == "" {
		w.observe(l, SourceDemo, start)
		return Result{Lens: l, Text: fallbackText()}
	}

	outcome := Attempt(ctx, w.factory, credential, providers.Request{
		Instruction: l.Instruction(),
		Subject:     Subject(event),
		MaxWords:    MaxWords,
	})
	if outcome.OK() {
		w.observe(l, SourceLive, start)
	} else {
		logger.WarnCF("perspective", "Generation failed, using fallback", map[string]any{
			"lens":  l.Slug(),
			"error": outcome.Err().Error(),
		})
		w.observe(l, SourceFallback, start)
	}
	return Result{Lens: l, Text: outcome.OrElse(fallbackText)}
}

func (w *Worker) observe(l lens.Lens, source Source, start time.Time) {
	elapsed := time.Since(start)
	for _, o := range w.observers {
		o.Observe(l, source, elapsed)
	}
}
