package perspective

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyland-inc/rashomon/pkg/fallback"
	"github.com/tinyland-inc/rashomon/pkg/lens"
	"github.com/tinyland-inc/rashomon/pkg/providers"
)

type recordingObserver struct {
	mu      sync.Mutex
	sources []Source
}

func (o *recordingObserver) Observe(_ lens.Lens, s Source, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sources = append(o.sources, s)
}

func failingFactory(calls *int) providers.Factory {
	return providers.Static(providers.GeneratorFunc(func(context.Context, providers.Request) (string, error) {
		*calls++
		return "", errors.New("401 unauthorized")
	}))
}

func TestProduce_NoCredentialSkipsGenerator(t *testing.T) {
	factory := providers.FactoryFunc(func(string) (providers.Generator, error) {
		t.Fatal("factory must not be called without a credential")
		return nil, nil
	})
	obs := &recordingObserver{}
	w := NewWorker(factory, nil, obs)

	got := w.Produce(t.Context(), lens.Money, "Suez Crisis", "")
	assert.Equal(t, lens.Money, got.Lens)
	assert.Equal(t, fallback.Generic(lens.Money, "Suez Crisis"), got.Text)
	assert.Equal(t, []Source{SourceDemo}, obs.sources)
}

func TestProduce_DemoModeIsPure(t *testing.T) {
	w := NewWorker(nil, nil)
	for _, l := range lens.All() {
		a := w.Produce(t.Context(), l, "Columbus expedition", "")
		b := w.Produce(t.Context(), l, "Columbus expedition", "")
		assert.Equal(t, a, b)
	}
}

func TestProduce_BlankEventUsesPlaceholder(t *testing.T) {
	w := NewWorker(nil, nil)
	blank := w.Produce(t.Context(), lens.Subtext, "   ", "")
	placeholder := w.Produce(t.Context(), lens.Subtext, fallback.Placeholder, "")
	assert.Equal(t, placeholder, blank)
	assert.Equal(t, fallback.Default().Text(lens.Subtext, fallback.Placeholder), blank.Text)
}

func TestProduce_FailureMatchesDemoOutput(t *testing.T) {
	calls := 0
	obs := &recordingObserver{}
	w := NewWorker(failingFactory(&calls), nil, obs)
	demo := NewWorker(nil, nil)

	for _, event := range []string{"Columbus expedition", "The fall of Rome", ""} {
		for _, l := range lens.All() {
			got := w.Produce(t.Context(), l, event, "sk-bad")
			want := demo.Produce(t.Context(), l, event, "")
			assert.Equal(t, want, got, "%s / %q", l.Slug(), event)
		}
	}
	assert.Equal(t, 9, calls, "exactly one attempt per Produce")
	for _, s := range obs.sources {
		assert.Equal(t, SourceFallback, s)
	}
}

func TestProduce_SuccessReturnsTrimmedText(t *testing.T) {
	var seen providers.Request
	var seenKey string
	factory := providers.FactoryFunc(func(key string) (providers.Generator, error) {
		seenKey = key
		return providers.GeneratorFunc(func(_ context.Context, req providers.Request) (string, error) {
			seen = req
			return "\n  live **analysis**  \n", nil
		}), nil
	})
	obs := &recordingObserver{}
	w := NewWorker(factory, nil, obs)

	got := w.Produce(t.Context(), lens.Establishment, " Magna Carta ", " sk-live ")
	assert.Equal(t, "live **analysis**", got.Text)
	assert.Equal(t, "sk-live", seenKey)
	assert.Equal(t, lens.Establishment.Instruction(), seen.Instruction)
	assert.Equal(t, "Event: Magna Carta\nProduce a ~100-word analysis.", seen.Subject)
	assert.Equal(t, MaxWords, seen.MaxWords)
	assert.Equal(t, []Source{SourceLive}, obs.sources)
}

func TestProduce_FactoryErrorFallsBack(t *testing.T) {
	factory := providers.FactoryFunc(func(string) (providers.Generator, error) {
		return nil, errors.New("bad proxy")
	})
	w := NewWorker(factory, nil)
	got := w.Produce(t.Context(), lens.Money, "x", "key")
	assert.Equal(t, fallback.Generic(lens.Money, "x"), got.Text)
}

func TestAttempt_Classification(t *testing.T) {
	gen := func(text string, err error) providers.Factory {
		return providers.Static(providers.GeneratorFunc(func(context.Context, providers.Request) (string, error) {
			return text, err
		}))
	}

	out := Attempt(t.Context(), gen("  ok ", nil), "k", providers.Request{})
	require.True(t, out.OK())
	assert.Equal(t, "ok", out.Text())

	out = Attempt(t.Context(), gen("   ", nil), "k", providers.Request{})
	assert.False(t, out.OK())
	assert.ErrorIs(t, out.Err(), providers.ErrEmptyResponse)

	boom := errors.New("timeout")
	out = Attempt(t.Context(), gen("", boom), "k", providers.Request{})
	assert.ErrorIs(t, out.Err(), boom)

	out = Attempt(t.Context(), nil, "k", providers.Request{})
	assert.False(t, out.OK())
}

func TestAttempt_RecoversPanic(t *testing.T) {
	factory := providers.Static(providers.GeneratorFunc(func(context.Context, providers.Request) (string, error) {
		panic("nil map write")
	}))
	out := Attempt(t.Context(), factory, "k", providers.Request{})
	require.False(t, out.OK())
	assert.Contains(t, out.Err().Error(), "nil map write")
}

func TestProduce_CancelledContextStillYields(t *testing.T) {
	factory := providers.Static(providers.GeneratorFunc(func(ctx context.Context, _ providers.Request) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}))
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	got := NewWorker(factory, nil).Produce(ctx, lens.Subtext, "x", "key")
	assert.Equal(t, fallback.Generic(lens.Subtext, "x"), got.Text)
}

func TestOutcome_OrElse(t *testing.T) {
	assert.Equal(t, "a", Succeeded("a").OrElse(func() string { return "b" }))
	assert.Equal(t, "b", Failed(errors.New("x")).OrElse(func() string { return "b" }))
	assert.Error(t, Failed(nil).Err())
}

func TestNormalizeEvent(t *testing.T) {
	assert.Equal(t, "the event", NormalizeEvent(" \t\n"))
	assert.Equal(t, "Waterloo", NormalizeEvent("  Waterloo "))
}
