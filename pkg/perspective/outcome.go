package perspective

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tinyland-inc/rashomon/pkg/providers"
)

// Outcome is the result of one external generation attempt: either text or
// the cause of failure, never both.
type Outcome struct {
	text string
	err  error
}

func Succeeded(text string) Outcome { return Outcome{text: text} }

func Failed(err error) Outcome {
	if err == nil {
		err = errors.New("generation failed")
	}
	return Outcome{err: err}
}

func (o Outcome) OK() bool { return o.err == nil }

func (o Outcome) Text() string { return o.text }

func (o Outcome) Err() error { return o.err }

// OrElse is the single place failures turn into fallback text.
func (o Outcome) OrElse(fallback func() string) string {
	if o.OK() {
		return o.text
	}
	return fallback()
}

// Attempt makes exactly one generation call and classifies the result.
// Errors, panics, and blank responses all become failures.
func Attempt(ctx context.Context, factory providers.Factory, credential string, req providers.Request) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Failed(fmt.Errorf("generator panic: %v", r))
		}
	}()

	if factory == nil {
		return Failed(errors.New("no generator configured"))
	}
	gen, err := factory.New(credential)
	if err != nil {
		return Failed(err)
	}
	text, err := gen.Generate(ctx, req)
	if err != nil {
		return Failed(err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Failed(providers.ErrEmptyResponse)
	}
	return Succeeded(text)
}
