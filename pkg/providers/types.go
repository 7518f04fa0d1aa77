// Package providers is the boundary to external text-generation services.
//
// A Generator answers one Request with text or an error. A Factory builds a
// Generator for a caller-supplied credential, so one process can serve
// requests carrying different keys.
package providers

import (
	"context"
	"errors"

	"github.com/tinyland-inc/rashomon/pkg/providers/protocoltypes"
)

type (
	Request       = protocoltypes.Request
	Generator     = protocoltypes.Generator
	ClientOptions = protocoltypes.ClientOptions
)

var (
	ErrUnknownProvider   = errors.New("unknown provider")
	ErrMissingCredential = protocoltypes.ErrMissingCredential
	ErrEmptyResponse     = protocoltypes.ErrEmptyResponse
)

type Factory interface {
	New(credential string) (Generator, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(credential string) (Generator, error)

func (f FactoryFunc) New(credential string) (Generator, error) { return f(credential) }

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) { return f(ctx, req) }

func (f GeneratorFunc) Name() string { return "func" }

// Static returns a Factory that ignores the credential and always hands out g.
func Static(g Generator) Factory {
	return FactoryFunc(func(string) (Generator, error) { return g, nil })
}
