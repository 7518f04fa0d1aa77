package providers

import (
	"fmt"
	"strings"

	"github.com/tinyland-inc/rashomon/pkg/config"
	anthropicprovider "github.com/tinyland-inc/rashomon/pkg/providers/anthropic"
	geminiprovider "github.com/tinyland-inc/rashomon/pkg/providers/gemini"
	openaiprovider "github.com/tinyland-inc/rashomon/pkg/providers/openai"
)

// CreateFactory returns a Factory for cfg's default provider.
func CreateFactory(cfg *config.Config) (Factory, error) {
	return CreateFactoryFor(cfg, cfg.Providers.Default)
}

// CreateFactoryFor returns a Factory for a named provider. Settings other
// than the credential come from that provider's config section.
func CreateFactoryFor(cfg *config.Config, name string) (Factory, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	pc, ok := cfg.Provider(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	opts := ClientOptions{
		APIBase: pc.APIBase,
		Model:   pc.Model,
		Proxy:   pc.Proxy,
		Timeout: pc.Timeout(),
	}

	build := func(credential string) (Generator, error) {
		switch name {
		case config.ProviderAnthropic:
			return anthropicprovider.NewProviderWithOptions(credential, opts)
		case config.ProviderGemini:
			return geminiprovider.NewProviderWithOptions(credential, opts), nil
		default:
			return openaiprovider.NewProviderWithOptions(credential, opts)
		}
	}

	return FactoryFunc(func(credential string) (Generator, error) {
		if strings.TrimSpace(credential) == "" {
			return nil, fmt.Errorf("%s: %w", name, ErrMissingCredential)
		}
		g, err := build(credential)
		if err != nil {
			return nil, fmt.Errorf("create %s provider: %w", name, err)
		}
		return g, nil
	}), nil
}
