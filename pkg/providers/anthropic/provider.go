package anthropicprovider

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/tinyland-inc/rashomon/pkg/providers/protocoltypes"
)

type (
	Request       = protocoltypes.Request
	ClientOptions = protocoltypes.ClientOptions
)

const (
	defaultBaseURL     = "https://api.anthropic.com"
	defaultModel       = "claude-haiku-4-5-20251001"
	defaultTemperature = 0.7
)

type Provider struct {
	client  *anthropic.Client
	baseURL string
	model   string
}

func NewProvider(apiKey string) *Provider {
	p, _ := NewProviderWithOptions(apiKey, ClientOptions{})
	return p
}

func NewProviderWithBaseURL(apiKey, apiBase string) *Provider {
	p, _ := NewProviderWithOptions(apiKey, ClientOptions{APIBase: apiBase})
	return p
}

// NewProviderWithOptions only fails on an unparsable proxy URL.
func NewProviderWithOptions(apiKey string, opts ClientOptions) (*Provider, error) {
	httpClient, err := protocoltypes.NewHTTPClient(opts.Proxy, opts.Timeout)
	if err != nil {
		return nil, err
	}
	baseURL := normalizeBaseURL(opts.APIBase)
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	)
	return &Provider{
		client:  &client,
		baseURL: baseURL,
		model:   modelOrDefault(opts.Model),
	}, nil
}

func NewProviderWithClient(client *anthropic.Client, model string) *Provider {
	return &Provider{
		client:  client,
		baseURL: defaultBaseURL,
		model:   modelOrDefault(model),
	}
}

func (p *Provider) Generate(ctx context.Context, req Request) (string, error) {
	resp, err := p.client.Messages.New(ctx, buildParams(req, p.model))
	if err != nil {
		return "", fmt.Errorf("claude API call: %w", err)
	}
	return parseResponse(resp)
}

func (p *Provider) Name() string { return "anthropic" }

func (p *Provider) Model() string { return p.model }

func (p *Provider) BaseURL() string { return p.baseURL }

func buildParams(req Request, model string) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   req.MaxTokens(),
		Temperature: anthropic.Float(defaultTemperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Subject)),
		},
	}
	if req.Instruction != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.Instruction}}
	}
	return params
}

func parseResponse(resp *anthropic.Message) (string, error) {
	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("claude API call: %w (stop_reason=%s)", protocoltypes.ErrEmptyResponse, resp.StopReason)
	}
	return text, nil
}

func modelOrDefault(model string) string {
	if m := strings.TrimSpace(model); m != "" {
		return m
	}
	return defaultModel
}

func normalizeBaseURL(apiBase string) string {
	base := strings.TrimSpace(apiBase)
	if base == "" {
		return defaultBaseURL
	}

	base = strings.TrimRight(base, "/")
	if b, ok := strings.CutSuffix(base, "/v1"); ok {
		base = b
	}
	if base == "" {
		return defaultBaseURL
	}

	return base
}
