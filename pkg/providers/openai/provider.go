// Package openaiprovider generates perspective text with the OpenAI Chat
// Completions API.
package openaiprovider

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/tinyland-inc/rashomon/pkg/providers/protocoltypes"
)

type (
	Request       = protocoltypes.Request
	ClientOptions = protocoltypes.ClientOptions
)

const (
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultModel       = "gpt-3.5-turbo"
	defaultTemperature = 0.7
)

type Provider struct {
	client  *openai.Client
	baseURL string
	model   string
}

func NewProvider(apiKey string) *Provider {
	p, _ := NewProviderWithOptions(apiKey, ClientOptions{})
	return p
}

// NewProviderWithOptions only fails on an unparsable proxy URL.
func NewProviderWithOptions(apiKey string, opts ClientOptions) (*Provider, error) {
	httpClient, err := protocoltypes.NewHTTPClient(opts.Proxy, opts.Timeout)
	if err != nil {
		return nil, err
	}
	baseURL := normalizeBaseURL(opts.APIBase)
	client := openai.NewClient(
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

func NewProviderWithClient(client *openai.Client, model string) *Provider {
	return &Provider{
		client:  client,
		baseURL: defaultBaseURL,
		model:   modelOrDefault(model),
	}
}

func (p *Provider) Generate(ctx context.Context, req Request) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, buildParams(req, p.model))
	if err != nil {
		return "", fmt.Errorf("openai API call: %w", err)
	}
	return parseResponse(resp)
}

func (p *Provider) Name() string { return "openai" }

func (p *Provider) Model() string { return p.model }

func (p *Provider) BaseURL() string { return p.baseURL }

func buildParams(req Request, model string) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.Instruction != "" {
		messages = append(messages, openai.SystemMessage(req.Instruction))
	}
	messages = append(messages, openai.UserMessage(req.Subject))

	return openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(model),
		Messages:    messages,
		Temperature: openai.Float(defaultTemperature),
		MaxTokens:   openai.Int(req.MaxTokens()),
	}
}

func parseResponse(resp *openai.ChatCompletion) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai API call: %w (no choices)", protocoltypes.ErrEmptyResponse)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("openai API call: %w (finish_reason=%s)",
			protocoltypes.ErrEmptyResponse, resp.Choices[0].FinishReason)
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
	base := strings.TrimRight(strings.TrimSpace(apiBase), "/")
	if base == "" {
		return defaultBaseURL
	}
	return base
}
