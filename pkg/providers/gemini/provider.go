// Package geminiprovider generates perspective text with Google's Gemini API.
package geminiprovider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/tinyland-inc/rashomon/pkg/providers/protocoltypes"
)

type (
	Request       = protocoltypes.Request
	ClientOptions = protocoltypes.ClientOptions
)

const (
	defaultModel       = "gemini-2.5-flash"
	defaultTemperature = 0.7
)

// Provider opens a short-lived client per call; the genai client owns a
// connection that must be closed.
//
// The underlying transport is gRPC, so ClientOptions.Proxy is not applied;
// the standard HTTPS_PROXY environment variable still is.
type Provider struct {
	apiKey   string
	endpoint string
	model    string
	opts     ClientOptions
}

func NewProvider(apiKey string) *Provider {
	return NewProviderWithOptions(apiKey, ClientOptions{})
}

func NewProviderWithOptions(apiKey string, opts ClientOptions) *Provider {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = protocoltypes.DefaultTimeout
	}
	return &Provider{
		apiKey:   strings.TrimSpace(apiKey),
		endpoint: strings.TrimSpace(opts.APIBase),
		model:    model,
		opts:     opts,
	}
}

func (p *Provider) Generate(ctx context.Context, req Request) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("gemini: %w", protocoltypes.ErrMissingCredential)
	}
	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	clientOpts := []option.ClientOption{option.WithAPIKey(p.apiKey)}
	if p.endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(p.endpoint))
	}
	cl, err := genai.NewClient(ctx, clientOpts...)
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(p.model)
	if m == nil {
		return "", errors.New("gemini: model is nil")
	}
	applyRequest(m, req)

	resp, err := m.GenerateContent(ctx, genai.Text(req.Subject))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := strings.TrimSpace(firstText(resp))
	if text == "" {
		return "", fmt.Errorf("gemini generate: %w", protocoltypes.ErrEmptyResponse)
	}
	return text, nil
}

func (p *Provider) Name() string { return "gemini" }

func (p *Provider) Model() string { return p.model }

func applyRequest(m *genai.GenerativeModel, req Request) {
	maxTokens := int32(req.MaxTokens())
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:     ptrFloat32(defaultTemperature),
		MaxOutputTokens: &maxTokens,
	}
	if req.Instruction != "" {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.Instruction)},
		}
	}
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
