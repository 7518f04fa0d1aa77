package geminiprovider

import (
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"

	"github.com/tinyland-inc/rashomon/pkg/providers/protocoltypes"
)

func TestApplyRequest(t *testing.T) {
	m := &genai.GenerativeModel{}
	applyRequest(m, Request{Instruction: "critical theorist", Subject: "Event: x", MaxWords: 100})

	if m.MaxOutputTokens == nil || *m.MaxOutputTokens != 300 {
		t.Errorf("MaxOutputTokens = %v, want 300", m.MaxOutputTokens)
	}
	if m.Temperature == nil || *m.Temperature != defaultTemperature {
		t.Errorf("Temperature = %v", m.Temperature)
	}
	if m.SystemInstruction == nil || len(m.SystemInstruction.Parts) != 1 {
		t.Fatalf("SystemInstruction = %+v", m.SystemInstruction)
	}
	if got := m.SystemInstruction.Parts[0].(genai.Text); got != "critical theorist" {
		t.Errorf("SystemInstruction text = %q", got)
	}
}

func TestFirstText(t *testing.T) {
	if got := firstText(nil); got != "" {
		t.Errorf("firstText(nil) = %q", got)
	}
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: nil},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("power circulates")}}},
		},
	}
	if got := firstText(resp); got != "power circulates" {
		t.Errorf("firstText() = %q", got)
	}
}

func TestGenerate_MissingKey(t *testing.T) {
	p := NewProvider("  ")
	_, err := p.Generate(t.Context(), Request{Subject: "x"})
	if !errors.Is(err, protocoltypes.ErrMissingCredential) {
		t.Fatalf("err = %v, want ErrMissingCredential", err)
	}
}

func TestNewProviderWithOptions_Defaults(t *testing.T) {
	p := NewProviderWithOptions("k", protocoltypes.ClientOptions{})
	if p.Model() != defaultModel {
		t.Errorf("Model() = %q", p.Model())
	}
	if p.opts.Timeout != protocoltypes.DefaultTimeout {
		t.Errorf("Timeout = %v", p.opts.Timeout)
	}
	if p.Name() != "gemini" {
		t.Errorf("Name() = %q", p.Name())
	}
}
