package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Provider names accepted in providers.default.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

var knownProviders = []string{ProviderOpenAI, ProviderAnthropic, ProviderGemini}

type Config struct {
	// APIKey is the credential used when neither the caller nor the selected
	// provider section supplies one.
	APIKey    string          `env:"RASHOMON_API_KEY" json:"api_key,omitempty"`
	Providers ProvidersConfig `json:"providers"`
	Fallback  FallbackConfig  `json:"fallback"`
	Gateway   GatewayConfig   `json:"gateway"`
}

type ProvidersConfig struct {
	Default   string         `env:"RASHOMON_PROVIDERS_DEFAULT" json:"default"`
	OpenAI    ProviderConfig `json:"openai"    envPrefix:"RASHOMON_PROVIDERS_OPENAI_"`
	Anthropic ProviderConfig `json:"anthropic" envPrefix:"RASHOMON_PROVIDERS_ANTHROPIC_"`
	Gemini    ProviderConfig `json:"gemini"    envPrefix:"RASHOMON_PROVIDERS_GEMINI_"`
}

type ProviderConfig struct {
	APIKey         string `env:"API_KEY"         json:"api_key,omitempty"`
	APIBase        string `env:"API_BASE"        json:"api_base,omitempty"`
	Model          string `env:"MODEL"           json:"model,omitempty"`
	Proxy          string `env:"PROXY"           json:"proxy,omitempty"`
	TimeoutSeconds int    `env:"TIMEOUT_SECONDS" json:"timeout_seconds"`
}

// Timeout returns the per-call HTTP timeout; zero means the client default.
func (p ProviderConfig) Timeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

type FallbackConfig struct {
	// CatalogPath points at a YAML file of curated entries. Entries there are
	// consulted before the builtin ones.
	CatalogPath    string `env:"RASHOMON_FALLBACK_CATALOG_PATH"    json:"catalog_path,omitempty"`
	DisableBuiltin bool   `env:"RASHOMON_FALLBACK_DISABLE_BUILTIN" json:"disable_builtin,omitempty"`
}

type GatewayConfig struct {
	Host string `env:"RASHOMON_GATEWAY_HOST" json:"host"`
	Port int    `env:"RASHOMON_GATEWAY_PORT" json:"port"`
}

func (g GatewayConfig) Addr() string {
	return fmt.Sprintf("%s:%d", g.Host, g.Port)
}

func DefaultConfig() *Config {
	return &Config{
		Providers: ProvidersConfig{
			Default:   ProviderOpenAI,
			OpenAI:    ProviderConfig{TimeoutSeconds: 60},
			Anthropic: ProviderConfig{TimeoutSeconds: 60},
			Gemini:    ProviderConfig{TimeoutSeconds: 60},
		},
		Gateway: GatewayConfig{
			Host: "127.0.0.1",
			Port: 18790,
		},
	}
}

func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Providers.Default = strings.ToLower(strings.TrimSpace(cfg.Providers.Default))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

func (c *Config) Validate() error {
	if !slices.Contains(knownProviders, c.Providers.Default) {
		return fmt.Errorf("providers.default: unknown provider %q (want one of %s)",
			c.Providers.Default, strings.Join(knownProviders, ", "))
	}
	if c.Gateway.Port < 0 || c.Gateway.Port > 65535 {
		return errors.New("gateway.port must be between 0 and 65535")
	}
	return nil
}

// Provider returns the section for name, or false for an unknown name.
func (c *Config) Provider(name string) (ProviderConfig, bool) {
	switch strings.ToLower(name) {
	case ProviderOpenAI:
		return c.Providers.OpenAI, true
	case ProviderAnthropic:
		return c.Providers.Anthropic, true
	case ProviderGemini:
		return c.Providers.Gemini, true
	}
	return ProviderConfig{}, false
}

// GetAPIKey returns the configured credential for provider, falling back to
// the top-level api_key. Empty means demo mode.
func (c *Config) GetAPIKey(provider string) string {
	if p, ok := c.Provider(provider); ok && strings.TrimSpace(p.APIKey) != "" {
		return strings.TrimSpace(p.APIKey)
	}
	return strings.TrimSpace(c.APIKey)
}
