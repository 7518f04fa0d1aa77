package internal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/tinyland-inc/rashomon/pkg/auth"
	"github.com/tinyland-inc/rashomon/pkg/config"
	"github.com/tinyland-inc/rashomon/pkg/fallback"
	"github.com/tinyland-inc/rashomon/pkg/perspective"
	"github.com/tinyland-inc/rashomon/pkg/providers"
)

const Logo = "🔍"

// ConfigPathEnv overrides the config file location.
const ConfigPathEnv = "RASHOMON_CONFIG"

var (
	version   = "dev"
	gitCommit string
	buildTime string
	goVersion string
)

func GetConfigPath() string {
	if p := os.Getenv(ConfigPathEnv); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".rashomon", "config.json")
}

func LoadConfig() (*config.Config, error) {
	return config.LoadConfig(GetConfigPath())
}

// NewWorker builds a worker for the named provider, or the configured
// default when name is empty.
func NewWorker(cfg *config.Config, name string, observers ...perspective.Observer) (*perspective.Worker, error) {
	if name == "" {
		name = cfg.Providers.Default
	}
	factory, err := providers.CreateFactoryFor(cfg, name)
	if err != nil {
		return nil, err
	}
	catalog, err := fallback.LoadCatalog(cfg.Fallback.CatalogPath, !cfg.Fallback.DisableBuiltin)
	if err != nil {
		return nil, fmt.Errorf("error loading fallback catalog: %w", err)
	}
	return perspective.NewWorker(factory, fallback.New(catalog), observers...), nil
}

// CredentialSource says where ResolveCredential found a key.
type CredentialSource string

const (
	CredentialFlag   CredentialSource = "flag"
	CredentialPrompt CredentialSource = "prompt"
	CredentialEnv    CredentialSource = "env"
	CredentialConfig CredentialSource = "config"
	CredentialNone   CredentialSource = "none"
)

// ResolveCredential picks a key in order: explicit flag, interactive
// prompt, RASHOMON_API_KEY, then the provider or top-level config value.
// The prompt consumes one line of in.
func ResolveCredential(
	cfg *config.Config,
	provider, flagKey string,
	ask bool,
	in *bufio.Reader,
	out io.Writer,
) (string, CredentialSource, error) {
	if key := strings.TrimSpace(flagKey); key != "" {
		return key, CredentialFlag, nil
	}
	if ask {
		key, err := auth.PromptAPIKey(provider, in, out)
		if err != nil {
			return "", CredentialNone, err
		}
		return key, CredentialPrompt, nil
	}
	if key := strings.TrimSpace(os.Getenv("RASHOMON_API_KEY")); key != "" {
		return key, CredentialEnv, nil
	}
	if key := cfg.GetAPIKey(provider); key != "" {
		return key, CredentialConfig, nil
	}
	return "", CredentialNone, nil
}

// DemoModeWarning is printed when no credential is available.
const DemoModeWarning = "⚠ No API key found. Running in demo mode with sample perspectives."

// FormatVersion returns the version string with optional git commit
func FormatVersion() string {
	v := version
	if gitCommit != "" {
		v += fmt.Sprintf(" (git: %s)", gitCommit)
	}
	return v
}

// FormatBuildInfo returns build time and go version info
func FormatBuildInfo() (string, string) {
	build := buildTime
	goVer := goVersion
	if goVer == "" {
		goVer = runtime.Version()
	}
	return build, goVer
}

// GetVersion returns the version string
func GetVersion() string {
	return version
}
