package serve

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyland-inc/rashomon/cmd/rashomon/internal"
)

func TestNewServeCommand(t *testing.T) {
	cmd := NewServeCommand()

	require.NotNil(t, cmd)
	assert.Equal(t, "serve", cmd.Use)
	assert.Equal(t, []string{"s"}, cmd.Aliases)
	assert.True(t, cmd.HasExample())

	assert.Nil(t, cmd.Run)
	assert.NotNil(t, cmd.RunE)

	for _, name := range []string{"host", "port", "provider", "debug"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}

func TestServeCmd_StopsOnCancel(t *testing.T) {
	t.Setenv(internal.ConfigPathEnv, filepath.Join(t.TempDir(), "config.json"))
	t.Setenv("RASHOMON_API_KEY", "")
	t.Setenv("RASHOMON_PROVIDERS_OPENAI_API_KEY", "")

	ctx, cancel := context.WithTimeout(t.Context(), 200*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	err := serveCmd(ctx, options{host: "127.0.0.1", port: 0}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), internal.DemoModeWarning)
	assert.Contains(t, out.String(), "Server stopped")
}

func TestServeCmd_InvalidPort(t *testing.T) {
	t.Setenv(internal.ConfigPathEnv, filepath.Join(t.TempDir(), "config.json"))
	err := serveCmd(t.Context(), options{port: 70000}, &bytes.Buffer{})
	assert.Error(t, err)
}
