package serve

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tinyland-inc/rashomon/cmd/rashomon/internal"
	"github.com/tinyland-inc/rashomon/pkg/api"
	"github.com/tinyland-inc/rashomon/pkg/logger"
	"github.com/tinyland-inc/rashomon/pkg/metering"
)

const shutdownTimeout = 5 * time.Second

func serveCmd(ctx context.Context, opts options, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.debug {
		logger.SetLevel(logger.DEBUG)
		fmt.Fprintln(out, "🔍 Debug mode enabled")
	}

	cfg, err := internal.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if opts.host != "" {
		cfg.Gateway.Host = opts.host
	}
	if opts.port >= 0 {
		cfg.Gateway.Port = opts.port
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	provider := opts.provider
	if provider == "" {
		provider = cfg.Providers.Default
	}

	meters := metering.NewStore()
	worker, err := internal.NewWorker(cfg, provider, meters)
	if err != nil {
		return fmt.Errorf("error creating worker: %w", err)
	}
	credential, source, err := internal.ResolveCredential(cfg, provider, "", false, nil, out)
	if err != nil {
		return fmt.Errorf("error reading api key: %w", err)
	}
	if source == internal.CredentialNone {
		fmt.Fprintln(out, internal.DemoModeWarning)
	}

	server := api.NewServer(cfg.Gateway.Addr(), worker, meters, credential)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()
	fmt.Fprintf(out, "✓ Perspectives available at http://%s/v1/perspectives\n", cfg.Gateway.Addr())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !api.IsClosed(err) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	fmt.Fprintln(out, "\nShutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logger.ErrorCF("serve", "Shutdown failed", map[string]any{"error": err.Error()})
		return err
	}
	fmt.Fprintln(out, "✓ Server stopped")
	return nil
}
