// Rashomon - one event, several lenses, side by side.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinyland-inc/rashomon/cmd/rashomon/internal"
	"github.com/tinyland-inc/rashomon/cmd/rashomon/internal/analyze"
	"github.com/tinyland-inc/rashomon/cmd/rashomon/internal/onboard"
	"github.com/tinyland-inc/rashomon/cmd/rashomon/internal/serve"
	"github.com/tinyland-inc/rashomon/cmd/rashomon/internal/version"
)

func NewRashomonCommand() *cobra.Command {
	short := fmt.Sprintf("%s rashomon - Bias Detective v%s\n\n", internal.Logo, internal.GetVersion())

	cmd := &cobra.Command{
		Use:     "rashomon",
		Short:   short,
		Example: `rashomon analyze "The Columbus expedition of 1492"`,
	}

	cmd.AddCommand(
		onboard.NewOnboardCommand(),
		analyze.NewAnalyzeCommand(),
		serve.NewServeCommand(),
		version.NewVersionCommand(),
	)

	return cmd
}

func main() {
	cmd := NewRashomonCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
