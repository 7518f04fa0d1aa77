package onboard

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinyland-inc/rashomon/cmd/rashomon/internal"
	"github.com/tinyland-inc/rashomon/pkg/config"
)

func NewOnboardCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "onboard",
		Aliases: []string{"o"},
		Short:   "Write a default config file",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return onboard(internal.GetConfigPath(), force, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config")

	return cmd
}

func onboard(path string, force bool, out io.Writer) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}
	if err := config.SaveConfig(path, config.DefaultConfig()); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}

	fmt.Fprintf(out, "%s rashomon is ready!\n\n", internal.Logo)
	fmt.Fprintf(out, "Config written to %s\n", path)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  1. Add your API key under providers.<name>.api_key, or export RASHOMON_API_KEY")
	fmt.Fprintln(out, "  2. Try it: rashomon analyze \"The Columbus expedition of 1492\"")
	return nil
}
