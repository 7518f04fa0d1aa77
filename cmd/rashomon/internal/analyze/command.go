package analyze

import (
	"strings"

	"github.com/spf13/cobra"
)

type options struct {
	key        string
	provider   string
	askKey     bool
	aligned    string
	challenged string
	plain      bool
	debug      bool
}

func NewAnalyzeCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:     "analyze [event...]",
		Aliases: []string{"a"},
		Short:   "See an event through every lens",
		Example: `  rashomon analyze "The Columbus expedition of 1492"
  rashomon analyze --plain --provider anthropic "The fall of the Berlin Wall"
  rashomon analyze --aligned establishment --challenged money "The Suez Crisis"
  rashomon analyze`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return analyzeCmd(cmd.Context(), strings.Join(args, " "), opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.key, "key", "k", "", "API key for the generation service")
	cmd.Flags().StringVarP(&opts.provider, "provider", "p", "", "Generation provider (openai, anthropic, gemini)")
	cmd.Flags().BoolVar(&opts.askKey, "ask-key", false, "Prompt for the API key on stdin")
	cmd.Flags().StringVar(&opts.aligned, "aligned", "", "Lens that matches your initial view")
	cmd.Flags().StringVar(&opts.challenged, "challenged", "", "Lens that challenged you the most")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "Print each perspective as it completes, without columns")
	cmd.Flags().BoolVarP(&opts.debug, "debug", "d", false, "Enable debug logging")

	return cmd
}
