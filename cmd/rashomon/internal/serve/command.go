package serve

import (
	"github.com/spf13/cobra"
)

type options struct {
	host     string
	port     int
	provider string
	debug    bool
}

func NewServeCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Serve perspectives over HTTP",
		Args:    cobra.NoArgs,
		Example: `  rashomon serve
  rashomon serve --host 0.0.0.0 --port 8080`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("port") {
				opts.port = -1
			}
			return serveCmd(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "Listen host (default from config)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "Listen port (default from config)")
	cmd.Flags().StringVarP(&opts.provider, "provider", "p", "", "Generation provider (openai, anthropic, gemini)")
	cmd.Flags().BoolVarP(&opts.debug, "debug", "d", false, "Enable debug logging")

	return cmd
}
