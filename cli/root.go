// Package cli はaxisgraphのコマンドラインインターフェースを提供します。
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/stsysd/axisgraph/config"
)

// rootOptions はサブコマンド間で共有する状態です。
type rootOptions struct {
	logLevel string
	logger   zerolog.Logger
}

// NewRootCmd はaxisgraphのルートコマンドを作成します。
func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:           "axisgraph",
		Short:         "Render calendar contribution graphs",
		Long:          "axisgraph: render GitHub-style contribution graphs as SVG or in the terminal, or serve them over HTTP",
		Version:       version,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := opts.logLevel
			if !cmd.Flags().Changed("log-level") {
				if env := os.Getenv("AXISGRAPH_LOG_LEVEL"); env != "" {
					level = env
				}
			}
			opts.logger = config.NewLogger(level, cmd.ErrOrStderr())
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.AddCommand(newRenderCmd(opts), newServeCmd(opts))

	return cmd
}

const rootCmdExample = `  # Render activity dates from a file as SVG
  axisgraph render --input dates.txt --output graph.svg

  # Render to the terminal, newest week first
  git log --format=%aI | axisgraph render --format term --axis vertical

  # Render a grid exported from the API
  axisgraph render --grid grid.json --scheme dark

  # Run the HTTP server
  AXISGRAPH_API_KEY=secret axisgraph serve`

// isTerminal は出力先が端末かどうかを判定します。
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
