package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/formcore/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Every subcommand except version
// runs with an env prepared from the configuration.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "formcore",
		Short: "Inspect and drive reactive form definitions",
		Long: `formcore loads form definitions (JSON or YAML) into the reactive
object model and lets you inspect them, apply property writes and
values, and evaluate condition expressions.

Every property write runs the full change pipeline: bindings, change
events, condition expressions and per-property listeners. The set
command prints the resulting change log.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default: formcore.json or formcore.yaml in the project root)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&opts.metrics, "metrics", false, "Print collected metrics after the command")

	rootCmd.AddCommand(
		inspectCmd(opts),
		setCmd(opts),
		evalCmd(opts),
		classesCmd(opts),
		versionCmd(),
	)
	return rootCmd
}

// success prints a success message.
func success(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", fmt.Sprintf(format, args...))
}
