package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "gather",
	Short: "Merge, filter, sort and truncate records from several sources",
	Long: `Gather queries several record sources (JSON, YAML, CSV and Markdown files,
SQL databases), merges their results and errors into one collection, then
filters, orders and truncates the combined set.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(newLogger(cmd.ErrOrStderr(), verbose))
	},
}

// newLogger writes text logs to w, at debug level when verbose is set.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log source and watcher activity")
}
