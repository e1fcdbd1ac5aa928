package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/aretw0/gather/internal/platform"
	"github.com/aretw0/gather/pkg/adapters/fs"
	"github.com/aretw0/gather/pkg/core"
	"github.com/spf13/cobra"
)

var (
	queryConfig    string
	querySources   []string
	queryFilters   []string
	queryOrder     string
	queryDirection string
	queryLimit     int
	queryStrict    bool
	queryJSON      bool
	queryWatch     bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Gather every source and print the merged result",
	Long: `Gather every source declared in the query file (--config, or the nearest
gather.yaml) and on the command line (--source), merge the results, then apply
filters, ordering and the limit. Source errors are reported on stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := buildQuery(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		p, err := platform.NewPipeline(ctx, q, platform.WithLogger(slog.Default()))
		if err != nil {
			return err
		}
		defer p.Close()

		if err := runOnce(ctx, p, cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
			return err
		}
		if !queryWatch {
			return nil
		}
		return watch(ctx, p, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func buildQuery(cmd *cobra.Command) (*platform.Query, error) {
	q := &platform.Query{}

	// An explicit --config always loads; the nearest gather.yaml only when
	// no --source is given.
	path := queryConfig
	if path == "" && len(querySources) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		found, err := platform.FindQuery(wd)
		if err != nil && !errors.Is(err, platform.ErrNotFound) {
			return nil, err
		}
		path = found
	}
	if path != "" {
		loaded, err := platform.LoadQuery(path)
		if err != nil {
			return nil, err
		}
		slog.Debug("loaded query file", "path", path)
		q = loaded
	}

	for _, s := range querySources {
		q.Sources = append(q.Sources, platform.SourceSpec{Path: s})
	}
	for _, f := range queryFilters {
		spec, err := platform.ParseFilter(f)
		if err != nil {
			return nil, err
		}
		q.Filters = append(q.Filters, spec)
	}
	if queryOrder != "" {
		q.Order = &platform.OrderSpec{Field: queryOrder, Direction: queryDirection}
	} else if q.Order != nil && cmd.Flags().Changed("direction") {
		q.Order.Direction = queryDirection
	}
	if cmd.Flags().Changed("limit") {
		q.Limit = queryLimit
	}
	if cmd.Flags().Changed("strict") {
		q.Strict = queryStrict
	}

	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

func runOnce(ctx context.Context, p *platform.Pipeline, out, errOut io.Writer) error {
	merged, err := p.Run(ctx)
	if err != nil {
		return err
	}
	for _, msg := range merged.Errors() {
		fmt.Fprintf(errOut, "warning: %s\n", msg)
	}
	return printItems(out, merged, queryJSON)
}

func watch(ctx context.Context, p *platform.Pipeline, out, errOut io.Writer) error {
	patterns := p.Patterns()
	if len(patterns) == 0 {
		return errors.New("--watch needs at least one file source")
	}

	w := fs.NewWatcher(patterns, func(ctx context.Context, paths []string) {
		slog.Info("sources changed, re-running query", "files", len(paths))
		if err := runOnce(ctx, p, out, errOut); err != nil {
			slog.Error("query failed", "error", err)
		}
	}, fs.WithWatchLogger(slog.Default()))

	if err := w.Start(ctx); err != nil {
		return err
	}
	slog.Info("watching for changes", "patterns", patterns)

	<-w.Done()
	return nil
}

func printItems(out io.Writer, c core.Results, asJSON bool) error {
	items := c.All()

	if asJSON {
		if items == nil {
			items = []core.Item{}
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(items); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	}

	for _, item := range items {
		fmt.Fprintln(out, formatItem(item))
	}
	return nil
}

// formatItem renders an item as key=value pairs in key order.
func formatItem(item core.Item) string {
	keys := make([]string, 0, len(item))
	for k := range item {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, item[k]))
	}
	return strings.Join(parts, " ")
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryConfig, "config", "c", "", "Query file (defaults to the nearest gather.yaml)")
	queryCmd.Flags().StringArrayVarP(&querySources, "source", "s", nil, "File glob to gather (repeatable)")
	queryCmd.Flags().StringArrayVarP(&queryFilters, "filter", "f", nil, "Keep items where field=value (repeatable)")
	queryCmd.Flags().StringVarP(&queryOrder, "order", "o", "", "Field to order by")
	queryCmd.Flags().StringVarP(&queryDirection, "direction", "d", "desc", "Order direction: asc or desc")
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 0, "Keep at most n items (0 keeps all)")
	queryCmd.Flags().BoolVar(&queryStrict, "strict", false, "Keep numbers as exact decimal strings")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "Output in JSON format")
	queryCmd.Flags().BoolVarP(&queryWatch, "watch", "w", false, "Re-run the query when source files change")
}
