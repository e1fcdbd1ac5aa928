package source

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/gather/pkg/core"
)

// outcome is the result of one source query.
type outcome struct {
	coll *core.Collection
	err  error
}

// Gather queries every source and merges the results in the order the
// sources were given, regardless of which query finishes first.
//
// A failing source does not abort the others: its error is recorded on the
// merged collection as "<name>: <error>". With WithFailFast the first error
// is returned instead. Cancelling ctx returns ctx.Err().
func Gather(ctx context.Context, sources []Source, opts ...Option) (*core.MultiCollection, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	results := make([]outcome, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	}

	for i, src := range sources {
		g.Go(func() error {
			start := time.Now()
			coll, err := src.Query(gctx)
			results[i] = outcome{coll: coll, err: err}

			if err != nil {
				o.logger.Warn("source query failed", "source", src.Name(), "error", err)
				if o.failFast {
					return fmt.Errorf("source %s: %w", src.Name(), err)
				}
				return nil
			}
			count := 0
			if coll != nil {
				count = coll.Count()
			}
			o.logger.Debug("source queried",
				"source", src.Name(),
				"items", count,
				"duration", time.Since(start),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := core.NewMultiCollection()
	for i, r := range results {
		if r.coll != nil {
			merged.Append(r.coll)
		}
		if r.err != nil {
			merged.AddError(fmt.Sprintf("%s: %v", sources[i].Name(), r.err))
		}
	}
	return merged, nil
}
