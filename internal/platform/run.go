package platform

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/aretw0/gather/pkg/adapters/fs"
	"github.com/aretw0/gather/pkg/adapters/sqldb"
	"github.com/aretw0/gather/pkg/core"
	"github.com/aretw0/gather/pkg/source"
)

// Pipeline is a query bound to its sources. It can run repeatedly (watch
// mode) and must be closed to release database handles.
type Pipeline struct {
	Query      *Query
	Aggregator *source.Aggregator

	logger *slog.Logger
	dbs    []*sql.DB
}

// NewPipeline builds the sources a query declares.
func NewPipeline(ctx context.Context, q *Query, opts ...Option) (*Pipeline, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	p := &Pipeline{Query: q, logger: o.logger}
	fsCfg := fs.Config{Strict: q.Strict, Logger: o.logger}

	var sources []source.Source
	for i, spec := range q.Sources {
		name := spec.SourceName(i)

		if spec.Path != "" {
			g := fs.NewGlob(p.resolve(spec.Path), fsCfg)
			g.ID = name
			sources = append(sources, g)
			continue
		}

		driver := spec.Driver
		if driver == "" {
			driver = DefaultDriver
		}
		db, err := sqldb.Open(ctx, driver, spec.DSN)
		if err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("source %s: %w", name, err)
		}
		p.dbs = append(p.dbs, db)
		sources = append(sources, sqldb.New(name, db, spec.Query, spec.Args...))
	}
	sources = append(sources, o.sources...)

	p.Aggregator = source.NewAggregator(sources,
		source.WithLogger(o.logger),
		source.WithConcurrency(q.Concurrency),
	)
	return p, nil
}

// Patterns returns the resolved file globs of the query, for watching.
func (p *Pipeline) Patterns() []string {
	var patterns []string
	for _, spec := range p.Query.Sources {
		if spec.Path != "" {
			patterns = append(patterns, p.resolve(spec.Path))
		}
	}
	return patterns
}

// Run gathers every source and shapes the merged result.
func (p *Pipeline) Run(ctx context.Context) (*core.MultiCollection, error) {
	merged, err := p.Aggregator.Run(ctx)
	if err != nil {
		return nil, err
	}
	if err := Apply(merged, p.Query); err != nil {
		return nil, err
	}

	p.logger.Debug("query finished",
		"items", merged.Count(),
		"errors", len(merged.Errors()),
	)
	return merged, nil
}

// Close releases the database handles opened for SQL sources.
func (p *Pipeline) Close() error {
	var errs []error
	for _, db := range p.dbs {
		errs = append(errs, db.Close())
	}
	p.dbs = nil
	return errors.Join(errs...)
}

func (p *Pipeline) resolve(path string) string {
	if filepath.IsAbs(path) || p.Query.BaseDir == "" {
		return path
	}
	return filepath.Join(p.Query.BaseDir, path)
}

// Apply filters, orders and truncates m as the query describes, in that order.
func Apply(m *core.MultiCollection, q *Query) error {
	for _, f := range q.Filters {
		if _, err := m.Filter(f.Field, f.Value); err != nil {
			return fmt.Errorf("filter %q: %w", f.Field, err)
		}
	}

	if q.Order != nil {
		dir, err := core.ParseDirection(q.Order.Direction)
		if err != nil {
			return err
		}
		if _, err := m.OrderBy(q.Order.Field, dir); err != nil {
			return fmt.Errorf("order %q: %w", q.Order.Field, err)
		}
	}

	if q.Limit > 0 {
		m.Truncate(q.Limit)
	}
	return nil
}

// Run builds a pipeline for q, runs it once and closes it.
func Run(ctx context.Context, q *Query, opts ...Option) (*core.MultiCollection, error) {
	p, err := NewPipeline(ctx, q, opts...)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.Run(ctx)
}
