package gather

import (
	"context"
	"log/slog"

	"github.com/aretw0/gather/internal/platform"
	"github.com/aretw0/gather/pkg/core"
	"github.com/aretw0/gather/pkg/source"
)

// --- Types ---

// Item is a public alias for a result record.
type Item = core.Item

// Collection is a public alias for the core collection.
type Collection = core.Collection

// MultiCollection is a public alias for the aggregate collection.
type MultiCollection = core.MultiCollection

// Source is a public alias for the source contract.
type Source = source.Source

// Query is a public alias for a parsed query file.
type Query = platform.Query

// Direction is a public alias for the sort direction.
type Direction = core.Direction

const (
	Asc  = core.Asc
	Desc = core.Desc
)

// ErrInvalidField is returned by Filter and OrderBy for a missing field.
var ErrInvalidField = core.ErrInvalidField

// --- Configuration ---

// Option defines a functional option for configuring a run.
type Option = platform.Option

// WithLogger sets the logger for the run.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithSources adds custom sources to a run.
func WithSources(sources ...Source) Option {
	return platform.WithSources(sources...)
}

// --- Factory ---

// NewCollection creates a collection holding items.
func NewCollection(items ...Item) *Collection {
	return core.NewCollection(items...)
}

// NewMultiCollection creates an empty aggregate.
func NewMultiCollection() *MultiCollection {
	return core.NewMultiCollection()
}

// NewStatic creates an in-memory source.
func NewStatic(name string, items ...Item) *source.Static {
	return source.NewStatic(name, items...)
}

// --- Operations ---

// LoadQuery reads and validates a YAML query file.
func LoadQuery(path string) (*Query, error) {
	return platform.LoadQuery(path)
}

// Run gathers every source of q and shapes the merged result.
func Run(ctx context.Context, q *Query, opts ...Option) (*MultiCollection, error) {
	return platform.Run(ctx, q, opts...)
}

// Gather queries sources directly and merges their results in order.
func Gather(ctx context.Context, sources ...Source) (*MultiCollection, error) {
	return source.Gather(ctx, sources)
}
