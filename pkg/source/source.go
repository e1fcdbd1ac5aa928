// Package source defines where results come from and how the results of
// several sources are combined into a single core.MultiCollection.
package source

import (
	"context"
	"errors"

	"github.com/aretw0/gather/pkg/core"
)

// Common errors.
var (
	ErrNoSources = errors.New("no sources to query")
)

// Source produces a collection of results.
// A source may return a collection together with an error; both are kept.
type Source interface {
	Name() string
	Query(ctx context.Context) (*core.Collection, error)
}

// Func adapts a function into a Source.
type Func struct {
	ID string
	Fn func(ctx context.Context) (*core.Collection, error)
}

func (f Func) Name() string { return f.ID }

func (f Func) Query(ctx context.Context) (*core.Collection, error) {
	return f.Fn(ctx)
}

// Static serves a fixed set of items and errors. Each query returns a fresh
// copy so callers may mutate the result.
type Static struct {
	name string
	base *core.Collection
}

// NewStatic creates a Static source holding items.
func NewStatic(name string, items ...core.Item) *Static {
	return &Static{name: name, base: core.NewCollection(items...)}
}

// WithError records an error message the source reports on every query.
func (s *Static) WithError(msg string) *Static {
	s.base.AddError(msg)
	return s
}

func (s *Static) Name() string { return s.name }

func (s *Static) Query(ctx context.Context) (*core.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.base.Clone(), nil
}
