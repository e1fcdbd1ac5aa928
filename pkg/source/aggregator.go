package source

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/introspection"

	"github.com/aretw0/gather/pkg/core"
)

// Aggregator keeps a set of sources and gathers them on demand.
type Aggregator struct {
	mu      sync.RWMutex
	sources []Source
	opts    []Option

	lastRun    *time.Time
	lastItems  int
	lastErrors int
}

// NewAggregator creates an Aggregator over sources.
func NewAggregator(sources []Source, opts ...Option) *Aggregator {
	return &Aggregator{sources: sources, opts: opts}
}

// Register adds sources to the aggregator.
func (a *Aggregator) Register(sources ...Source) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sources = append(a.sources, sources...)
}

// Run gathers all registered sources.
func (a *Aggregator) Run(ctx context.Context) (*core.MultiCollection, error) {
	a.mu.RLock()
	sources := append([]Source(nil), a.sources...)
	a.mu.RUnlock()

	merged, err := Gather(ctx, sources, a.opts...)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	now := time.Now()
	a.lastRun = &now
	a.lastItems = merged.Count()
	a.lastErrors = len(merged.Errors())
	return merged, nil
}

// AggregatorState exposes the aggregator for observability.
type AggregatorState struct {
	Sources    []string   `json:"sources"`
	LastRun    *time.Time `json:"last_run,omitempty"`
	LastItems  int        `json:"last_items"`
	LastErrors int        `json:"last_errors"`
}

// State implements introspection.Introspectable.
func (a *Aggregator) State() any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, 0, len(a.sources))
	for _, s := range a.sources {
		names = append(names, s.Name())
	}

	return AggregatorState{
		Sources:    names,
		LastRun:    a.lastRun,
		LastItems:  a.lastItems,
		LastErrors: a.lastErrors,
	}
}

// ComponentType implements introspection.Component.
func (a *Aggregator) ComponentType() string {
	return "aggregator"
}

var _ introspection.Introspectable = (*Aggregator)(nil)
var _ introspection.Component = (*Aggregator)(nil)
