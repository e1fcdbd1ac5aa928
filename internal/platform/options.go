package platform

import (
	"io"
	"log/slog"

	"github.com/aretw0/gather/pkg/source"
)

// options holds the internal configuration for a run.
type options struct {
	logger  *slog.Logger
	sources []source.Source
}

// Option defines a functional option for configuring a run.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger sets the logger for the run and every component it builds.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSources adds already constructed sources after the ones the query
// declares (e.g. mocks in tests or clients for remote APIs).
func WithSources(sources ...source.Source) Option {
	return func(o *options) {
		o.sources = append(o.sources, sources...)
	}
}
