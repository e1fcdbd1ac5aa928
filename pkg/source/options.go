package source

import (
	"io"
	"log/slog"
)

// options holds the configuration for Gather.
type options struct {
	logger      *slog.Logger
	concurrency int
	failFast    bool
}

// Option configures Gather and Aggregator.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		concurrency: 0,
	}
}

// WithLogger sets the logger used to report per-source progress.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithConcurrency bounds how many sources are queried at once.
// Zero or a negative value means no bound.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithFailFast makes Gather return the first query error instead of
// recording it on the merged collection.
func WithFailFast(enabled bool) Option {
	return func(o *options) {
		o.failFast = enabled
	}
}
