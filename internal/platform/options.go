package platform

import (
	"log/slog"

	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/core"
)

// options holds the internal configuration for the content service.
type options struct {
	repository   core.Repository
	logger       *slog.Logger
	adapter      string
	mustExist    bool
	strict       bool
	include      []string
	cacheSize    int
	serializers  map[string]fs.Serializer
	errorHandler func(error)
}

// Option defines a functional option for configuring the content service.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		adapter:     "fs",
		serializers: make(map[string]fs.Serializer),
	}
}

// WithSerializer registers a custom serializer for a specific extension.
func WithSerializer(ext string, s fs.Serializer) Option {
	return func(o *options) {
		o.serializers[ext] = s
	}
}

// WithMustExist makes Init fail when the content directory is missing.
// Without it a missing directory is treated as empty.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository allows injecting a custom storage adapter (e.g. a mock).
// If provided, the default filesystem adapter will be skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAdapter selects the storage adapter by name. Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithStrict makes the default serializers decode numbers as json.Number.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithInclude restricts the store to paths matching any of the patterns.
func WithInclude(patterns ...string) Option {
	return func(o *options) {
		o.include = append(o.include, patterns...)
	}
}

// WithCacheSize bounds the parse cache. Negative disables it.
func WithCacheSize(size int) Option {
	return func(o *options) {
		o.cacheSize = size
	}
}

// WithWatcherErrorHandler registers a callback for errors raised inside the
// watch loop, which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
