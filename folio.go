package folio

import (
	"context"
	"log/slog"

	"github.com/aretw0/folio/internal/platform"
	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/typed"
)

// --- Types ---

// DocumentModel is a public alias for the typed document model.
type DocumentModel[T any] = typed.DocumentModel[T]

// TypedRepository is a public alias for the typed repository.
type TypedRepository[T any] = typed.Repository[T]

// TypedResult is a public alias for the outcome of a typed scan.
type TypedResult[T any] = typed.Result[T]

// --- Configuration ---

// Option defines a functional option for configuring the content service.
type Option = platform.Option

// WithMustExist ensures the content directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAdapter allows specifying the storage adapter to use by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithStrict decodes numbers as json.Number to keep large integers exact.
func WithStrict(strict bool) Option {
	return platform.WithStrict(strict)
}

// WithInclude restricts the store to paths matching the doublestar patterns.
func WithInclude(patterns ...string) Option {
	return platform.WithInclude(patterns...)
}

// WithCacheSize bounds the parse cache.
func WithCacheSize(size int) Option {
	return platform.WithCacheSize(size)
}

// WithSerializer registers a parser for a file extension.
func WithSerializer(ext string, s fs.Serializer) Option {
	return platform.WithSerializer(ext, s)
}

// WithWatcherErrorHandler receives errors raised by the watch loop.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New creates a content Service reading from path.
func New(ctx context.Context, path string, opts ...Option) (*core.Service, error) {
	return platform.New(ctx, path, opts...)
}

// NewTyped creates a type-safe repository wrapper.
// T is the struct the document metadata decodes into.
func NewTyped[T any](repo core.Repository) *TypedRepository[T] {
	return typed.NewRepository[T](repo)
}

// FindRoot walks upwards from dir looking for folio.yaml or .git.
func FindRoot(dir string) (string, error) {
	return platform.FindRoot(dir)
}
