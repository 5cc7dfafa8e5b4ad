package platform

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/core"
)

// Init builds and initializes the repository selected by opts.
// The uri argument is adapter-specific (a directory for "fs").
func Init(ctx context.Context, uri string, opts ...Option) (core.Repository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if o.repository != nil {
		return o.repository, nil
	}

	var repo core.Repository
	switch o.adapter {
	case "fs":
		repo = initFS(uri, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}

	if err := repo.Initialize(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func initFS(path string, o *options) core.Repository {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return fs.NewRepository(fs.Config{
		Path:         path,
		MustExist:    o.mustExist,
		Strict:       o.strict,
		Logger:       o.logger,
		Include:      o.include,
		CacheSize:    o.cacheSize,
		Serializers:  o.serializers,
		ErrorHandler: o.errorHandler,
	})
}

// New creates a content Service over the repository at uri.
//
//	svc, err := platform.New(ctx, "./content", platform.WithStrict(true))
func New(ctx context.Context, uri string, opts ...Option) (*core.Service, error) {
	repo, err := Init(ctx, uri, opts...)
	if err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	return core.NewService(repo, logger), nil
}
