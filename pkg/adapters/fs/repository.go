package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/folio/pkg/core"
)

// Repository implements core.Repository over a directory of content files.
// It never writes to the directory.
type Repository struct {
	Path        string
	config      Config
	serializers map[string]Serializer
	extensions  []string
	cache       *cache

	mu            sync.RWMutex
	watcherActive bool
	lastScan      *time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path      string
	MustExist bool
	Strict    bool
	Logger    *slog.Logger
	// Include restricts the store to files whose slash-separated relative path
	// matches at least one doublestar pattern (e.g. "posts/*.md"). Empty means all.
	Include []string
	// CacheSize bounds the parse cache. Zero uses DefaultCacheSize, negative disables it.
	CacheSize int
	// Serializers overrides or extends the per-extension parsers.
	Serializers map[string]Serializer
	// ErrorHandler receives runtime watcher failures.
	ErrorHandler func(error)
}

// extensionPriority decides which file wins when several share an ID.
var extensionPriority = []string{".md", ".json", ".yaml", ".yml"}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	serializers := DefaultSerializers(config.Strict)
	for ext, s := range config.Serializers {
		serializers[ext] = s
	}

	size := config.CacheSize
	if size == 0 {
		size = DefaultCacheSize
	}

	return &Repository{
		Path:        config.Path,
		config:      config,
		serializers: serializers,
		extensions:  orderExtensions(serializers),
		cache:       newCache(size),
	}
}

func orderExtensions(serializers map[string]Serializer) []string {
	var exts []string
	seen := make(map[string]bool)
	for _, ext := range extensionPriority {
		if _, ok := serializers[ext]; ok {
			exts = append(exts, ext)
			seen[ext] = true
		}
	}
	var extra []string
	for ext := range serializers {
		if !seen[ext] {
			extra = append(extra, ext)
		}
	}
	sort.Strings(extra)
	return append(exts, extra...)
}

// Initialize validates the content directory and the include patterns.
func (r *Repository) Initialize(ctx context.Context) error {
	for _, pattern := range r.config.Include {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}

	info, err := os.Stat(r.Path)
	if os.IsNotExist(err) {
		if r.config.MustExist {
			return fmt.Errorf("content path does not exist: %s", r.Path)
		}
		r.config.Logger.Warn("content path does not exist, store is empty", "path", r.Path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat content path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("content path is not a directory: %s", r.Path)
	}
	return nil
}

// Get retrieves a document by ID, trying each known extension in priority order.
func (r *Repository) Get(ctx context.Context, id string) (core.Document, error) {
	if err := core.ValidateID(id); err != nil {
		return core.Document{}, err
	}

	// IDs may carry their extension explicitly (e.g. "projects/robot.json").
	if ext := filepath.Ext(id); ext != "" {
		if _, ok := r.serializers[ext]; ok {
			return r.load(strings.TrimSuffix(id, ext), ext)
		}
	}

	for _, ext := range r.extensions {
		doc, err := r.load(id, ext)
		if errors.Is(err, core.ErrNotFound) {
			continue
		}
		return doc, err
	}
	return core.Document{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
}

// List returns all parseable documents. Skipped entries are logged.
func (r *Repository) List(ctx context.Context) ([]core.Document, error) {
	res, err := r.Scan(ctx, "")
	if err != nil {
		return nil, err
	}
	return res.Documents, nil
}

// Scan walks the directory in lexical order and folds every candidate file into
// either a parsed Document or a Skipped entry. Only a failure to read the root
// itself is returned as an error.
//
// Workflow:
//  1. Walk the tree, skipping hidden directories.
//  2. Keep files with a registered extension whose ID matches prefix and Include.
//  3. Serve fresh cache hits; parse misses and cache them.
//  4. Record duplicates and parse failures as Skipped.
func (r *Repository) Scan(ctx context.Context, prefix string) (core.ScanResult, error) {
	var res core.ScanResult
	seen := make(map[string]string)

	if _, err := os.Stat(r.Path); os.IsNotExist(err) && !r.config.MustExist {
		return res, nil
	}

	err := filepath.WalkDir(r.Path, func(path string, d os.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == r.Path {
				return walkErr
			}
			res.Skipped = append(res.Skipped, core.Skipped{ID: r.relID(path), Reason: walkErr})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != r.Path && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(d.Name())
		if _, ok := r.serializers[ext]; !ok {
			return nil
		}

		relPath, err := filepath.Rel(r.Path, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)
		id := strings.TrimSuffix(relPath, ext)

		if prefix != "" && !strings.HasPrefix(id, prefix) {
			return nil
		}
		if !r.included(relPath) {
			return nil
		}

		if first, dup := seen[id]; dup {
			res.Skipped = append(res.Skipped, core.Skipped{
				ID:     id,
				Reason: fmt.Errorf("duplicate id: %s already loaded from %s", relPath, first),
			})
			return nil
		}

		doc, err := r.load(id, ext)
		if err != nil {
			res.Skipped = append(res.Skipped, core.Skipped{ID: id, Reason: err})
			return nil
		}
		seen[id] = relPath
		res.Documents = append(res.Documents, doc)
		return nil
	})
	if err != nil {
		return core.ScanResult{}, fmt.Errorf("failed to scan %s: %w", r.Path, err)
	}

	for _, s := range res.Skipped {
		r.config.Logger.Debug("skipping document", "id", s.ID, "reason", s.Reason)
	}

	now := time.Now()
	r.mu.Lock()
	r.lastScan = &now
	r.mu.Unlock()

	return res, nil
}

// Invalidate drops cached parses for id under every extension.
func (r *Repository) Invalidate(id string) {
	for _, ext := range r.extensions {
		r.cache.Delete(id + ext)
	}
}

// load reads and parses a single file, consulting the cache first.
func (r *Repository) load(id, ext string) (core.Document, error) {
	relPath := id + ext
	fullPath := filepath.Join(r.Path, filepath.FromSlash(relPath))

	f, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return core.Document{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
		}
		return core.Document{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return core.Document{}, err
	}
	if info.IsDir() {
		return core.Document{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}

	if doc, hit := r.cache.Get(relPath, info.ModTime(), info.Size()); hit {
		return doc, nil
	}

	doc, err := r.serializers[ext].Parse(f)
	if err != nil {
		return core.Document{}, fmt.Errorf("failed to parse document %s: %w", relPath, err)
	}
	doc.ID = id
	doc.Ext = ext
	if doc.Metadata == nil {
		doc.Metadata = make(core.Metadata)
	}

	r.cache.Set(relPath, *doc, info.ModTime(), info.Size())
	return *doc, nil
}

func (r *Repository) included(relPath string) bool {
	if len(r.config.Include) == 0 {
		return true
	}
	for _, pattern := range r.config.Include {
		if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
			return true
		}
	}
	return false
}

// relID converts an absolute path into a store-relative ID for reporting.
func (r *Repository) relID(path string) string {
	rel, err := filepath.Rel(r.Path, path)
	if err != nil {
		return path
	}
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, filepath.Ext(rel))
}
