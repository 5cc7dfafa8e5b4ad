package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/folio/pkg/core"
)

// watchDebounce is the quiet period before a burst of edits is reported.
const watchDebounce = 50 * time.Millisecond

// Watch observes the content directory and emits an event per changed document.
// Cached parses of changed files are dropped before the event is delivered.
// The returned channel is closed when ctx is done.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern: %s", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := r.recursiveAdd(watcher, r.Path); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	events := make(chan core.Event)
	deb := newDebouncer(watchDebounce)
	r.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer func() {
			deb.stop()
			_ = watcher.Close()
			r.setWatcherActive(false)
			close(events)
		}()
		return r.watchLoop(ctx, watcher, deb, pattern, events)
	}, lifecycle.WithErrorHandler(func(err error) {
		r.reportWatchError(fmt.Errorf("watcher panic: %w", err))
	}))

	return events, nil
}

func (r *Repository) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, deb *debouncer, pattern string, events chan<- core.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case batch := <-deb.output:
			for _, e := range batch {
				select {
				case events <- e:
				case <-ctx.Done():
					return nil
				}
			}

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			r.config.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())

			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := r.recursiveAdd(watcher, event.Name); err != nil {
					r.reportWatchError(err)
				}
				continue
			}

			e, ok := r.mapEvent(event, pattern)
			if !ok {
				continue
			}
			r.Invalidate(e.ID)
			deb.add(e)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.handleWatchError(err)
		}
	}
}

// mapEvent filters a raw fsnotify event down to a document event.
func (r *Repository) mapEvent(event fsnotify.Event, pattern string) (core.Event, bool) {
	rel, err := filepath.Rel(r.Path, event.Name)
	if err != nil {
		return core.Event{}, false
	}
	rel = filepath.ToSlash(rel)
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") {
			return core.Event{}, false
		}
	}

	ext := filepath.Ext(rel)
	if _, ok := r.serializers[ext]; !ok {
		return core.Event{}, false
	}
	if !r.included(rel) {
		return core.Event{}, false
	}
	if pattern != "" {
		if ok, err := doublestar.Match(pattern, rel); err != nil || !ok {
			return core.Event{}, false
		}
	}

	var t core.EventType
	switch {
	case event.Has(fsnotify.Create):
		t = core.EventCreate
	case event.Has(fsnotify.Write):
		t = core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		t = core.EventDelete
	default:
		return core.Event{}, false
	}

	return core.Event{
		Type:      t,
		ID:        strings.TrimSuffix(rel, ext),
		Timestamp: time.Now().Unix(),
	}, true
}

// recursiveAdd registers root and every non-hidden directory below it.
func (r *Repository) recursiveAdd(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != r.Path && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// handleWatchError reports err. An event queue overflow means changes were
// lost, so every cached parse is dropped.
func (r *Repository) handleWatchError(err error) {
	if errors.Is(err, fsnotify.ErrEventOverflow) {
		r.cache.Purge()
	}
	r.reportWatchError(err)
}

func (r *Repository) reportWatchError(err error) {
	r.config.Logger.Error("watcher error", "error", err)
	if r.config.ErrorHandler != nil {
		r.config.ErrorHandler(err)
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
