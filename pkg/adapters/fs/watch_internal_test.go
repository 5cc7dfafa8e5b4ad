package fs

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/folio/pkg/core"
)

func TestHandleWatchError(t *testing.T) {
	var reported []error
	repo := NewRepository(Config{
		Path:         t.TempDir(),
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		ErrorHandler: func(err error) { reported = append(reported, err) },
	})
	mtime := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	repo.cache.Set("posts/a.md", core.Document{ID: "posts/a"}, mtime, 10)

	repo.handleWatchError(errors.New("transient"))
	if repo.cache.Len() != 1 {
		t.Fatalf("expected cache to survive an ordinary error, got %d entries", repo.cache.Len())
	}

	repo.handleWatchError(fmt.Errorf("inotify: %w", fsnotify.ErrEventOverflow))
	if repo.cache.Len() != 0 {
		t.Errorf("expected cache to be purged after overflow, got %d entries", repo.cache.Len())
	}
	if len(reported) != 2 {
		t.Errorf("expected both errors to reach the handler, got %d", len(reported))
	}
}
