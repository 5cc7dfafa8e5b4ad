package fs_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/folio/pkg/core"
)

func TestWatch(t *testing.T) {
	repo, root := setupRepo(t, map[string]string{
		"posts/a.md": "---\ntitle: A\n---\n",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := repo.Watch(ctx, "posts/*.md")
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	writeFile(t, root, "posts/b.md", "---\ntitle: B\n---\n")
	writeFile(t, root, "notes/ignored.md", "outside pattern")

	timeout := time.After(5 * time.Second)
	for {
		select {
		case e, ok := <-events:
			if !ok {
				t.Fatal("events channel closed early")
			}
			if e.ID == "notes/ignored" {
				t.Fatalf("event outside pattern delivered: %v", e)
			}
			if e.ID == "posts/b" {
				if e.Type != core.EventCreate && e.Type != core.EventModify {
					t.Errorf("unexpected event type %s", e.Type)
				}
				cancel()
				// Channel must close after cancellation.
				for range events {
				}
				return
			}
		case <-timeout:
			t.Fatal("timed out waiting for watch event")
		}
	}
}
