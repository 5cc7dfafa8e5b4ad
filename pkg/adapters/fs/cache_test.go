package fs

import (
	"testing"
	"time"

	"github.com/aretw0/folio/pkg/core"
)

func TestCache(t *testing.T) {
	mtime := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	doc := core.Document{ID: "posts/a", Metadata: core.Metadata{"title": "A"}}

	t.Run("Hit When Fresh", func(t *testing.T) {
		c := newCache(4)
		c.Set("posts/a.md", doc, mtime, 10)

		got, ok := c.Get("posts/a.md", mtime, 10)
		if !ok {
			t.Fatal("expected cache hit")
		}
		if got.Metadata["title"] != "A" {
			t.Errorf("unexpected metadata %v", got.Metadata)
		}
	})

	t.Run("Miss When Stale", func(t *testing.T) {
		c := newCache(4)
		c.Set("posts/a.md", doc, mtime, 10)

		if _, ok := c.Get("posts/a.md", mtime.Add(time.Second), 10); ok {
			t.Error("expected miss on newer mtime")
		}
		if c.Len() != 0 {
			t.Errorf("stale entry should be evicted, len=%d", c.Len())
		}
	})

	t.Run("Miss When Size Changes", func(t *testing.T) {
		c := newCache(4)
		c.Set("posts/a.md", doc, mtime, 10)
		if _, ok := c.Get("posts/a.md", mtime, 11); ok {
			t.Error("expected miss on size change")
		}
	})

	t.Run("Evicts Least Recently Used", func(t *testing.T) {
		c := newCache(2)
		c.Set("a", doc, mtime, 1)
		c.Set("b", doc, mtime, 1)
		c.Get("a", mtime, 1)
		c.Set("c", doc, mtime, 1)

		if _, ok := c.Get("b", mtime, 1); ok {
			t.Error("expected b to be evicted")
		}
		if _, ok := c.Get("a", mtime, 1); !ok {
			t.Error("expected a to survive")
		}
	})

	t.Run("Disabled", func(t *testing.T) {
		c := newCache(-1)
		c.Set("a", doc, mtime, 1)
		if _, ok := c.Get("a", mtime, 1); ok {
			t.Error("disabled cache should never hit")
		}
		if c.Len() != 0 {
			t.Errorf("disabled cache len = %d", c.Len())
		}
	})
}
