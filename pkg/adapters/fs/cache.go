package fs

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aretw0/folio/pkg/core"
)

// DefaultCacheSize is the number of parsed documents kept in memory.
const DefaultCacheSize = 512

// cacheEntry is a parsed document pinned to the file stat it was parsed from.
type cacheEntry struct {
	Document     core.Document
	LastModified time.Time
	Size         int64
}

// cache keeps parsed documents keyed by relative path (e.g. "posts/foo.md").
// Entries are only served while the file's mtime and size are unchanged, so
// out-of-band edits are always picked up on the next read.
type cache struct {
	entries *lru.Cache[string, cacheEntry]
}

// newCache creates a cache holding at most size entries. A size <= 0 disables caching.
func newCache(size int) *cache {
	if size <= 0 {
		return &cache{}
	}
	entries, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return &cache{}
	}
	return &cache{entries: entries}
}

// Get retrieves an entry if it exists and is fresh.
func (c *cache) Get(relPath string, mtime time.Time, size int64) (core.Document, bool) {
	if c.entries == nil {
		return core.Document{}, false
	}
	entry, ok := c.entries.Get(relPath)
	if !ok {
		return core.Document{}, false
	}
	if !entry.LastModified.Equal(mtime) || entry.Size != size {
		c.entries.Remove(relPath)
		return core.Document{}, false
	}
	return cloneDocument(entry.Document), true
}

// Set stores a parsed document.
func (c *cache) Set(relPath string, doc core.Document, mtime time.Time, size int64) {
	if c.entries == nil {
		return
	}
	c.entries.Add(relPath, cacheEntry{
		Document:     cloneDocument(doc),
		LastModified: mtime,
		Size:         size,
	})
}

// Delete removes a single entry from the cache.
func (c *cache) Delete(relPath string) {
	if c.entries == nil {
		return
	}
	c.entries.Remove(relPath)
}

// Purge drops every entry.
func (c *cache) Purge() {
	if c.entries == nil {
		return
	}
	c.entries.Purge()
}

// Len returns the number of entries in the cache.
func (c *cache) Len() int {
	if c.entries == nil {
		return 0
	}
	return c.entries.Len()
}

// cloneDocument copies the top-level metadata map so callers cannot mutate cached state.
func cloneDocument(doc core.Document) core.Document {
	meta := make(core.Metadata, len(doc.Metadata))
	for k, v := range doc.Metadata {
		meta[k] = v
	}
	doc.Metadata = meta
	return doc
}
