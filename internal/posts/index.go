// Package posts builds the blog post index from Markdown files in the
// content store.
package posts

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/logger"
	"github.com/aretw0/folio/pkg/typed"
)

// DefaultPrefix is the content store directory holding posts.
const DefaultPrefix = "posts/"

// Recorder receives load counts. *metrics.Metrics satisfies it.
type Recorder interface {
	RecordLoad(kind string, loaded, skipped int)
}

// Config configures an Index.
type Config struct {
	// Prefix selects posts inside the store. Defaults to DefaultPrefix.
	Prefix   string
	Logger   *slog.Logger
	Renderer *Renderer
	Recorder Recorder
	// Now supplies the date of posts without one. Defaults to time.Now.
	Now func() time.Time
}

// Index answers queries over the posts in a content store. It holds no
// state between calls: every query re-reads the store.
type Index struct {
	docs     *typed.Repository[Metadata]
	prefix   string
	renderer *Renderer
	logger   *slog.Logger
	recorder Recorder
	now      func() time.Time
}

// NewIndex creates a post index over repo.
func NewIndex(repo core.Repository, cfg Config) *Index {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Renderer == nil {
		cfg.Renderer = NewRenderer()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Index{
		docs:     typed.NewRepository[Metadata](repo),
		prefix:   cfg.Prefix,
		renderer: cfg.Renderer,
		logger:   logger.WithComponent(cfg.Logger, "posts"),
		recorder: cfg.Recorder,
		now:      cfg.Now,
	}
}

// Load returns every post that decodes, drafts included, in store
// enumeration order, together with the entries that were skipped.
func (i *Index) Load(ctx context.Context) ([]Post, []core.Skipped, error) {
	res, err := i.docs.Scan(ctx, i.prefix)
	if err != nil {
		return nil, nil, err
	}

	now := i.now()
	posts := make([]Post, 0, len(res.Items))
	skipped := res.Skipped
	seen := make(map[string]string, len(res.Items))

	for _, item := range res.Items {
		if item.Ext != ".md" {
			i.logger.Debug("ignoring non-markdown entry", "id", item.ID, "ext", item.Ext)
			continue
		}
		post, err := newPost(item, now)
		if err != nil {
			skipped = append(skipped, core.Skipped{ID: item.ID, Reason: err})
			continue
		}
		if first, dup := seen[post.Slug]; dup {
			skipped = append(skipped, core.Skipped{
				ID:     item.ID,
				Reason: fmt.Errorf("duplicate slug %q: already loaded from %s", post.Slug, first),
			})
			continue
		}
		seen[post.Slug] = item.ID
		posts = append(posts, post)
	}

	for _, s := range skipped {
		i.logger.Warn("skipping post", "id", s.ID, "reason", s.Reason)
	}
	if i.recorder != nil {
		i.recorder.RecordLoad("posts", len(posts), len(skipped))
	}
	return posts, skipped, nil
}

func newPost(item *typed.DocumentModel[Metadata], now time.Time) (Post, error) {
	meta := item.Data
	if meta.Slug == "" {
		meta.Slug = path.Base(item.ID)
	}
	if meta.Title == "" {
		meta.Title = DefaultTitle
	}

	published := now
	if meta.Date == "" {
		meta.Date = now.Format(time.RFC3339)
	} else {
		t, err := ParseDate(meta.Date)
		if err != nil {
			return Post{}, fmt.Errorf("decode %s: %w", item.ID, err)
		}
		published = t
	}

	return Post{
		Metadata:    meta,
		Content:     item.Content,
		Published:   published,
		ReadingTime: ReadingTime(item.Content),
	}, nil
}

// List returns published posts, newest first. Posts sharing a date keep
// store enumeration order. List never fails: a store failure is logged and
// yields an empty list.
func (i *Index) List(ctx context.Context) []Post {
	all, _, err := i.Load(ctx)
	if err != nil {
		i.logger.Error("failed to load posts", "error", err)
		return []Post{}
	}

	posts := make([]Post, 0, len(all))
	for _, p := range all {
		if !p.Draft {
			posts = append(posts, p)
		}
	}
	sort.SliceStable(posts, func(a, b int) bool {
		return posts[a].Published.After(posts[b].Published)
	})
	return posts
}

// Get looks a post up by slug. Drafts are returned too, so they can be
// previewed by direct link.
func (i *Index) Get(ctx context.Context, slug string) (Post, bool) {
	all, _, err := i.Load(ctx)
	if err != nil {
		i.logger.Error("failed to load posts", "error", err)
		return Post{}, false
	}
	for _, p := range all {
		if p.Slug == slug {
			return p, true
		}
	}
	return Post{}, false
}

// RenderHTML returns the HTML body of the post with slug.
func (i *Index) RenderHTML(ctx context.Context, slug string) (string, bool) {
	p, ok := i.Get(ctx, slug)
	if !ok {
		return "", false
	}
	out, err := i.renderer.Render(p.Content)
	if err != nil {
		i.logger.Error("failed to render post", "slug", slug, "error", err)
		return "", false
	}
	return out, true
}

// Render converts a post body to HTML.
func (i *Index) Render(p Post) (string, error) {
	return i.renderer.Render(p.Content)
}

// ByTag returns published posts carrying tag, ignoring case.
func (i *Index) ByTag(ctx context.Context, tag string) []Post {
	var out []Post
	for _, p := range i.List(ctx) {
		if p.HasTag(tag) {
			out = append(out, p)
		}
	}
	return out
}

// TagCount is a tag and the number of published posts using it.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Tags counts tags across published posts, most used first. Tags that
// differ only in case are merged under their first spelling.
func (i *Index) Tags(ctx context.Context) []TagCount {
	index := make(map[string]int)
	var counts []TagCount
	for _, p := range i.List(ctx) {
		for _, t := range p.Tags {
			key := strings.ToLower(t)
			if n, ok := index[key]; ok {
				counts[n].Count++
				continue
			}
			index[key] = len(counts)
			counts = append(counts, TagCount{Name: t, Count: 1})
		}
	}
	sort.SliceStable(counts, func(a, b int) bool {
		if counts[a].Count != counts[b].Count {
			return counts[a].Count > counts[b].Count
		}
		return counts[a].Name < counts[b].Name
	})
	return counts
}

// Neighbors are the posts published just before and just after a post.
type Neighbors struct {
	Previous *Post `json:"previous,omitempty"`
	Next     *Post `json:"next,omitempty"`
}

// Adjacent finds the neighbours of slug in the published list. It reports
// false when slug is not a published post.
func (i *Index) Adjacent(ctx context.Context, slug string) (Neighbors, bool) {
	list := i.List(ctx)
	for n, p := range list {
		if p.Slug != slug {
			continue
		}
		var nb Neighbors
		if n+1 < len(list) {
			prev := list[n+1].Summary()
			nb.Previous = &prev
		}
		if n > 0 {
			next := list[n-1].Summary()
			nb.Next = &next
		}
		return nb, true
	}
	return Neighbors{}, false
}
