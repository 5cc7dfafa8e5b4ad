package posts_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/folio/internal/posts"
	"github.com/aretw0/folio/pkg/adapters/fs"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newIndex(t *testing.T, files map[string]string) (*posts.Index, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	for rel, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	repo := fs.NewRepository(fs.Config{Path: dir, Logger: logger})
	require.NoError(t, repo.Initialize(context.Background()))

	return posts.NewIndex(repo, posts.Config{
		Logger: logger,
		Now:    func() time.Time { return fixedNow },
	}), &logs
}

func slugs(list []posts.Post) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		out = append(out, p.Slug)
	}
	return out
}

func TestList_ExcludesDraftsNewestFirst(t *testing.T) {
	idx, _ := newIndex(t, map[string]string{
		"posts/older.md": "---\ntitle: Older\ndate: 2024-01-10\n---\nbody\n",
		"posts/newer.md": "---\ntitle: Newer\ndate: 2024-01-15\n---\nbody\n",
		"posts/draft.md": "---\ntitle: Draft\ndate: 2024-02-01\ndraft: true\n---\nwip\n",
	})

	list := idx.List(context.Background())
	assert.Equal(t, []string{"newer", "older"}, slugs(list))
	assert.Equal(t, "2024-01-15", list[0].Date)

	for n := 1; n < len(list); n++ {
		assert.False(t, list[n].Published.After(list[n-1].Published))
	}
}

func TestList_Defaults(t *testing.T) {
	idx, _ := newIndex(t, map[string]string{
		"posts/bare.md": "just text\n",
	})

	list := idx.List(context.Background())
	require.Len(t, list, 1)
	assert.Equal(t, posts.DefaultTitle, list[0].Title)
	assert.Equal(t, fixedNow, list[0].Published)
	assert.Equal(t, fixedNow.Format(time.RFC3339), list[0].Date)
	assert.Equal(t, 1, list[0].ReadingTime)
}

func TestList_TiesKeepEnumerationOrder(t *testing.T) {
	idx, _ := newIndex(t, map[string]string{
		"posts/b.md": "---\ndate: 2024-05-01\n---\n",
		"posts/a.md": "---\ndate: 2024-05-01\n---\n",
		"posts/c.md": "---\ndate: 2024-05-01\n---\n",
	})

	assert.Equal(t, []string{"a", "b", "c"}, slugs(idx.List(context.Background())))
}

func TestList_SkipsInvalidEntries(t *testing.T) {
	idx, logs := newIndex(t, map[string]string{
		"posts/good.md":     "---\ntitle: Good\ndate: 2024-01-01\n---\n",
		"posts/bad-tags.md": "---\ntitle: Bad\ntags: 42\n---\n",
		"posts/bad-date.md": "---\ntitle: Bad\ndate: someday\n---\n",
	})

	all, skipped, err := idx.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"good"}, slugs(all))
	assert.Len(t, skipped, 2)
	assert.Contains(t, logs.String(), "skipping post")
	assert.Contains(t, logs.String(), "posts/bad-date")
}

func TestList_DuplicateSlug(t *testing.T) {
	idx, _ := newIndex(t, map[string]string{
		"posts/2024/hello.md": "---\ntitle: First\n---\n",
		"posts/hello.md":      "---\ntitle: Second\n---\n",
	})

	all, skipped, err := idx.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "First", all[0].Title)
	require.Len(t, skipped, 1)
	assert.Equal(t, "posts/hello", skipped[0].ID)
}

func TestList_MissingDirectory(t *testing.T) {
	repo := fs.NewRepository(fs.Config{Path: filepath.Join(t.TempDir(), "nope")})
	idx := posts.NewIndex(repo, posts.Config{})

	list := idx.List(context.Background())
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestGet(t *testing.T) {
	idx, _ := newIndex(t, map[string]string{
		"posts/hello.md":   "---\ntitle: Hello\ndate: 2024-01-01\n---\n# Hi\n",
		"posts/preview.md": "---\ntitle: Preview\ndraft: true\n---\n",
		"posts/broken.md":  "---\ntitle: [unclosed\n---\n",
	})
	ctx := context.Background()

	p, ok := idx.Get(ctx, "hello")
	require.True(t, ok)
	assert.Equal(t, "Hello", p.Title)
	assert.Equal(t, "# Hi\n", p.Content)

	p, ok = idx.Get(ctx, "preview")
	require.True(t, ok)
	assert.True(t, p.Draft)

	_, ok = idx.Get(ctx, "missing")
	assert.False(t, ok)

	_, ok = idx.Get(ctx, "broken")
	assert.False(t, ok)
}

func TestRenderHTML(t *testing.T) {
	body := strings.Join([]string{
		"## Setup",
		"",
		"| a | b |",
		"|---|---|",
		"| 1 | 2 |",
		"",
		"~~old~~",
		"",
		"<Details>",
		"<Summary>More</Summary>",
		"",
		"hidden",
		"",
		"</Details>",
		"",
	}, "\n")
	idx, _ := newIndex(t, map[string]string{
		"posts/rich.md": "---\ntitle: Rich\n---\n" + body,
	})

	html, ok := idx.RenderHTML(context.Background(), "rich")
	require.True(t, ok)
	assert.Contains(t, html, `<h2 id="setup">Setup</h2>`)
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<del>old</del>")
	assert.Contains(t, html, "<details>")
	assert.Contains(t, html, "<summary>More</summary>")
	assert.Contains(t, html, "</details>")
	assert.NotContains(t, html, "Details>")

	_, ok = idx.RenderHTML(context.Background(), "missing")
	assert.False(t, ok)
}

func TestTagsAndAdjacent(t *testing.T) {
	idx, _ := newIndex(t, map[string]string{
		"posts/one.md":   "---\ndate: 2024-01-01\ntags: [go, web]\n---\n",
		"posts/two.md":   "---\ndate: 2024-02-01\ntags: [Go]\n---\n",
		"posts/three.md": "---\ndate: 2024-03-01\ntags: [rust]\n---\n",
		"posts/draft.md": "---\ndate: 2024-04-01\ntags: [go]\ndraft: true\n---\n",
	})
	ctx := context.Background()

	assert.Equal(t, []string{"two", "one"}, slugs(idx.ByTag(ctx, "GO")))

	tags := idx.Tags(ctx)
	require.NotEmpty(t, tags)
	assert.Equal(t, posts.TagCount{Name: "Go", Count: 2}, tags[0])
	assert.Len(t, tags, 3)

	nb, ok := idx.Adjacent(ctx, "two")
	require.True(t, ok)
	require.NotNil(t, nb.Previous)
	require.NotNil(t, nb.Next)
	assert.Equal(t, "one", nb.Previous.Slug)
	assert.Equal(t, "three", nb.Next.Slug)

	nb, ok = idx.Adjacent(ctx, "three")
	require.True(t, ok)
	assert.Nil(t, nb.Next)

	_, ok = idx.Adjacent(ctx, "draft")
	assert.False(t, ok)
}
