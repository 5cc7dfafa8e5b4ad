package typed_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/typed"
)

type Profile struct {
	Name string   `json:"name"`
	Age  int      `json:"age"`
	Tags []string `json:"tags"`
}

func setupRepo(t *testing.T, files map[string]string) core.Repository {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	}

	repo := fs.NewRepository(fs.Config{Path: root})
	require.NoError(t, repo.Initialize(context.Background()))
	return repo
}

func TestRepository_Get(t *testing.T) {
	repo := setupRepo(t, map[string]string{
		"people/alice.md": "---\nname: Alice\nage: 30\ntags: [a, b]\n---\nBio",
	})
	people := typed.NewRepository[Profile](repo)

	alice, err := people.Get(context.Background(), "people/alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", alice.Data.Name)
	assert.Equal(t, 30, alice.Data.Age)
	assert.Equal(t, []string{"a", "b"}, alice.Data.Tags)
	assert.Equal(t, "Bio", alice.Content)
	assert.Equal(t, ".md", alice.Ext)
}

func TestRepository_Scan(t *testing.T) {
	repo := setupRepo(t, map[string]string{
		"people/alice.md": "---\nname: Alice\nage: 30\n---\n",
		"people/bob.md":   "---\nname: Bob\nage: thirty\n---\n",
		"people/carol.md": "---\nname: [broken\n---\n",
	})
	people := typed.NewRepository[Profile](repo)

	res, err := people.Scan(context.Background(), "people/")
	require.NoError(t, err)

	require.Len(t, res.Items, 1)
	assert.Equal(t, "people/alice", res.Items[0].ID)

	require.Len(t, res.Skipped, 2)
	ids := []string{res.Skipped[0].ID, res.Skipped[1].ID}
	assert.ElementsMatch(t, []string{"people/bob", "people/carol"}, ids)
	for _, s := range res.Skipped {
		assert.Error(t, s.Reason)
	}
}

func TestDecode(t *testing.T) {
	doc := core.Document{
		ID:       "x",
		Metadata: core.Metadata{"name": "X", "age": 7},
	}
	model, err := typed.Decode[Profile](doc)
	require.NoError(t, err)
	assert.Equal(t, 7, model.Data.Age)

	doc.Metadata["age"] = "seven"
	_, err = typed.Decode[Profile](doc)
	assert.Error(t, err)
}
