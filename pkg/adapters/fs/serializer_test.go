package fs

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMarkdownSerializer(t *testing.T) {
	s := NewMarkdownSerializer(false)

	t.Run("Frontmatter And Body", func(t *testing.T) {
		input := "---\ntitle: Test Title\ndate: 2024-01-10\ntags:\n  - a\n  - b\nmeta:\n  foo: bar\n---\nHello World\n"
		doc, err := s.Parse(strings.NewReader(input))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if doc.Metadata["title"] != "Test Title" {
			t.Errorf("title mismatch: %v", doc.Metadata["title"])
		}
		if doc.Metadata["date"] != "2024-01-10" {
			t.Errorf("expected date kept as string, got %T %v", doc.Metadata["date"], doc.Metadata["date"])
		}
		tags, ok := doc.Metadata["tags"].([]any)
		if !ok || len(tags) != 2 {
			t.Errorf("tags mismatch: %#v", doc.Metadata["tags"])
		}
		meta, ok := doc.Metadata["meta"].(map[string]any)
		if !ok || meta["foo"] != "bar" {
			t.Errorf("nested map should decode with string keys, got %#v", doc.Metadata["meta"])
		}
		if strings.TrimSpace(doc.Content) != "Hello World" {
			t.Errorf("content mismatch: %q", doc.Content)
		}
	})

	t.Run("No Frontmatter", func(t *testing.T) {
		doc, err := s.Parse(strings.NewReader("just text"))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if doc.Content != "just text" {
			t.Errorf("content mismatch: %q", doc.Content)
		}
		if len(doc.Metadata) != 0 {
			t.Errorf("expected empty metadata, got %v", doc.Metadata)
		}
	})

	t.Run("Invalid YAML", func(t *testing.T) {
		if _, err := s.Parse(strings.NewReader("---\ntitle: [oops\n---\nbody")); err == nil {
			t.Error("expected error for invalid frontmatter")
		}
	})
}

func TestJSONSerializer(t *testing.T) {
	t.Run("Record With Content", func(t *testing.T) {
		s := NewJSONSerializer(false)
		doc, err := s.Parse(strings.NewReader(`{"id": "1", "content": "body", "teamSize": 3}`))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if doc.Content != "body" {
			t.Errorf("content mismatch: %q", doc.Content)
		}
		if _, ok := doc.Metadata["content"]; ok {
			t.Error("content key should be removed from metadata")
		}
		if doc.Metadata["teamSize"] != 3.0 {
			t.Errorf("expected float64 3, got %T %v", doc.Metadata["teamSize"], doc.Metadata["teamSize"])
		}
	})

	t.Run("Strict Numbers", func(t *testing.T) {
		s := NewJSONSerializer(true)
		doc, err := s.Parse(strings.NewReader(`{"big": 9007199254740993}`))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if doc.Metadata["big"] != json.Number("9007199254740993") {
			t.Errorf("expected json.Number, got %T %v", doc.Metadata["big"], doc.Metadata["big"])
		}
	})

	t.Run("Rejects Non-Object", func(t *testing.T) {
		s := NewJSONSerializer(false)
		if _, err := s.Parse(strings.NewReader(`null`)); err == nil {
			t.Error("expected error for null record")
		}
		if _, err := s.Parse(strings.NewReader(`[1, 2]`)); err == nil {
			t.Error("expected error for array record")
		}
	})
}

func TestYAMLSerializer_Strict(t *testing.T) {
	s := NewYAMLSerializer(true)
	doc, err := s.Parse(strings.NewReader("count: 42\nnested:\n  ratio: 0.5\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if doc.Metadata["count"] != json.Number("42") {
		t.Errorf("expected json.Number 42, got %T %v", doc.Metadata["count"], doc.Metadata["count"])
	}
	nested, ok := doc.Metadata["nested"].(map[string]any)
	if !ok || nested["ratio"] != json.Number("0.5") {
		t.Errorf("unexpected nested value %#v", doc.Metadata["nested"])
	}
}

func TestYAMLSerializer_Timestamps(t *testing.T) {
	s := NewYAMLSerializer(false)
	input := "published: 2024-01-10\nupdated: 2024-01-10T08:30:00Z\nquoted: \"2024-02-01\"\nhistory:\n  - 2023-12-31\n"
	doc, err := s.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	cases := map[string]any{
		"published": "2024-01-10",
		"updated":   "2024-01-10T08:30:00Z",
		"quoted":    "2024-02-01",
	}
	for key, want := range cases {
		if got := doc.Metadata[key]; got != want {
			t.Errorf("%s: expected %v, got %T %v", key, want, got, got)
		}
	}
	history, ok := doc.Metadata["history"].([]any)
	if !ok || len(history) != 1 || history[0] != "2023-12-31" {
		t.Errorf("unexpected history %#v", doc.Metadata["history"])
	}
}
