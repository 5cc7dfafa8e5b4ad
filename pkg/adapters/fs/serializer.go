package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/folio/pkg/core"
)

// Serializer defines how to read a specific file format into a Document.
type Serializer interface {
	// Parse reads from r and returns a Document without ID.
	Parse(r io.Reader) (*core.Document, error)
}

// DefaultSerializers returns the standard set of serializers.
func DefaultSerializers(strict bool) map[string]Serializer {
	return map[string]Serializer{
		".md":   NewMarkdownSerializer(strict),
		".json": NewJSONSerializer(strict),
		".yaml": NewYAMLSerializer(strict),
		".yml":  NewYAMLSerializer(strict),
	}
}

// --- JSON Serializer ---

// JSONSerializer handles JSON records. The whole object becomes Metadata;
// a top-level string "content" key, if present, becomes the body.
type JSONSerializer struct {
	// Strict enables strict number parsing (as json.Number) to avoid precision loss.
	Strict bool
}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer(strict bool) *JSONSerializer {
	return &JSONSerializer{Strict: strict}
}

func (s *JSONSerializer) Parse(r io.Reader) (*core.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	decoder := json.NewDecoder(bytes.NewReader(data))
	if s.Strict {
		decoder.UseNumber()
	}
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if payload == nil {
		return nil, fmt.Errorf("invalid json: top-level value is not an object")
	}

	doc := &core.Document{Metadata: core.Metadata(payload)}
	if c, ok := payload["content"].(string); ok {
		doc.Content = c
		delete(doc.Metadata, "content")
	}
	return doc, nil
}

// --- YAML Serializer ---

type YAMLSerializer struct {
	// Strict enables strict number parsing (as json.Number) to avoid precision loss.
	Strict bool
}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer(strict bool) *YAMLSerializer {
	return &YAMLSerializer{Strict: strict}
}

func (s *YAMLSerializer) Parse(r io.Reader) (*core.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}

	doc := &core.Document{Metadata: make(core.Metadata)}
	for k, v := range payload {
		doc.Metadata[k] = timestampsToText(v)
	}
	if c, ok := payload["content"].(string); ok {
		doc.Content = c
		delete(doc.Metadata, "content")
	}

	if s.Strict {
		doc.Metadata = recursiveNormalize(doc.Metadata).(core.Metadata)
	}
	return doc, nil
}

// --- Markdown Serializer ---

// yamlFrontmatter delimits a YAML header with "---" and decodes it with yaml.v3,
// so nested maps come back keyed by string.
var yamlFrontmatter = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

type MarkdownSerializer struct {
	// Strict enables strict number parsing (as json.Number) to avoid precision loss.
	Strict bool
}

// NewMarkdownSerializer creates a new Markdown serializer.
func NewMarkdownSerializer(strict bool) *MarkdownSerializer {
	return &MarkdownSerializer{Strict: strict}
}

// Parse splits the front-matter header from the Markdown body.
// A file without a header is returned as pure content with empty Metadata.
func (s *MarkdownSerializer) Parse(r io.Reader) (*core.Document, error) {
	meta := make(map[string]any)
	body, err := frontmatter.Parse(r, &meta, yamlFrontmatter)
	if err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	doc := &core.Document{Metadata: make(core.Metadata, len(meta))}
	for k, v := range meta {
		doc.Metadata[k] = timestampsToText(v)
	}

	content := strings.TrimPrefix(string(body), "\r\n")
	doc.Content = strings.TrimPrefix(content, "\n")

	if s.Strict {
		doc.Metadata = recursiveNormalize(doc.Metadata).(core.Metadata)
	}
	return doc, nil
}

// --- Helpers ---

// timestampsToText turns the time.Time values yaml.v3 produces for unquoted
// dates back into text: "2006-01-02" for a bare date, RFC 3339 otherwise.
func timestampsToText(val any) any {
	switch v := val.(type) {
	case time.Time:
		if v.Location() == time.UTC && v.Equal(v.Truncate(24*time.Hour)) {
			return v.Format(time.DateOnly)
		}
		return v.Format(time.RFC3339Nano)
	case map[string]any:
		for k, val := range v {
			v[k] = timestampsToText(val)
		}
		return v
	case []any:
		for i, val := range v {
			v[i] = timestampsToText(val)
		}
		return v
	default:
		return v
	}
}

// recursiveNormalize traverses the map/slice and converts numeric types to json.Number.
// This ensures consistency with JSON Strict mode.
func recursiveNormalize(val any) any {
	switch v := val.(type) {
	case core.Metadata:
		m := make(core.Metadata, len(v))
		for k, val := range v {
			m[k] = recursiveNormalize(val)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[k] = recursiveNormalize(val)
		}
		return m
	case []any:
		l := make([]any, len(v))
		for i, val := range v {
			l[i] = recursiveNormalize(val)
		}
		return l
	case int:
		return json.Number(fmt.Sprintf("%d", v))
	case int64:
		return json.Number(fmt.Sprintf("%d", v))
	case int32:
		return json.Number(fmt.Sprintf("%d", v))
	case float64:
		return json.Number(fmt.Sprintf("%v", v))
	default:
		return v
	}
}
