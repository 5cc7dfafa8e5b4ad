package posts

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// customTags maps the capitalised component tags authors use in posts to
// their HTML elements.
var customTags = strings.NewReplacer(
	"<Details>", "<details>",
	"<Details ", "<details ",
	"</Details>", "</details>",
	"<Summary>", "<summary>",
	"<Summary ", "<summary ",
	"</Summary>", "</summary>",
)

// NormalizeCustomTags lower-cases <Details> and <Summary> tags. Applying it
// twice gives the same result as applying it once.
func NormalizeCustomTags(markdown string) string {
	return customTags.Replace(markdown)
}

// Renderer converts post Markdown to HTML. Output is not sanitized: post
// content is written by the site owner.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer builds a renderer with tables, strikethrough and heading IDs.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table, extension.Strikethrough),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				gmhtml.WithUnsafe(),
			),
		),
	}
}

// Render normalizes custom tags and converts markdown to HTML.
func (r *Renderer) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(NormalizeCustomTags(markdown)), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
