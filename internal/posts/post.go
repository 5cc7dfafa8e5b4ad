package posts

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Metadata is the front-matter of a post.
type Metadata struct {
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Slug        string   `json:"slug"`
	Excerpt     string   `json:"excerpt,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Draft       bool     `json:"draft,omitempty"`
	Author      string   `json:"author,omitempty"`
	Categories  []string `json:"categories,omitempty"`
}

// Post is a post with its raw Markdown body.
type Post struct {
	Metadata
	Content     string    `json:"content,omitempty"`
	Published   time.Time `json:"published"`
	ReadingTime int       `json:"readingTime"`
}

// Summary drops the body, for listings.
func (p Post) Summary() Post {
	p.Content = ""
	return p
}

// HasTag reports whether the post carries tag, ignoring case.
func (p Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// DefaultTitle is used when the front-matter has no title.
const DefaultTitle = "Untitled"

const wordsPerMinute = 200

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate accepts RFC 3339 timestamps and plain ISO dates.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// ReadingTime estimates minutes to read markdown, never less than one.
func ReadingTime(markdown string) int {
	words := len(strings.Fields(markdown))
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}
