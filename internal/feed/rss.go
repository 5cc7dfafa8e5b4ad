// Package feed renders the post index as an RSS 2.0 document.
package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/folio/internal/posts"
)

// ContentType is the media type served for the feed.
const ContentType = "application/xml; charset=utf-8"

// Path is where the feed is served, relative to the site base URL.
const Path = "/feed.xml"

// Site describes the channel.
type Site struct {
	Title       string
	BaseURL     string
	Description string
	Language    string
}

// RenderFunc converts a post body to HTML.
type RenderFunc func(posts.Post) (string, error)

type rss struct {
	XMLName   xml.Name `xml:"rss"`
	Version   string   `xml:"version,attr"`
	AtomNS    string   `xml:"xmlns:atom,attr"`
	ContentNS string   `xml:"xmlns:content,attr"`
	Channel   channel  `xml:"channel"`
}

type channel struct {
	Title         string   `xml:"title"`
	Link          string   `xml:"link"`
	Description   string   `xml:"description"`
	Language      string   `xml:"language,omitempty"`
	LastBuildDate string   `xml:"lastBuildDate,omitempty"`
	AtomLink      atomLink `xml:"atom:link"`
	Items         []item   `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type item struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	GUID        guid     `xml:"guid"`
	PubDate     string   `xml:"pubDate"`
	Description string   `xml:"description,omitempty"`
	Content     cdata    `xml:"content:encoded"`
	Categories  []string `xml:"category"`
}

type guid struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type cdata struct {
	Value string `xml:",cdata"`
}

// Build renders list as an RSS 2.0 document. Items keep the order of list.
// The channel lastBuildDate is the newest publish date; an empty list
// produces a channel with no items. Item categories come from the post's
// categories, or its tags when it has none.
func Build(site Site, list []posts.Post, render RenderFunc) ([]byte, error) {
	base := strings.TrimRight(site.BaseURL, "/")

	doc := rss{
		Version:   "2.0",
		AtomNS:    "http://www.w3.org/2005/Atom",
		ContentNS: "http://purl.org/rss/1.0/modules/content/",
		Channel: channel{
			Title:       site.Title,
			Link:        base,
			Description: site.Description,
			Language:    site.Language,
			AtomLink: atomLink{
				Href: base + Path,
				Rel:  "self",
				Type: "application/rss+xml",
			},
			Items: make([]item, 0, len(list)),
		},
	}

	var newest time.Time
	for _, p := range list {
		html, err := render(p)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", p.Slug, err)
		}
		link := base + "/posts/" + p.Slug
		description := p.Description
		if description == "" {
			description = p.Excerpt
		}
		categories := p.Categories
		if len(categories) == 0 {
			categories = p.Tags
		}
		doc.Channel.Items = append(doc.Channel.Items, item{
			Title:       p.Title,
			Link:        link,
			GUID:        guid{IsPermaLink: true, Value: link},
			PubDate:     p.Published.Format(time.RFC1123Z),
			Description: description,
			Content:     cdata{Value: html},
			Categories:  categories,
		})
		if p.Published.After(newest) {
			newest = p.Published
		}
	}
	if !newest.IsZero() {
		doc.Channel.LastBuildDate = newest.Format(time.RFC1123Z)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode feed: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
