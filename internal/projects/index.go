// Package projects builds the portfolio project index from JSON records in
// the content store and ranks related projects.
package projects

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/logger"
	"github.com/aretw0/folio/pkg/typed"
)

// DefaultPrefix is the content store directory holding projects.
const DefaultPrefix = "projects/"

// Recorder receives load counts.
type Recorder interface {
	RecordLoad(kind string, loaded, skipped int)
}

type Config struct {
	Prefix   string
	Logger   *slog.Logger
	Recorder Recorder
	Now      func() time.Time
}

// Index answers queries over the projects in a content store. Each query
// re-reads the store.
type Index struct {
	docs     *typed.Repository[Project]
	prefix   string
	logger   *slog.Logger
	recorder Recorder
	now      func() time.Time
}

func NewIndex(repo core.Repository, cfg Config) *Index {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Index{
		docs:     typed.NewRepository[Project](repo),
		prefix:   cfg.Prefix,
		logger:   logger.WithComponent(cfg.Logger, "projects"),
		recorder: cfg.Recorder,
		now:      cfg.Now,
	}
}

// Load returns the valid projects in store enumeration order and the
// entries that were rejected.
//
// Workflow:
//  1. Decode every non-Markdown record under the prefix.
//  2. Reject records missing id, title or slug.
//  3. Reject repeated ids and slugs; the first record wins.
func (i *Index) Load(ctx context.Context) ([]Project, []core.Skipped, error) {
	res, err := i.docs.Scan(ctx, i.prefix)
	if err != nil {
		return nil, nil, err
	}

	projects := make([]Project, 0, len(res.Items))
	skipped := res.Skipped
	ids := make(map[string]string, len(res.Items))
	slugs := make(map[string]string, len(res.Items))

	for _, item := range res.Items {
		if item.Ext == ".md" {
			continue
		}
		p := item.Data
		if err := p.Validate(); err != nil {
			skipped = append(skipped, core.Skipped{ID: item.ID, Reason: err})
			continue
		}
		if first, dup := ids[p.ID]; dup {
			skipped = append(skipped, core.Skipped{ID: item.ID, Reason: fmt.Errorf("duplicate id %q: already loaded from %s", p.ID, first)})
			continue
		}
		if first, dup := slugs[p.Slug]; dup {
			skipped = append(skipped, core.Skipped{ID: item.ID, Reason: fmt.Errorf("duplicate slug %q: already loaded from %s", p.Slug, first)})
			continue
		}
		ids[p.ID] = item.ID
		slugs[p.Slug] = item.ID
		projects = append(projects, p)
	}

	for _, s := range skipped {
		i.logger.Warn("skipping project", "id", s.ID, "reason", s.Reason)
	}
	if i.recorder != nil {
		i.recorder.RecordLoad("projects", len(projects), len(skipped))
	}
	return projects, skipped, nil
}

// List returns valid projects, featured first, then by start year newest
// first. Equal keys keep store order. A store failure is logged and yields
// an empty list.
func (i *Index) List(ctx context.Context) []Project {
	projects, _, err := i.Load(ctx)
	if err != nil {
		i.logger.Error("failed to load projects", "error", err)
		return []Project{}
	}
	Sort(projects)
	return projects
}

// Sort orders projects featured first, then by year descending.
func Sort(projects []Project) {
	sort.SliceStable(projects, func(a, b int) bool {
		pa, pb := projects[a], projects[b]
		if pa.Featured != pb.Featured {
			return pa.Featured
		}
		return pa.Year() > pb.Year()
	})
}

// BySlug finds a project by exact slug.
func (i *Index) BySlug(ctx context.Context, slug string) (Project, bool) {
	for _, p := range i.List(ctx) {
		if p.Slug == slug {
			return p, true
		}
	}
	return Project{}, false
}

// ByTag returns projects with a tag named name, ignoring case. A non-empty
// category restricts the match to that category.
func (i *Index) ByTag(ctx context.Context, name string, category Category) []Project {
	var out []Project
	for _, p := range i.List(ctx) {
		if p.HasTag(name, category) {
			out = append(out, p)
		}
	}
	return out
}

// ByYearRange returns projects started between start and end inclusive.
// An end of 0 means the current year. Undated projects are never included.
func (i *Index) ByYearRange(ctx context.Context, start, end int) []Project {
	if end == 0 {
		end = i.now().Year()
	}
	var out []Project
	for _, p := range i.List(ctx) {
		if y := p.Year(); y != 0 && y >= start && y <= end {
			out = append(out, p)
		}
	}
	return out
}

// Search returns projects matching q. See Project.Matches.
func (i *Index) Search(ctx context.Context, q string) []Project {
	list := i.List(ctx)
	out := make([]Project, 0, len(list))
	for _, p := range list {
		if p.Matches(q) {
			out = append(out, p)
		}
	}
	return out
}

// Featured returns up to limit featured projects. A limit <= 0 returns all.
func (i *Index) Featured(ctx context.Context, limit int) []Project {
	var out []Project
	for _, p := range i.List(ctx) {
		if !p.Featured {
			break
		}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// RelatedTo ranks the other projects against the one with slug.
func (i *Index) RelatedTo(ctx context.Context, slug string, limit int) ([]Scored, bool) {
	list := i.List(ctx)
	for _, p := range list {
		if p.Slug == slug {
			return Related(p, list, limit), true
		}
	}
	return nil, false
}

// YearRange is the span of start years.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type Stats struct {
	Total       int            `json:"total"`
	Featured    int            `json:"featured"`
	OpenSource  int            `json:"openSource"`
	WithImages  int            `json:"withImages"`
	ByStatus    map[string]int `json:"byStatus"`
	Years       YearRange      `json:"yearRange"`
	AverageTags float64        `json:"averageTags"`
}

// Stats aggregates the project list. Projects without a start year are
// left out of the year range; a missing status counts as "unknown".
func (i *Index) Stats(ctx context.Context) Stats {
	return ComputeStats(i.List(ctx))
}

func ComputeStats(projects []Project) Stats {
	s := Stats{
		Total:    len(projects),
		ByStatus: make(map[string]int),
	}
	tags := 0
	for _, p := range projects {
		if p.Featured {
			s.Featured++
		}
		if p.IsOpenSource {
			s.OpenSource++
		}
		if len(p.Images) > 0 {
			s.WithImages++
		}
		status := string(p.Status.Current)
		if status == "" {
			status = "unknown"
		}
		s.ByStatus[status]++
		tags += len(p.Tags)

		if y := p.Year(); y > 0 {
			if s.Years.Min == 0 || y < s.Years.Min {
				s.Years.Min = y
			}
			if y > s.Years.Max {
				s.Years.Max = y
			}
		}
	}
	if s.Total > 0 {
		s.AverageTags = float64(tags) / float64(s.Total)
	}
	return s
}
