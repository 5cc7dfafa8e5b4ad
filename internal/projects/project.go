package projects

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Project is a portfolio entry.
type Project struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Slug              string   `json:"slug"`
	ShortDescription  string   `json:"shortDescription"`
	LongDescription   string   `json:"longDescription"`
	StartDate         string   `json:"startDate"`
	EndDate           string   `json:"endDate,omitempty"`
	Images            []Image  `json:"images"`
	Tags              []Tag    `json:"tags"`
	Links             []Link   `json:"links"`
	Status            Status   `json:"status"`
	Metadata          Details  `json:"metadata"`
	Keywords          []string `json:"keywords,omitempty"`
	Featured          bool     `json:"featured,omitempty"`
	HasCustomHardware bool     `json:"hasCustomHardware,omitempty"`
	IsOpenSource      bool     `json:"isOpenSource,omitempty"`
}

type Image struct {
	URL     string `json:"url"`
	Alt     string `json:"alt"`
	Caption string `json:"caption,omitempty"`
}

type Link struct {
	Type  string `json:"type"`
	URL   string `json:"url"`
	Label string `json:"label,omitempty"`
}

// Tag labels a project. Name and Category together identify a tag when
// scoring relatedness.
type Tag struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Color    string   `json:"color,omitempty"`
}

// Category groups tags. Values outside the known set are kept as-is.
type Category string

const (
	CategoryLanguage  Category = "language"
	CategoryFramework Category = "framework"
	CategoryDatabase  Category = "database"
	CategoryTool      Category = "tool"
	CategoryPlatform  Category = "platform"
	CategoryHardware  Category = "hardware"
	CategoryOther     Category = "other"
)

type Status struct {
	Current          Lifecycle `json:"current"`
	DeploymentStatus string    `json:"deploymentStatus,omitempty"`
	MaintenanceLevel string    `json:"maintenanceLevel,omitempty"`
}

type Details struct {
	Difficulty Difficulty `json:"difficulty"`
	TeamSize   int        `json:"teamSize,omitempty"`
	Duration   string     `json:"duration,omitempty"`
	Role       string     `json:"role,omitempty"`
}

// Lifecycle is the current state of a project.
type Lifecycle string

const (
	LifecycleActive    Lifecycle = "active"
	LifecycleCompleted Lifecycle = "completed"
	LifecycleArchived  Lifecycle = "archived"
	LifecycleConcept   Lifecycle = "concept"
)

func (l *Lifecycle) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, (*string)(l), "status",
		string(LifecycleActive), string(LifecycleCompleted), string(LifecycleArchived), string(LifecycleConcept))
}

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyExpert       Difficulty = "expert"
)

func (d *Difficulty) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, (*string)(d), "difficulty",
		string(DifficultyBeginner), string(DifficultyIntermediate), string(DifficultyAdvanced), string(DifficultyExpert))
}

// unmarshalEnum accepts an empty string or one of allowed.
func unmarshalEnum(b []byte, dst *string, kind string, allowed ...string) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	if s == "" {
		*dst = s
		return nil
	}
	for _, a := range allowed {
		if s == a {
			*dst = s
			return nil
		}
	}
	return fmt.Errorf("unknown %s %q", kind, s)
}

// Year is the year of StartDate, or 0 when it has none.
func (p Project) Year() int {
	s := strings.TrimSpace(p.StartDate)
	if len(s) < 4 {
		return 0
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Year()
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return 0
	}
	return year
}

// Validate checks the fields every project must carry.
func (p Project) Validate() error {
	var missing []string
	if p.ID == "" {
		missing = append(missing, "id")
	}
	if p.Title == "" {
		missing = append(missing, "title")
	}
	if p.Slug == "" {
		missing = append(missing, "slug")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// HasTag reports whether the project has a tag named name, ignoring case.
// A non-empty category must match too.
func (p Project) HasTag(name string, category Category) bool {
	for _, t := range p.Tags {
		if !strings.EqualFold(t.Name, name) {
			continue
		}
		if category == "" || t.Category == category {
			return true
		}
	}
	return false
}

// Matches reports whether q occurs, ignoring case, in the title, either
// description, a keyword or a tag name. An empty query matches everything.
func (p Project) Matches(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	fields := []string{p.Title, p.ShortDescription, p.LongDescription}
	fields = append(fields, p.Keywords...)
	for _, t := range p.Tags {
		fields = append(fields, t.Name)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
