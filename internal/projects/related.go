package projects

import "sort"

// DefaultRelatedLimit is used when Related is called with a limit <= 0.
const DefaultRelatedLimit = 3

// categoryWeights is how much a shared tag of each category contributes.
var categoryWeights = map[Category]int{
	CategoryFramework: 3,
	CategoryHardware:  3,
	CategoryLanguage:  2,
	CategoryPlatform:  2,
	CategoryDatabase:  1,
	CategoryTool:      1,
	CategoryOther:     1,
}

// Weight returns the score of a shared tag in category c. Unknown categories weigh 1.
func Weight(c Category) int {
	if w, ok := categoryWeights[c]; ok {
		return w
	}
	return 1
}

// Scored is a candidate and its tag affinity with the subject.
type Scored struct {
	Project Project `json:"project"`
	Score   int     `json:"score"`
}

// Related ranks pool by tag affinity with subject. A candidate scores the
// weight of every tag it shares with subject by exact name and category.
// The subject itself (by ID) and zero scores are dropped, equal scores keep
// pool order, and at most limit entries are returned.
func Related(subject Project, pool []Project, limit int) []Scored {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	type key struct {
		name     string
		category Category
	}
	tags := make(map[key]struct{}, len(subject.Tags))
	for _, t := range subject.Tags {
		tags[key{t.Name, t.Category}] = struct{}{}
	}

	var scored []Scored
	for _, candidate := range pool {
		if candidate.ID == subject.ID {
			continue
		}
		score := 0
		for _, t := range candidate.Tags {
			if _, ok := tags[key{t.Name, t.Category}]; ok {
				score += Weight(t.Category)
			}
		}
		if score > 0 {
			scored = append(scored, Scored{Project: candidate, Score: score})
		}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
