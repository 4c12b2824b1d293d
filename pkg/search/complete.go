package search

import (
	"sort"
	"strings"

	"github.com/bastiangx/foodserve/internal/utils"
	"github.com/bastiangx/foodserve/pkg/index"
)

// Completion is an index term extending a prefix.
type Completion struct {
	Term string
	// Score is the summed weight of the term's postings.
	Score float64
	// Entities is the number of distinct entities behind the term.
	Entities int
}

// Complete returns index terms that start with prefix, ranked by summed
// posting weight, then alphabetically. A negative limit means no cap.
func (e *Engine) Complete(prefix string, limit int) []Completion {
	if limit == 0 || strings.TrimSpace(prefix) == "" {
		return []Completion{}
	}
	p := utils.NormalizeQuery(prefix)

	var completions []Completion
	e.index.VisitPrefix(p, func(term string, postings []index.Posting) {
		seen := utils.NewKeyFilter(len(postings))
		score := 0.0
		for _, posting := range postings {
			score += posting.Weight
			seen.ShouldInclude(posting.Entity)
		}
		completions = append(completions, Completion{
			Term:     term,
			Score:    score,
			Entities: seen.Len(),
		})
	})

	sort.Slice(completions, func(i, j int) bool {
		if completions[i].Score != completions[j].Score {
			return completions[i].Score > completions[j].Score
		}
		return completions[i].Term < completions[j].Term
	})

	if limit > 0 && len(completions) > limit {
		completions = completions[:limit]
	}
	if completions == nil {
		return []Completion{}
	}
	return completions
}
