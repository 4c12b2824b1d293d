package search

import (
	"sort"
	"strings"

	"github.com/bastiangx/foodserve/internal/utils"
	"github.com/bastiangx/foodserve/pkg/index"
	"github.com/bastiangx/foodserve/pkg/similarity"
)

const (
	// DefaultMaxSuggestions caps Suggest for callers without a limit.
	DefaultMaxSuggestions = 5

	correctionCutoff = 0.4
	termMinRatio     = 0.5
	termMaxRatio     = 0.9
)

// Suggestion kinds.
const (
	KindSpellingCorrection = "spelling_correction"
	KindSearchTerm         = "search_term"
)

// Suggestion is a did-you-mean candidate for a query.
type Suggestion struct {
	Text       string
	Similarity float64
	Kind       string
}

// Suggest proposes entity names close to query as spelling corrections and
// index terms that are related but not near-identical as search terms.
// Texts are unique, best first; at most limit are returned, a negative
// limit meaning no cap.
func (e *Engine) Suggest(query string, limit int) []Suggestion {
	if limit == 0 || strings.TrimSpace(query) == "" {
		return []Suggestion{}
	}
	q := utils.NormalizeQuery(query)

	var suggestions []Suggestion
	for _, lower := range similarity.CloseMatches(q, e.lowerNames, limit, correctionCutoff) {
		suggestions = append(suggestions, Suggestion{
			Text:       e.originals[lower],
			Similarity: similarity.Ratio(q, lower),
			Kind:       KindSpellingCorrection,
		})
	}

	e.index.Each(func(term string, _ []index.Posting) {
		r := similarity.Ratio(q, term)
		if r > termMinRatio && r < termMaxRatio {
			suggestions = append(suggestions, Suggestion{
				Text:       term,
				Similarity: r,
				Kind:       KindSearchTerm,
			})
		}
	})

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Similarity > suggestions[j].Similarity
	})

	seen := utils.NewKeyFilter(len(suggestions))
	unique := make([]Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if !seen.ShouldInclude(s.Text) {
			continue
		}
		unique = append(unique, s)
		if limit > 0 && len(unique) == limit {
			break
		}
	}
	return unique
}
