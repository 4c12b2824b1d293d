package search

import (
	"sort"
	"strings"

	"github.com/bastiangx/foodserve/internal/utils"
	"github.com/bastiangx/foodserve/pkg/catalog"
	"github.com/bastiangx/foodserve/pkg/index"
	"github.com/bastiangx/foodserve/pkg/similarity"
)

const (
	// DefaultMaxResults caps Search when no limit is given.
	DefaultMaxResults = 20

	exactBoost     = 2.0
	partialBoost   = 1.5
	fuzzyThreshold = 0.6
)

// Match kind prefixes, joined with the posting kind ("exact_name", ...).
const (
	PrefixExact   = "exact_"
	PrefixPartial = "partial_"
	PrefixFuzzy   = "fuzzy_"
)

// Match is one ranked search result.
type Match struct {
	Entity string
	Kind   string
	Score  float64
	// Term is the index term that produced the match.
	Term string
}

// Engine runs queries against an index built from a catalog.
// It is immutable once created and safe for concurrent use.
type Engine struct {
	catalog    *catalog.Catalog
	index      *index.Index
	names      []string
	lowerNames []string
	// first original-case name for each lowercase name
	originals map[string]string
	workers   int
}

var _ ISearcher = (*Engine)(nil)

// New indexes c and returns an engine over it.
func New(c *catalog.Catalog) *Engine {
	e := &Engine{
		catalog:   c,
		index:     index.Build(c),
		names:     c.Names(),
		originals: make(map[string]string, c.Len()),
	}
	e.lowerNames = make([]string, len(e.names))
	for i, name := range e.names {
		lower := utils.Lower(name)
		e.lowerNames[i] = lower
		if _, ok := e.originals[lower]; !ok {
			e.originals[lower] = name
		}
	}
	return e
}

// Catalog returns the catalog the engine was built from.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Index returns the underlying term index.
func (e *Engine) Index() *index.Index {
	return e.index
}

// Stats returns index statistics.
func (e *Engine) Stats() map[string]int {
	return e.index.Stats()
}

// Search matches query against the index in three passes (exact, partial,
// fuzzy), keeps the first match per entity and ranks by score. Equal scores
// keep pass order, then term order.
func (e *Engine) Search(query string, opts ...Option) []Match {
	o := newOptions(opts)
	if o.limit == 0 || strings.TrimSpace(query) == "" {
		return []Match{}
	}
	q := utils.NormalizeQuery(query)

	passes := [][]Match{e.exactPass(q), e.partialPass(q)}
	if o.fuzzy {
		passes = append(passes, e.fuzzyPass(q))
	}
	results := merge(passes...)

	if !o.filter.IsZero() {
		results = e.filterMatches(results, o.filter)
	}
	if o.limit > 0 && len(results) > o.limit {
		results = results[:o.limit]
	}
	return results
}

// Explain returns every match the passes produce for query, in pass order
// and before deduplication, so the postings behind a ranked result can be
// inspected.
func (e *Engine) Explain(query string) []Match {
	if strings.TrimSpace(query) == "" {
		return []Match{}
	}
	q := utils.NormalizeQuery(query)

	var all []Match
	all = append(all, e.exactPass(q)...)
	all = append(all, e.partialPass(q)...)
	all = append(all, e.fuzzyPass(q)...)
	return all
}

func (e *Engine) exactPass(q string) []Match {
	postings, ok := e.index.Lookup(q)
	if !ok {
		return nil
	}
	matches := make([]Match, 0, len(postings))
	for _, p := range postings {
		matches = append(matches, Match{
			Entity: p.Entity,
			Kind:   PrefixExact + string(p.Kind),
			Score:  p.Weight * exactBoost,
			Term:   q,
		})
	}
	return matches
}

// partialPass matches terms that contain q or are contained in it, scaled
// by how much of the longer string q covers.
func (e *Engine) partialPass(q string) []Match {
	var matches []Match
	qlen := utils.RuneLen(q)
	e.index.Each(func(term string, postings []index.Posting) {
		if !strings.Contains(term, q) && !strings.Contains(q, term) {
			return
		}
		sim := float64(qlen) / float64(max(utils.RuneLen(term), qlen))
		for _, p := range postings {
			matches = append(matches, Match{
				Entity: p.Entity,
				Kind:   PrefixPartial + string(p.Kind),
				Score:  p.Weight * sim * partialBoost,
				Term:   term,
			})
		}
	})
	return matches
}

func (e *Engine) fuzzyPass(q string) []Match {
	var matches []Match
	e.index.Each(func(term string, postings []index.Posting) {
		ratio := similarity.Ratio(q, term)
		if ratio <= fuzzyThreshold {
			return
		}
		for _, p := range postings {
			matches = append(matches, Match{
				Entity: p.Entity,
				Kind:   PrefixFuzzy + string(p.Kind),
				Score:  p.Weight * ratio,
				Term:   term,
			})
		}
	})
	return matches
}

// merge concatenates passes, keeps the first match of every entity and
// sorts by score, highest first. The sort is stable.
func merge(passes ...[]Match) []Match {
	total := 0
	for _, p := range passes {
		total += len(p)
	}

	seen := utils.NewKeyFilter(total)
	results := make([]Match, 0, total)
	for _, p := range passes {
		for _, m := range p {
			if seen.ShouldInclude(m.Entity) {
				results = append(results, m)
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

func (e *Engine) filterMatches(matches []Match, f catalog.Filter) []Match {
	out := matches[:0]
	for _, m := range matches {
		if f.Matches(e.catalog.Mapping(m.Entity)) {
			out = append(out, m)
		}
	}
	return out
}

// Relevance labels a score the way clients display it.
func Relevance(score float64) string {
	switch {
	case score > 1.5:
		return "high"
	case score > 1.0:
		return "medium"
	default:
		return "low"
	}
}
