/*
Package index builds the inverted term index the search engine runs on.

Every catalog entry contributes postings under lowercase terms: its name, the
alternatives derived from the name, its ingredients, its cultural origin and
its category, each with a fixed base weight:

	name         1.0
	alternative  0.8
	ingredient   0.6
	culture      0.5
	category     0.4

Postings under a term keep insertion order and are not deduplicated. Terms
themselves keep the order they were first seen in, which is the order the
engine scans them in.

An Index is built once and never changes, so it may be read from any number
of goroutines. Terms are also kept in a Patricia trie for prefix lookups.
*/
package index

import (
	"time"

	"github.com/bastiangx/foodserve/internal/utils"
	"github.com/bastiangx/foodserve/pkg/catalog"
	"github.com/bastiangx/foodserve/pkg/terms"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Index maps lowercase terms to postings.
type Index struct {
	postings map[string][]Posting
	terms    []string
	trie     *patricia.Trie
	entities int
	total    int
}

// Build indexes every entry of c in catalog order.
func Build(c *catalog.Catalog) *Index {
	start := time.Now()
	idx := &Index{
		postings: make(map[string][]Posting),
		trie:     patricia.NewTrie(),
		entities: c.Len(),
	}

	c.Each(func(name string, rec catalog.Record) {
		idx.add(name, name, KindName)

		for _, alt := range terms.Alternatives(name) {
			idx.add(alt, name, KindAlternative)
		}
		for _, ingredient := range rec.Ingredients {
			idx.add(ingredient, name, KindIngredient)
		}
		if origin, ok := rec.IndexedOrigin(); ok {
			idx.add(origin, name, KindCulture)
		}
		if category, ok := rec.IndexedCategory(); ok {
			idx.add(category, name, KindCategory)
		}
	})

	log.Debugf("Indexed %d terms (%d postings) for %d entities in %v",
		len(idx.terms), idx.total, idx.entities, time.Since(start))
	return idx
}

func (idx *Index) add(text, entity string, kind Kind) {
	term := utils.Lower(text)
	if _, ok := idx.postings[term]; !ok {
		idx.terms = append(idx.terms, term)
		if term != "" {
			idx.trie.Insert(patricia.Prefix(term), len(idx.terms)-1)
		}
	}
	idx.postings[term] = append(idx.postings[term], Posting{
		Entity: entity,
		Kind:   kind,
		Weight: kind.Weight(),
	})
	idx.total++
}

// Lookup returns the postings of term. The slice must not be modified.
func (idx *Index) Lookup(term string) ([]Posting, bool) {
	p, ok := idx.postings[term]
	return p, ok
}

// Each calls fn for every term in first-seen order.
func (idx *Index) Each(fn func(term string, postings []Posting)) {
	for _, term := range idx.terms {
		fn(term, idx.postings[term])
	}
}

// Terms returns a copy of all terms in first-seen order.
func (idx *Index) Terms() []string {
	out := make([]string, len(idx.terms))
	copy(out, idx.terms)
	return out
}

// Len returns the number of distinct terms.
func (idx *Index) Len() int {
	return len(idx.terms)
}

// VisitPrefix calls fn for every non-empty term starting with prefix.
// Visiting order follows the trie, not first-seen order.
func (idx *Index) VisitPrefix(prefix string, fn func(term string, postings []Posting)) {
	err := idx.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		ord, ok := item.(int)
		if !ok {
			log.Errorf("Unknown item type: %T for term %s", item, p)
			return nil
		}
		term := idx.terms[ord]
		fn(term, idx.postings[term])
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting term trie: %v", err)
	}
}

// Stats returns index counters.
func (idx *Index) Stats() map[string]int {
	return map[string]int{
		"terms":    len(idx.terms),
		"postings": idx.total,
		"entities": idx.entities,
	}
}
