package index

import (
	"sort"
	"testing"

	"github.com/bastiangx/foodserve/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioCatalog() *catalog.Catalog {
	return catalog.New(
		catalog.Entry{Name: "Pilau (Spiced Rice)", Record: catalog.Record{
			Ingredients: []string{"rice", "spices"},
			Category:    "Main",
		}},
		catalog.Entry{Name: "Ugali", Record: catalog.Record{Category: "Main", CulturalOrigin: catalog.Unknown}},
	)
}

func TestBuildTermsInFirstSeenOrder(t *testing.T) {
	idx := Build(scenarioCatalog())

	assert.Equal(t, []string{
		"pilau (spiced rice)", "pilau", "spiced rice", "spiced", "rice", "spices", "main", "ugali",
	}, idx.Terms())
	assert.Equal(t, 8, idx.Len())
	assert.Equal(t, map[string]int{"terms": 8, "postings": 12, "entities": 2}, idx.Stats())
}

func TestBuildPostings(t *testing.T) {
	idx := Build(scenarioCatalog())

	testCases := []struct {
		term     string
		expected []Posting
	}{
		{"pilau (spiced rice)", []Posting{{"Pilau (Spiced Rice)", KindName, 1.0}}},
		// duplicate alternatives are kept
		{"pilau", []Posting{
			{"Pilau (Spiced Rice)", KindAlternative, 0.8},
			{"Pilau (Spiced Rice)", KindAlternative, 0.8},
		}},
		{"rice", []Posting{
			{"Pilau (Spiced Rice)", KindAlternative, 0.8},
			{"Pilau (Spiced Rice)", KindIngredient, 0.6},
		}},
		{"main", []Posting{
			{"Pilau (Spiced Rice)", KindCategory, 0.4},
			{"Ugali", KindCategory, 0.4},
		}},
		{"ugali", []Posting{
			{"Ugali", KindName, 1.0},
			{"Ugali", KindAlternative, 0.8},
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.term, func(t *testing.T) {
			got, ok := idx.Lookup(tc.term)
			require.True(t, ok)
			assert.Equal(t, tc.expected, got)
		})
	}

	_, ok := idx.Lookup("unknown")
	assert.False(t, ok, "sentinel values are not indexed")
	_, ok = idx.Lookup("Ugali")
	assert.False(t, ok, "terms are lowercase")
}

func TestBuildWeightsMatchKinds(t *testing.T) {
	c := catalog.New(catalog.Entry{Name: "Mandazi", Record: catalog.Record{
		Ingredients:    []string{"Flour", "Coconut Milk"},
		CulturalOrigin: "Swahili",
		Category:       "Snack",
	}})
	idx := Build(c)

	idx.Each(func(term string, postings []Posting) {
		for _, p := range postings {
			assert.Equal(t, p.Kind.Weight(), p.Weight, "term %q", term)
			assert.Contains(t, []float64{1.0, 0.8, 0.6, 0.5, 0.4}, p.Weight)
		}
	})

	culture, ok := idx.Lookup("swahili")
	require.True(t, ok)
	assert.Equal(t, KindCulture, culture[0].Kind)
	_, ok = idx.Lookup("coconut milk")
	assert.True(t, ok)
}

func TestBuildEmptyCatalog(t *testing.T) {
	idx := Build(catalog.New())
	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, idx.Terms())
}

func TestVisitPrefix(t *testing.T) {
	idx := Build(scenarioCatalog())

	var got []string
	idx.VisitPrefix("spi", func(term string, _ []Posting) {
		got = append(got, term)
	})
	sort.Strings(got)
	assert.Equal(t, []string{"spiced", "spiced rice", "spices"}, got)

	got = got[:0]
	idx.VisitPrefix("zzz", func(term string, _ []Posting) {
		got = append(got, term)
	})
	assert.Empty(t, got)
}

func TestKindWeight(t *testing.T) {
	assert.Equal(t, 0.0, Kind("other").Weight())
	assert.Equal(t, 0.5, KindCulture.Weight())
}
