// Package search answers free-text food queries against an in-memory index:
// ranked matches, spelling suggestions and term completions.
package search

import (
	"context"

	"github.com/bastiangx/foodserve/pkg/catalog"
)

// ISearcher is implemented by Engine. Servers and the CLI depend on it
// rather than on the concrete engine.
type ISearcher interface {
	// Search returns ranked matches for a free-text query
	Search(query string, opts ...Option) []Match

	// Suggest returns spelling corrections and related terms
	Suggest(query string, limit int) []Suggestion

	// Complete returns index terms starting with prefix
	Complete(prefix string, limit int) []Completion

	// SearchBatch runs Search for several queries in parallel
	SearchBatch(ctx context.Context, queries []string, opts ...Option) ([][]Match, error)

	// Catalog returns the catalog the engine was built from
	Catalog() *catalog.Catalog

	// Stats returns statistics about the index
	Stats() map[string]int
}
