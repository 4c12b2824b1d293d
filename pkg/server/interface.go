/*
Package server implements msgpack IPC for food search.

Clients write msgpack encoded requests to stdin and read one msgpack response
per request from stdout. Requests are handled one at a time, in order. Logs
go to stderr so they never mix with responses.

# IPC

Every request carries an ID that is echoed back and an action. A request
without an action is a search:

	{"id": "req_001", "q": "plaw", "l": 10}

The server answers with ranked results, each carrying the catalog record,
how it matched, its score and a relevance label:

	{"id": "req_001", "r": [{"n": "Pilau (Spiced Rice)", "k": "fuzzy_alternative", "sc": 0.53, "rel": "low", "r": 1, ...}], "c": 1, "m": "Did you mean one of these? ...", "s": [...], "t": 210}

Suggestions are attached when fewer than search.suggest_below results were
found. When nothing was found at all, a short fallback suggestion list is
attached instead.

Other actions:

	{"id": "2", "action": "suggest", "q": "mandasi", "l": 5}
	{"id": "3", "action": "complete", "q": "ma", "l": 8}
	{"id": "4", "action": "batch", "qs": ["ugali", "pilau"], "l": 3}
	{"id": "5", "action": "foods", "f": {"region": "Coast"}}
	{"id": "6", "action": "lookup", "q": "Ugali"}
	{"id": "7", "action": "config", "max_results": 30}
	{"id": "8", "action": "health"}

Failed requests get an error response with an HTTP style code:

	{"id": "9", "e": "unknown action: frobnicate", "c": 400}

# Message Types

Field names are kept short; msgpack messages are already compact and the
short keys keep them small for large result lists.
*/
package server

import (
	"github.com/bastiangx/foodserve/pkg/catalog"
)

// Actions understood by the server.
const (
	ActionSearch   = "search"
	ActionSuggest  = "suggest"
	ActionComplete = "complete"
	ActionBatch    = "batch"
	ActionFoods    = "foods"
	ActionLookup   = "lookup"
	ActionConfig   = "config"
	ActionHealth   = "health"
)

// Request is the single request shape; which fields matter depends on Action.
type Request struct {
	ID      string         `msgpack:"id"`
	Action  string         `msgpack:"action,omitempty"`
	Query   string         `msgpack:"q,omitempty"`
	Queries []string       `msgpack:"qs,omitempty"`
	Limit   int            `msgpack:"l,omitempty"`
	Fuzzy   *bool          `msgpack:"fuzzy,omitempty"`
	Suggest *bool          `msgpack:"suggest,omitempty"`
	Filter  catalog.Filter `msgpack:"f,omitempty"`

	// for "config"
	MaxResults     *int `msgpack:"max_results,omitempty"`
	MaxSuggestions *int `msgpack:"max_suggestions,omitempty"`
}

// Result is one ranked food.
type Result struct {
	Name      string         `msgpack:"n"`
	Record    catalog.Record `msgpack:"rec"`
	Kind      string         `msgpack:"k"`
	Score     float64        `msgpack:"sc"`
	Relevance string         `msgpack:"rel"`
	Rank      uint16         `msgpack:"r"`
	Term      string         `msgpack:"term,omitempty"`
}

// SuggestionItem is one did-you-mean entry.
type SuggestionItem struct {
	Text       string  `msgpack:"t"`
	Similarity float64 `msgpack:"sim"`
	Kind       string  `msgpack:"k"`
	Rank       uint16  `msgpack:"r"`
}

// SearchResponse answers a search request.
type SearchResponse struct {
	ID          string           `msgpack:"id"`
	Query       string           `msgpack:"q"`
	Filter      catalog.Filter   `msgpack:"f,omitempty"`
	Results     []Result         `msgpack:"r"`
	Count       int              `msgpack:"c"`
	Suggestions []SuggestionItem `msgpack:"s,omitempty"`
	Message     string           `msgpack:"m"`
	SearchType  string           `msgpack:"type"`
	TimeTaken   int64            `msgpack:"t"`
}

// SuggestResponse answers a suggest request.
type SuggestResponse struct {
	ID          string           `msgpack:"id"`
	Query       string           `msgpack:"q"`
	Suggestions []SuggestionItem `msgpack:"s"`
	Count       int              `msgpack:"c"`
	TimeTaken   int64            `msgpack:"t"`
}

// CompletionItem is one completed term.
type CompletionItem struct {
	Term     string  `msgpack:"w"`
	Score    float64 `msgpack:"sc"`
	Entities int     `msgpack:"e"`
	Rank     uint16  `msgpack:"r"`
}

// CompleteResponse answers a complete request.
type CompleteResponse struct {
	ID          string           `msgpack:"id"`
	Prefix      string           `msgpack:"p"`
	Completions []CompletionItem `msgpack:"s"`
	Count       int              `msgpack:"c"`
	TimeTaken   int64            `msgpack:"t"`
}

// BatchResponse answers a batch request; Results[i] belongs to Queries[i].
type BatchResponse struct {
	ID        string     `msgpack:"id"`
	Queries   []string   `msgpack:"qs"`
	Results   [][]Result `msgpack:"r"`
	Count     int        `msgpack:"c"`
	TimeTaken int64      `msgpack:"t"`
}

// FoodsResponse lists catalog entries.
type FoodsResponse struct {
	ID      string         `msgpack:"id"`
	Filter  catalog.Filter `msgpack:"f,omitempty"`
	Foods   []Result       `msgpack:"r"`
	Count   int            `msgpack:"c"`
	Message string         `msgpack:"m"`
}

// LookupResponse returns the record of one food, or the default record.
type LookupResponse struct {
	ID     string         `msgpack:"id"`
	Name   string         `msgpack:"n"`
	Found  bool           `msgpack:"found"`
	Record catalog.Record `msgpack:"rec"`
}

// ConfigResponse reports the search settings after a config request.
type ConfigResponse struct {
	ID             string `msgpack:"id"`
	Status         string `msgpack:"status"`
	Error          string `msgpack:"error,omitempty"`
	MaxResults     int    `msgpack:"max_results"`
	MaxSuggestions int    `msgpack:"max_suggestions"`
	Fuzzy          bool   `msgpack:"fuzzy"`
}

// HealthResponse reports engine status.
type HealthResponse struct {
	ID           string          `msgpack:"id"`
	Status       string          `msgpack:"status"`
	Foods        int             `msgpack:"foods"`
	Terms        int             `msgpack:"terms"`
	Postings     int             `msgpack:"postings"`
	CacheEntries int             `msgpack:"cache_entries"`
	CacheHits    int             `msgpack:"cache_hits"`
	Features     map[string]bool `msgpack:"features"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
