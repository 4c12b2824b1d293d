package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/bastiangx/foodserve/pkg/catalog"
	"github.com/bastiangx/foodserve/pkg/config"
	"github.com/bastiangx/foodserve/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func testEngine() *search.Engine {
	return search.New(catalog.New(
		catalog.Entry{Name: "Pilau (Spiced Rice)", Record: catalog.Record{
			Ingredients:    []string{"rice", "spices"},
			CulturalOrigin: "Swahili",
			Category:       "Main",
			Region:         "Coast",
			OntologyClass:  "Food",
		}},
		catalog.Entry{Name: "Ugali", Record: catalog.Record{
			Ingredients:   []string{"maize flour", "water"},
			Category:      "Main",
			Region:        "Nationwide",
			OntologyClass: "Food",
		}},
		catalog.Entry{Name: "Mandazi", Record: catalog.Record{
			Ingredients:    []string{"flour", "coconut milk", "sugar"},
			CulturalOrigin: "Swahili",
			Category:       "Snack",
			Region:         "Coast",
			OntologyClass:  "Food",
		}},
	))
}

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }

func TestHandlerSearch(t *testing.T) {
	h := NewHandler(testEngine(), nil, "", nil)

	t.Run("exact hit", func(t *testing.T) {
		resp, err := h.Search(Request{ID: "1", Query: "ugali"})
		require.NoError(t, err)
		require.Equal(t, 1, resp.Count)

		r := resp.Results[0]
		assert.Equal(t, "Ugali", r.Name)
		assert.Equal(t, "exact_name", r.Kind)
		assert.Equal(t, "high", r.Relevance)
		assert.Equal(t, uint16(1), r.Rank)
		assert.Equal(t, "Nationwide", r.Record.Region)
		assert.Equal(t, SearchTypeSmart, resp.SearchType)
		// fewer than three results, so suggestions are attached
		require.NotEmpty(t, resp.Suggestions)
		assert.Equal(t, "Ugali", resp.Suggestions[0].Text)
		assert.Equal(t, "Did you mean one of these? Found 1 results for 'ugali'", resp.Message)
	})

	t.Run("typo", func(t *testing.T) {
		resp, err := h.Search(Request{ID: "2", Query: "plaw", Suggest: boolPtr(false)})
		require.NoError(t, err)
		require.Equal(t, 1, resp.Count)
		assert.Equal(t, "fuzzy_alternative", resp.Results[0].Kind)
		assert.Equal(t, "low", resp.Results[0].Relevance)
		assert.Empty(t, resp.Suggestions)
		assert.Equal(t, "Found 1 results for 'plaw'", resp.Message)
	})

	t.Run("nothing found", func(t *testing.T) {
		resp, err := h.Search(Request{ID: "3", Query: "xyz123"})
		require.NoError(t, err)
		assert.Zero(t, resp.Count)
		assert.NotNil(t, resp.Results)
		assert.Equal(t, "No results found for 'xyz123'. Try a different spelling or search term.", resp.Message)
	})

	t.Run("empty query", func(t *testing.T) {
		resp, err := h.Search(Request{ID: "4", Query: "   "})
		require.NoError(t, err)
		assert.Empty(t, resp.Results)
		assert.Equal(t, "Please provide a search query", resp.Message)
		assert.Equal(t, SearchTypeNoQuery, resp.SearchType)
	})

	t.Run("filter", func(t *testing.T) {
		resp, err := h.Search(Request{ID: "5", Query: "swahili", Filter: catalog.Filter{Category: "Snack"}})
		require.NoError(t, err)
		require.Equal(t, 1, resp.Count)
		assert.Equal(t, "Mandazi", resp.Results[0].Name)
	})

	t.Run("fuzzy off", func(t *testing.T) {
		resp, err := h.Search(Request{ID: "6", Query: "plaw", Fuzzy: boolPtr(false)})
		require.NoError(t, err)
		assert.Zero(t, resp.Count)
	})
}

func TestHandlerLimits(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.MaxLimit = 1
	cfg.Server.MaxQueryLen = 10
	h := NewHandler(testEngine(), cfg, "", nil)

	resp, err := h.Search(Request{Query: "main", Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Count)

	_, err = h.Search(Request{Query: "a very long query indeed"})
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 400, reqErr.Code)
}

func TestHandlerOtherActions(t *testing.T) {
	h := NewHandler(testEngine(), nil, "", nil)
	ctx := context.Background()

	t.Run("suggest", func(t *testing.T) {
		resp, err := h.Handle(ctx, Request{ID: "s", Action: ActionSuggest, Query: "mandasi", Limit: 2})
		require.NoError(t, err)
		sr := resp.(*SuggestResponse)
		require.NotEmpty(t, sr.Suggestions)
		assert.LessOrEqual(t, sr.Count, 2)
		assert.Equal(t, "Mandazi", sr.Suggestions[0].Text)
		assert.Equal(t, search.KindSpellingCorrection, sr.Suggestions[0].Kind)
	})

	t.Run("complete", func(t *testing.T) {
		resp, err := h.Handle(ctx, Request{ID: "c", Action: ActionComplete, Query: "sp"})
		require.NoError(t, err)
		cr := resp.(*CompleteResponse)
		require.Equal(t, 3, cr.Count)
		assert.Equal(t, "spiced", cr.Completions[0].Term)
		assert.Equal(t, uint16(3), cr.Completions[2].Rank)

		_, err = h.Handle(ctx, Request{Action: ActionComplete})
		assert.Error(t, err)
	})

	t.Run("batch", func(t *testing.T) {
		resp, err := h.Handle(ctx, Request{ID: "b", Action: ActionBatch, Queries: []string{"ugali", "xyz123", "rice"}})
		require.NoError(t, err)
		br := resp.(*BatchResponse)
		require.Len(t, br.Results, 3)
		assert.Equal(t, "Ugali", br.Results[0][0].Name)
		assert.Empty(t, br.Results[1])
		assert.Equal(t, "Pilau (Spiced Rice)", br.Results[2][0].Name)
		assert.Equal(t, 2, br.Count)

		_, err = h.Handle(ctx, Request{Action: ActionBatch})
		assert.Error(t, err)
	})

	t.Run("foods", func(t *testing.T) {
		resp, err := h.Handle(ctx, Request{Action: ActionFoods, Filter: catalog.Filter{Region: "Coast"}})
		require.NoError(t, err)
		fr := resp.(*FoodsResponse)
		require.Equal(t, 2, fr.Count)
		assert.Equal(t, "Pilau (Spiced Rice)", fr.Foods[0].Name)
		assert.Equal(t, "Mandazi", fr.Foods[1].Name)
		assert.Equal(t, "Retrieved all 2 foods", fr.Message)
	})

	t.Run("lookup", func(t *testing.T) {
		resp, err := h.Handle(ctx, Request{Action: ActionLookup, Query: "Chapati"})
		require.NoError(t, err)
		lr := resp.(*LookupResponse)
		assert.False(t, lr.Found)
		assert.Equal(t, catalog.DefaultRecord(), lr.Record)
	})

	t.Run("health", func(t *testing.T) {
		resp, err := h.Handle(ctx, Request{ID: "h", Action: ActionHealth})
		require.NoError(t, err)
		hr := resp.(*HealthResponse)
		assert.Equal(t, "healthy", hr.Status)
		assert.Equal(t, 3, hr.Foods)
		assert.True(t, hr.Features["fuzzy_matching"])
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := h.Handle(ctx, Request{Action: "frobnicate"})
		var reqErr *RequestError
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, "unknown action: frobnicate", reqErr.Message)
	})
}

func TestHandlerConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := config.DefaultConfig()
	h := NewHandler(testEngine(), cfg, path, nil)

	resp := h.Config(Request{ID: "cfg", MaxResults: intPtr(2), Fuzzy: boolPtr(false)})
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.MaxResults)
	assert.False(t, resp.Fuzzy)

	saved, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Search.MaxResults)

	// the new default applies to following searches
	sr, err := h.Search(Request{Query: "plaw"})
	require.NoError(t, err)
	assert.Zero(t, sr.Count)
}

func encodeRequests(t *testing.T, reqs ...any) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	for _, r := range reqs {
		require.NoError(t, enc.Encode(r))
	}
	return &buf
}

func TestServerRoundTrip(t *testing.T) {
	in := encodeRequests(t,
		Request{ID: "1", Query: "Ugali"},
		map[string]any{"id": "2", "action": "complete", "q": "ma"},
		map[string]any{"id": 3, "q": []int{1}},
		Request{ID: "4", Action: "nope"},
		Request{ID: "5", Action: ActionHealth},
	)
	var out bytes.Buffer

	srv := NewServerWithIO(testEngine(), nil, "", in, &out)
	require.NoError(t, srv.Start(context.Background()))
	assert.Equal(t, 5, srv.RequestCount())

	dec := msgpack.NewDecoder(&out)

	var found SearchResponse
	require.NoError(t, dec.Decode(&found))
	assert.Equal(t, "1", found.ID)
	require.NotEmpty(t, found.Results)
	assert.Equal(t, "Ugali", found.Results[0].Name)
	assert.Equal(t, "exact_name", found.Results[0].Kind)

	var complete CompleteResponse
	require.NoError(t, dec.Decode(&complete))
	assert.Equal(t, "2", complete.ID)
	require.NotEmpty(t, complete.Completions)
	assert.Equal(t, "mandazi", complete.Completions[0].Term)

	var malformed ErrorResponse
	require.NoError(t, dec.Decode(&malformed))
	assert.Equal(t, 400, malformed.Code)
	assert.Equal(t, "invalid request", malformed.Error)

	var unknown ErrorResponse
	require.NoError(t, dec.Decode(&unknown))
	assert.Equal(t, "4", unknown.ID)
	assert.Equal(t, 400, unknown.Code)

	var health HealthResponse
	require.NoError(t, dec.Decode(&health))
	assert.Equal(t, "5", health.ID)
	assert.Equal(t, 3, health.Foods)

	var extra map[string]any
	assert.True(t, errors.Is(dec.Decode(&extra), io.EOF))
}

func TestServerEmptyInput(t *testing.T) {
	var out bytes.Buffer
	srv := NewServerWithIO(testEngine(), nil, "", &bytes.Buffer{}, &out)
	require.NoError(t, srv.Start(context.Background()))
	assert.Zero(t, out.Len())
}

func TestServerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	srv := NewServerWithIO(testEngine(), nil, "", encodeRequests(t, Request{ID: "1"}), io.Discard)
	assert.ErrorIs(t, srv.Start(ctx), context.Canceled)
}
