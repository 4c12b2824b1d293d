package server

import (
	"context"
	"fmt"
	"time"

	"github.com/bastiangx/foodserve/internal/utils"
	"github.com/bastiangx/foodserve/pkg/config"
	"github.com/bastiangx/foodserve/pkg/search"
	"github.com/charmbracelet/log"
)

// Search types reported in SearchResponse.SearchType.
const (
	SearchTypeSmart   = "smart_search"
	SearchTypeNoQuery = "no_query"
)

// RequestError is a failed request with the code sent back to the client.
type RequestError struct {
	Code    int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

func badRequest(format string, args ...any) *RequestError {
	return &RequestError{Code: 400, Message: fmt.Sprintf(format, args...)}
}

// Handler turns requests into responses. It holds no connection state and
// can be used without a Server, e.g. from tests or the CLI.
type Handler struct {
	engine     search.ISearcher
	config     *config.Config
	configPath string
	logger     *log.Logger
	cache      *ResultCache
}

// NewHandler creates a handler over engine. Updates made through config
// requests are saved to configPath unless it is empty.
func NewHandler(engine search.ISearcher, cfg *config.Config, configPath string, logger *log.Logger) *Handler {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		engine:     engine,
		config:     cfg,
		configPath: configPath,
		logger:     logger,
		cache:      NewResultCache(cfg.Server.CacheSize),
	}
}

// Handle dispatches req on its action and returns the response value to
// encode. Failures are returned as *RequestError.
func (h *Handler) Handle(ctx context.Context, req Request) (any, error) {
	switch req.Action {
	case "", ActionSearch:
		return h.Search(req)
	case ActionSuggest:
		return h.Suggest(req)
	case ActionComplete:
		return h.Complete(req)
	case ActionBatch:
		return h.Batch(ctx, req)
	case ActionFoods:
		return h.Foods(req), nil
	case ActionLookup:
		return h.Lookup(req)
	case ActionConfig:
		return h.Config(req), nil
	case ActionHealth:
		return h.Health(req), nil
	}
	return nil, badRequest("unknown action: %s", req.Action)
}

// clampLimit applies the default for unset limits and the server cap.
func (h *Handler) clampLimit(limit, def int) int {
	if limit <= 0 {
		limit = def
	}
	return min(limit, h.config.Server.MaxLimit)
}

func (h *Handler) validateQuery(q string) error {
	if utils.ExceedsLength(q, h.config.Server.MaxQueryLen) {
		return badRequest("query exceeds maximum length of %d characters", h.config.Server.MaxQueryLen)
	}
	if utils.IsRepetitive(q) {
		h.logger.Debug("Repetitive query", "q", q)
	}
	return nil
}

func (h *Handler) fuzzy(req Request) bool {
	if req.Fuzzy != nil {
		return *req.Fuzzy
	}
	return h.config.Search.Fuzzy
}

func (h *Handler) searchOptions(req Request, limit int) []search.Option {
	fuzzy := h.fuzzy(req)
	return []search.Option{
		search.WithLimit(limit),
		search.WithFuzzy(fuzzy),
		search.WithFilter(req.Filter),
	}
}

// Search runs a search and assembles results, suggestions and a message.
func (h *Handler) Search(req Request) (*SearchResponse, error) {
	resp := &SearchResponse{
		ID:      req.ID,
		Query:   req.Query,
		Filter:  req.Filter,
		Results: []Result{},
	}
	if utils.IsBlank(req.Query) {
		resp.Message = "Please provide a search query"
		resp.SearchType = SearchTypeNoQuery
		return resp, nil
	}
	if err := h.validateQuery(req.Query); err != nil {
		return nil, err
	}

	start := time.Now()
	limit := h.clampLimit(req.Limit, h.config.Search.MaxResults)
	key := cacheKey(req.Query, limit, h.fuzzy(req), req.Filter)
	matches, cached := h.cache.Get(key)
	if !cached {
		matches = h.engine.Search(req.Query, h.searchOptions(req, limit)...)
		h.cache.Put(key, matches)
	}
	resp.Results = h.results(matches)
	resp.Count = len(resp.Results)
	resp.SearchType = SearchTypeSmart

	wantSuggestions := req.Suggest == nil || *req.Suggest
	var suggestions []search.Suggestion
	if wantSuggestions && resp.Count < h.config.Search.SuggestBelow {
		suggestions = h.engine.Suggest(req.Query, h.config.Search.MaxSuggestions)
	}

	switch {
	case len(suggestions) > 0:
		resp.Message = fmt.Sprintf("Did you mean one of these? Found %d results for '%s'", resp.Count, req.Query)
	case resp.Count == 0:
		resp.Message = fmt.Sprintf("No results found for '%s'. Try a different spelling or search term.", req.Query)
		suggestions = h.engine.Suggest(req.Query, h.config.Search.FallbackSuggestions)
	default:
		resp.Message = fmt.Sprintf("Found %d results for '%s'", resp.Count, req.Query)
	}
	resp.Suggestions = suggestionItems(suggestions)
	resp.TimeTaken = time.Since(start).Microseconds()

	h.logger.Debugf("Search %q: %d results, %d suggestions in %dµs",
		req.Query, resp.Count, len(resp.Suggestions), resp.TimeTaken)
	return resp, nil
}

// Suggest answers a suggest request.
func (h *Handler) Suggest(req Request) (*SuggestResponse, error) {
	if err := h.validateQuery(req.Query); err != nil {
		return nil, err
	}
	start := time.Now()
	limit := h.clampLimit(req.Limit, h.config.Search.MaxSuggestions)
	items := suggestionItems(h.engine.Suggest(req.Query, limit))
	return &SuggestResponse{
		ID:          req.ID,
		Query:       req.Query,
		Suggestions: items,
		Count:       len(items),
		TimeTaken:   time.Since(start).Microseconds(),
	}, nil
}

// Complete answers a complete request.
func (h *Handler) Complete(req Request) (*CompleteResponse, error) {
	if utils.IsBlank(req.Query) {
		return nil, badRequest("missing 'q' parameter")
	}
	if err := h.validateQuery(req.Query); err != nil {
		return nil, err
	}

	start := time.Now()
	limit := h.clampLimit(req.Limit, h.config.CLI.DefaultLimit)
	completions := h.engine.Complete(req.Query, limit)
	ranks := utils.CreateRankList(len(completions))

	items := make([]CompletionItem, len(completions))
	for i, c := range completions {
		items[i] = CompletionItem{
			Term:     c.Term,
			Score:    c.Score,
			Entities: c.Entities,
			Rank:     ranks[i],
		}
	}
	return &CompleteResponse{
		ID:          req.ID,
		Prefix:      req.Query,
		Completions: items,
		Count:       len(items),
		TimeTaken:   time.Since(start).Microseconds(),
	}, nil
}

// Batch answers a batch request. Queries run in parallel.
func (h *Handler) Batch(ctx context.Context, req Request) (*BatchResponse, error) {
	if len(req.Queries) == 0 {
		return nil, badRequest("missing 'qs' parameter")
	}
	if len(req.Queries) > h.config.Server.MaxBatch {
		return nil, badRequest("batch exceeds maximum of %d queries", h.config.Server.MaxBatch)
	}
	for _, q := range req.Queries {
		if err := h.validateQuery(q); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	limit := h.clampLimit(req.Limit, h.config.Search.MaxResults)
	batches, err := h.engine.SearchBatch(ctx, req.Queries, h.searchOptions(req, limit)...)
	if err != nil {
		return nil, &RequestError{Code: 500, Message: err.Error()}
	}

	results := make([][]Result, len(batches))
	count := 0
	for i, matches := range batches {
		results[i] = h.results(matches)
		count += len(results[i])
	}
	return &BatchResponse{
		ID:        req.ID,
		Queries:   req.Queries,
		Results:   results,
		Count:     count,
		TimeTaken: time.Since(start).Microseconds(),
	}, nil
}

// Foods lists the catalog in order, restricted by the request filter.
func (h *Handler) Foods(req Request) *FoodsResponse {
	cat := h.engine.Catalog()
	names := cat.Filter(req.Filter)
	ranks := utils.CreateRankList(len(names))

	foods := make([]Result, len(names))
	for i, name := range names {
		foods[i] = Result{Name: name, Record: cat.Mapping(name), Rank: ranks[i]}
	}
	return &FoodsResponse{
		ID:      req.ID,
		Filter:  req.Filter,
		Foods:   foods,
		Count:   len(foods),
		Message: fmt.Sprintf("Retrieved all %d foods", len(foods)),
	}
}

// Lookup returns the record stored under the exact name in req.Query.
func (h *Handler) Lookup(req Request) (*LookupResponse, error) {
	if req.Query == "" {
		return nil, badRequest("missing 'q' parameter")
	}
	cat := h.engine.Catalog()
	_, found := cat.Lookup(req.Query)
	return &LookupResponse{
		ID:     req.ID,
		Name:   req.Query,
		Found:  found,
		Record: cat.Mapping(req.Query),
	}, nil
}

// Config updates search settings and saves them.
func (h *Handler) Config(req Request) *ConfigResponse {
	resp := &ConfigResponse{ID: req.ID, Status: "ok"}

	if err := h.config.Update(h.configPath, req.MaxResults, req.MaxSuggestions, req.Fuzzy); err != nil {
		h.logger.Errorf("Failed to save config to %s: %v", h.configPath, err)
		resp.Status = "error"
		resp.Error = err.Error()
	}

	resp.MaxResults = h.config.Search.MaxResults
	resp.MaxSuggestions = h.config.Search.MaxSuggestions
	resp.Fuzzy = h.config.Search.Fuzzy
	return resp
}

// Health reports engine status.
func (h *Handler) Health(req Request) *HealthResponse {
	stats := h.engine.Stats()
	cacheStats := h.cache.Stats()
	return &HealthResponse{
		ID:           req.ID,
		Status:       "healthy",
		Foods:        h.engine.Catalog().Len(),
		Terms:        stats["terms"],
		Postings:     stats["postings"],
		CacheEntries: cacheStats["cacheEntries"],
		CacheHits:    cacheStats["cacheHits"],
		Features:     map[string]bool{
			"case_insensitive":  true,
			"fuzzy_matching":    h.config.Search.Fuzzy,
			"auto_suggestions":  true,
			"typo_correction":   true,
			"prefix_completion": true,
		},
	}
}

func (h *Handler) results(matches []search.Match) []Result {
	cat := h.engine.Catalog()
	ranks := utils.CreateRankList(len(matches))

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Name:      m.Entity,
			Record:    cat.Mapping(m.Entity),
			Kind:      m.Kind,
			Score:     m.Score,
			Relevance: search.Relevance(m.Score),
			Rank:      ranks[i],
			Term:      m.Term,
		}
	}
	return results
}

func suggestionItems(suggestions []search.Suggestion) []SuggestionItem {
	ranks := utils.CreateRankList(len(suggestions))
	items := make([]SuggestionItem, len(suggestions))
	for i, s := range suggestions {
		items[i] = SuggestionItem{
			Text:       s.Text,
			Similarity: s.Similarity,
			Kind:       s.Kind,
			Rank:       ranks[i],
		}
	}
	return items
}
