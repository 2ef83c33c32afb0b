package service

import (
	"sort"
	"time"

	"terrasearch/internal/catalog"
	"terrasearch/internal/criteria"
	"terrasearch/internal/model"
)

// Rank filters, scores and orders listings for one query. The sort is
// stable and descending, so equal scores keep their inventory order.
func Rank(listings []model.Listing, query model.Criteria) []model.SearchResult {
	results := make([]model.SearchResult, 0, len(listings))
	for _, listing := range listings {
		if !Matches(listing, query) {
			continue
		}
		results = append(results, model.SearchResult{
			Listing:    listing,
			Evaluation: Score(listing, query),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// Search runs the full pipeline over the given listings, truncated to
// the requested result count.
func Search(listings []model.Listing, query model.Criteria) []model.SearchResult {
	results := Rank(listings, query)
	top := query.Top
	if top <= 0 {
		top = criteria.DefaultTop
	}
	if len(results) > top {
		results = results[:top]
	}
	return results
}

// SearchService runs queries against the active catalog snapshot
type SearchService struct {
	store *catalog.Store
}

// NewSearchService creates a new search service
func NewSearchService(store *catalog.Store) *SearchService {
	return &SearchService{store: store}
}

// Store exposes the underlying catalog store.
func (s *SearchService) Store() *catalog.Store {
	return s.store
}

// Search ranks the active catalog against the given criteria. It cannot
// fail: an empty catalog or a fully-filtered one yields empty results.
func (s *SearchService) Search(query model.Criteria) *model.SearchResponse {
	startTime := time.Now()

	ranked := Rank(s.store.Active().Listings(), query)
	total := len(ranked)

	top := query.Top
	if top <= 0 {
		top = criteria.DefaultTop
	}
	if len(ranked) > top {
		ranked = ranked[:top]
	}

	return &model.SearchResponse{
		Results: ranked,
		Total:   total,
		Top:     top,
		Took:    time.Since(startTime).Milliseconds(),
	}
}
