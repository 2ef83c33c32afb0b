package model

import "time"

// Evaluation represents the scoring output for one listing
type Evaluation struct {
	Score      float64                `json:"score"`
	Breakdown  map[string]float64     `json:"breakdown"`
	Highlights map[string]interface{} `json:"highlights"`
}

// SearchResult pairs a listing with its evaluation for one query
type SearchResult struct {
	Listing Listing `json:"listing"`
	Evaluation
}

// SearchResponse represents a ranked search response
type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Total   int            `json:"total"` // matches before truncation
	Top     int            `json:"top"`
	Took    int64          `json:"took_ms"` // Response time in milliseconds
}

// GeographyResponse lists the selectable values derived from the loaded
// inventory, used to populate the search form
type GeographyResponse struct {
	Regions          []string            `json:"regions"`
	Communes         []string            `json:"communes"`
	CommunesByRegion map[string][]string `json:"communes_by_region"`
	PropertyTypes    []string            `json:"property_types"`
	Macrozones       []string            `json:"macrozones"`
}

// CatalogSummary describes the currently active inventory
type CatalogSummary struct {
	Listings int       `json:"listings"`
	Regions  int       `json:"regions"`
	Communes int       `json:"communes"`
	Sources  []string  `json:"sources,omitempty"`
	LoadedAt time.Time `json:"loaded_at"`
}

// ReloadRequest represents a catalog reload request
type ReloadRequest struct {
	Sources []string `json:"sources" binding:"required"`
}
