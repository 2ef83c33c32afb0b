package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"terrasearch/internal/criteria"
	"terrasearch/internal/model"
	"terrasearch/internal/service"
)

// SearchHandler handles search-related HTTP requests
type SearchHandler struct {
	searchService *service.SearchService
	preset        model.Criteria
	defaultTop    int
	maxTop        int
}

// NewSearchHandler creates a new search handler. The preset criteria
// prefill the web form when the user has not searched yet.
func NewSearchHandler(searchService *service.SearchService, preset model.Criteria, defaultTop, maxTop int) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		preset:        preset,
		defaultTop:    defaultTop,
		maxTop:        maxTop,
	}
}

// Criteria handles GET /api/v1/criteria
func (h *SearchHandler) Criteria(c *gin.Context) {
	c.JSON(http.StatusOK, h.preset)
}

// Search handles POST /api/v1/search with a criteria document (JSON or YAML)
func (h *SearchHandler) Search(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	query, err := criteria.Parse(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid criteria: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.search(query))
}

// SearchForm handles GET /api/v1/search with form-style query parameters
func (h *SearchHandler) SearchForm(c *gin.Context) {
	query := criteria.FromForm(c.Request.URL.Query())
	c.JSON(http.StatusOK, h.search(query))
}

func (h *SearchHandler) search(query model.Criteria) *model.SearchResponse {
	// Validate and cap limits
	if query.Top <= 0 {
		query.Top = h.defaultTop
	}
	if query.Top > h.maxTop {
		query.Top = h.maxTop
	}

	return h.searchService.Search(query)
}

// ListListings handles GET /api/v1/listings
func (h *SearchHandler) ListListings(c *gin.Context) {
	listings := h.searchService.Store().Active().Listings()
	c.JSON(http.StatusOK, gin.H{"listings": listings, "total": len(listings)})
}

// GetListing handles GET /api/v1/listings/:id
func (h *SearchHandler) GetListing(c *gin.Context) {
	listing, ok := h.searchService.Store().Active().Listing(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	c.JSON(http.StatusOK, listing)
}
