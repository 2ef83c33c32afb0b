package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"terrasearch/internal/catalog"
	"terrasearch/internal/ingest"
	"terrasearch/internal/model"
)

// CatalogHandler handles inventory management HTTP requests
type CatalogHandler struct {
	store  *catalog.Store
	loader *catalog.Loader
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(store *catalog.Store, loader *catalog.Loader) *CatalogHandler {
	return &CatalogHandler{
		store:  store,
		loader: loader,
	}
}

// Geography handles GET /api/v1/geography
func (h *CatalogHandler) Geography(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Active().Geography())
}

// Summary handles GET /api/v1/catalog
func (h *CatalogHandler) Summary(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Active().Summary())
}

// Reload handles POST /api/v1/catalog/reload
func (h *CatalogHandler) Reload(c *gin.Context) {
	var req model.ReloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if len(req.Sources) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No sources provided"})
		return
	}

	loaded, err := h.loader.Load(c.Request.Context(), req.Sources...)
	if err != nil {
		// The published catalog stays untouched on failure.
		c.JSON(reloadStatus(err), gin.H{"error": "Reload failed: " + err.Error()})
		return
	}

	h.store.Swap(loaded)
	c.JSON(http.StatusOK, loaded.Summary())
}

// Upload handles POST /api/v1/catalog/upload with a multipart inventory file
func (h *CatalogHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	listings, err := catalog.DecodeListings(data)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid inventory: " + err.Error()})
		return
	}

	loaded := catalog.New(listings, []string{fileHeader.Filename})
	h.store.Swap(loaded)
	c.JSON(http.StatusOK, loaded.Summary())
}

// reloadStatus distinguishes a rejected inventory from an unreachable
// source.
func reloadStatus(err error) int {
	var validationErr *ingest.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}
