package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"terrasearch/internal/catalog"
	"terrasearch/internal/model"
	"terrasearch/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testListings() []model.Listing {
	return []model.Listing{
		{
			ID: "bio-1", Name: "Lote Coronel", Region: "Biobío", Commune: "Coronel",
			PropertyType: "industrial", AreaM2: 20000, PricePerM2: 100000,
			TotalPrice: 2000000000, Macrozone: "Zona Sur",
			URL: "https://example.cl/bio-1", Services: []string{"electricidad"},
		},
		{
			ID: "bio-2", Name: "Lote Talcahuano", Region: "Biobío", Commune: "Talcahuano",
			PropertyType: "industrial", AreaM2: 5000, PricePerM2: 120000,
			TotalPrice: 600000000, Macrozone: "Zona Sur",
		},
		{
			ID: "rm-1", Name: "Parcela Lampa", Region: "Metropolitana de Santiago", Commune: "Lampa",
			PropertyType: "agrícola", AreaM2: 30000, PricePerM2: 80000,
			TotalPrice: 2400000000, Macrozone: "Zona Centro",
		},
	}
}

func newTestServer(t *testing.T, listings []model.Listing) *httptest.Server {
	t.Helper()

	store := catalog.NewStore()
	if listings != nil {
		store.Swap(catalog.New(listings, []string{"seed"}))
	}
	loader := catalog.NewLoader(5 * time.Second)
	searchService := service.NewSearchService(store)

	preset := model.Criteria{PreferredRegions: []string{"Biobío"}, Top: 3}
	searchHandler := NewSearchHandler(searchService, preset, 5, 100)
	catalogHandler := NewCatalogHandler(store, loader)

	router := gin.New()
	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/search", searchHandler.SearchForm)
		apiV1.POST("/search", searchHandler.Search)
		apiV1.GET("/listings", searchHandler.ListListings)
		apiV1.GET("/listings/:id", searchHandler.GetListing)
		apiV1.GET("/criteria", searchHandler.Criteria)
		apiV1.GET("/geography", catalogHandler.Geography)
		apiV1.GET("/catalog", catalogHandler.Summary)
		apiV1.POST("/catalog/reload", catalogHandler.Reload)
		apiV1.POST("/catalog/upload", catalogHandler.Upload)
	}

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, wantStatus int, out interface{}) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("GET %s status = %d, want %d (body %s)", url, resp.StatusCode, wantStatus, body)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
}

func postJSON(t *testing.T, url, body string, wantStatus int, out interface{}) {
	t.Helper()

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("POST %s status = %d, want %d (body %s)", url, resp.StatusCode, wantStatus, raw)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
}

func TestSearchFormEndpoint(t *testing.T) {
	ts := newTestServer(t, testListings())

	var response model.SearchResponse
	getJSON(t, ts.URL+"/api/v1/search?region=Biob%C3%ADo&top=2", http.StatusOK, &response)

	if response.Total != 2 {
		t.Errorf("Total = %d, want 2", response.Total)
	}
	if len(response.Results) != 2 {
		t.Fatalf("len(Results) = %d, want 2", len(response.Results))
	}
	for _, result := range response.Results {
		if result.Listing.Region != "Biobío" {
			t.Errorf("result region = %q, want Biobío", result.Listing.Region)
		}
	}
	if response.Results[0].Score < response.Results[1].Score {
		t.Error("results are not sorted by descending score")
	}
}

func TestSearchFormEmptyCatalog(t *testing.T) {
	ts := newTestServer(t, nil)

	var response model.SearchResponse
	getJSON(t, ts.URL+"/api/v1/search", http.StatusOK, &response)

	if response.Total != 0 || len(response.Results) != 0 {
		t.Errorf("empty catalog returned %d/%d results", response.Total, len(response.Results))
	}
}

func TestSearchPostEndpoint(t *testing.T) {
	ts := newTestServer(t, testListings())

	var response model.SearchResponse
	postJSON(t, ts.URL+"/api/v1/search", `{"preferred_regions": ["Biobío"], "top": 1}`, http.StatusOK, &response)

	if response.Total != 2 || len(response.Results) != 1 {
		t.Errorf("Total = %d, len(Results) = %d, want 2 and 1", response.Total, len(response.Results))
	}
	if response.Top != 1 {
		t.Errorf("Top = %d, want 1", response.Top)
	}
}

func TestSearchPostAcceptsYAML(t *testing.T) {
	ts := newTestServer(t, testListings())

	payload := "preferred_regions:\n  - Metropolitana de Santiago\ntop: 5\n"
	var response model.SearchResponse
	postJSON(t, ts.URL+"/api/v1/search", payload, http.StatusOK, &response)

	if response.Total != 1 {
		t.Errorf("Total = %d, want 1", response.Total)
	}
}

func TestSearchPostRejectsBadBody(t *testing.T) {
	ts := newTestServer(t, testListings())

	postJSON(t, ts.URL+"/api/v1/search", `{"top": `, http.StatusBadRequest, nil)
}

func TestSearchTopIsCapped(t *testing.T) {
	ts := newTestServer(t, testListings())

	var response model.SearchResponse
	getJSON(t, ts.URL+"/api/v1/search?top=1000", http.StatusOK, &response)

	if response.Top != 100 {
		t.Errorf("Top = %d, want the 100 cap", response.Top)
	}
}

func TestListListingsEndpoint(t *testing.T) {
	ts := newTestServer(t, testListings())

	var response struct {
		Listings []model.Listing `json:"listings"`
		Total    int             `json:"total"`
	}
	getJSON(t, ts.URL+"/api/v1/listings", http.StatusOK, &response)

	if response.Total != 3 || len(response.Listings) != 3 {
		t.Errorf("Total = %d, len = %d, want 3", response.Total, len(response.Listings))
	}
}

func TestGetListingEndpoint(t *testing.T) {
	ts := newTestServer(t, testListings())

	var listing model.Listing
	getJSON(t, ts.URL+"/api/v1/listings/bio-1", http.StatusOK, &listing)
	if listing.Name != "Lote Coronel" {
		t.Errorf("Name = %q, want Lote Coronel", listing.Name)
	}

	getJSON(t, ts.URL+"/api/v1/listings/nope", http.StatusNotFound, nil)
}

func TestCriteriaPresetEndpoint(t *testing.T) {
	ts := newTestServer(t, testListings())

	var preset model.Criteria
	getJSON(t, ts.URL+"/api/v1/criteria", http.StatusOK, &preset)

	if len(preset.PreferredRegions) != 1 || preset.PreferredRegions[0] != "Biobío" {
		t.Errorf("PreferredRegions = %v", preset.PreferredRegions)
	}
	if preset.Top != 3 {
		t.Errorf("Top = %d, want 3", preset.Top)
	}
}

func TestGeographyEndpoint(t *testing.T) {
	ts := newTestServer(t, testListings())

	var geography model.GeographyResponse
	getJSON(t, ts.URL+"/api/v1/geography", http.StatusOK, &geography)

	wantRegions := []string{"Biobío", "Metropolitana de Santiago"}
	if len(geography.Regions) != 2 || geography.Regions[0] != wantRegions[0] || geography.Regions[1] != wantRegions[1] {
		t.Errorf("Regions = %v, want %v", geography.Regions, wantRegions)
	}
	if len(geography.CommunesByRegion["Biobío"]) != 2 {
		t.Errorf("CommunesByRegion[Biobío] = %v", geography.CommunesByRegion["Biobío"])
	}
	if len(geography.PropertyTypes) != 2 {
		t.Errorf("PropertyTypes = %v", geography.PropertyTypes)
	}
}

func TestCatalogReload(t *testing.T) {
	ts := newTestServer(t, testListings())

	var before model.CatalogSummary
	getJSON(t, ts.URL+"/api/v1/catalog", http.StatusOK, &before)
	if before.Listings != 3 {
		t.Fatalf("seed catalog has %d listings, want 3", before.Listings)
	}

	path := filepath.Join(t.TempDir(), "inventory.json")
	payload := `[{"id": "up-1", "name": "Sitio Arica", "region": "Arica y Parinacota",
		"commune": "Arica", "property_type": "industrial", "area_m2": 8000, "price_per_m2": 50000}]`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}

	var summary model.CatalogSummary
	postJSON(t, ts.URL+"/api/v1/catalog/reload", `{"sources": ["`+path+`"]}`, http.StatusOK, &summary)
	if summary.Listings != 1 {
		t.Errorf("reloaded catalog has %d listings, want 1", summary.Listings)
	}
}

func TestCatalogReloadFailureKeepsCatalog(t *testing.T) {
	ts := newTestServer(t, testListings())

	// Unreachable source.
	postJSON(t, ts.URL+"/api/v1/catalog/reload", `{"sources": ["/does/not/exist.json"]}`, http.StatusBadGateway, nil)

	// Source that fails validation.
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte(`[{"id": "bad"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	postJSON(t, ts.URL+"/api/v1/catalog/reload", `{"sources": ["`+path+`"]}`, http.StatusUnprocessableEntity, nil)

	// No sources at all.
	postJSON(t, ts.URL+"/api/v1/catalog/reload", `{"sources": []}`, http.StatusBadRequest, nil)

	// The seed catalog must survive every failed attempt.
	var summary model.CatalogSummary
	getJSON(t, ts.URL+"/api/v1/catalog", http.StatusOK, &summary)
	if summary.Listings != 3 {
		t.Errorf("catalog has %d listings after failed reloads, want 3", summary.Listings)
	}
}

func uploadFile(t *testing.T, url, name, payload string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(payload)); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Post(url, writer.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func TestCatalogUpload(t *testing.T) {
	ts := newTestServer(t, testListings())

	payload := `[{"id": "up-2", "name": "Terreno Quillota", "region": "Valparaíso",
		"commune": "Quillota", "property_type": "agrícola", "area_m2": 12000, "price_per_m2": 30000}]`
	resp := uploadFile(t, ts.URL+"/api/v1/catalog/upload", "inventory.json", payload)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("upload status = %d (body %s)", resp.StatusCode, raw)
	}
	var summary model.CatalogSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if summary.Listings != 1 || len(summary.Sources) != 1 || summary.Sources[0] != "inventory.json" {
		t.Errorf("summary = %+v", summary)
	}
}

func TestCatalogUploadRejectsInvalidInventory(t *testing.T) {
	ts := newTestServer(t, testListings())

	resp := uploadFile(t, ts.URL+"/api/v1/catalog/upload", "broken.json", `[{"id": "bad"}]`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("upload status = %d, want 422", resp.StatusCode)
	}

	var summary model.CatalogSummary
	getJSON(t, ts.URL+"/api/v1/catalog", http.StatusOK, &summary)
	if summary.Listings != 3 {
		t.Errorf("catalog has %d listings after rejected upload, want 3", summary.Listings)
	}
}
