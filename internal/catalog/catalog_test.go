package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"terrasearch/internal/ingest"
	"terrasearch/internal/model"
)

func sampleListings() []model.Listing {
	return []model.Listing{
		{ID: "a", Region: "Biobío", Commune: "Coronel", PropertyType: "industrial", Macrozone: "Zona Sur", AreaM2: 1000, PricePerM2: 100},
		{ID: "b", Region: "Biobío", Commune: "Talcahuano", PropertyType: "portuario", Macrozone: "Zona Sur", AreaM2: 2000, PricePerM2: 200},
		{ID: "c", Region: "Maule", Commune: "Talca", PropertyType: "industrial", Macrozone: "Zona Centro-Sur", AreaM2: 3000, PricePerM2: 300},
	}
}

func TestCatalogLookups(t *testing.T) {
	c := New(sampleListings(), []string{"test"})

	geography := c.Geography()
	if !reflect.DeepEqual(geography.Regions, []string{"Biobío", "Maule"}) {
		t.Errorf("Regions = %v", geography.Regions)
	}
	if !reflect.DeepEqual(geography.Communes, []string{"Coronel", "Talca", "Talcahuano"}) {
		t.Errorf("Communes = %v", geography.Communes)
	}
	if !reflect.DeepEqual(geography.CommunesByRegion["Biobío"], []string{"Coronel", "Talcahuano"}) {
		t.Errorf("CommunesByRegion[Biobío] = %v", geography.CommunesByRegion["Biobío"])
	}
	if !reflect.DeepEqual(geography.PropertyTypes, []string{"industrial", "portuario"}) {
		t.Errorf("PropertyTypes = %v", geography.PropertyTypes)
	}
	if !reflect.DeepEqual(geography.Macrozones, []string{"Zona Centro-Sur", "Zona Sur"}) {
		t.Errorf("Macrozones = %v", geography.Macrozones)
	}

	if listing, ok := c.Listing("b"); !ok || listing.Commune != "Talcahuano" {
		t.Errorf("Listing(b) = %+v, %v", listing, ok)
	}
	if _, ok := c.Listing("missing"); ok {
		t.Error("Listing(missing) should not be found")
	}

	summary := c.Summary()
	if summary.Listings != 3 || summary.Regions != 2 || summary.Communes != 3 {
		t.Errorf("Summary = %+v", summary)
	}
	if !reflect.DeepEqual(summary.Sources, []string{"test"}) {
		t.Errorf("Sources = %v", summary.Sources)
	}
}

func TestStoreSwap(t *testing.T) {
	store := NewStore()
	if store.Active() == nil || store.Active().Len() != 0 {
		t.Fatalf("new store should hold an empty catalog, got %+v", store.Active())
	}

	first := New(sampleListings(), []string{"first"})
	store.Swap(first)
	if store.Active() != first {
		t.Error("Swap() did not publish the new snapshot")
	}

	// A reader holding the old snapshot is unaffected by later swaps.
	held := store.Active()
	store.Swap(New(nil, []string{"second"}))
	if held.Len() != 3 {
		t.Errorf("held snapshot changed under reader: %d listings", held.Len())
	}
	if store.Active().Len() != 0 {
		t.Errorf("active snapshot = %d listings, want 0", store.Active().Len())
	}
}

const validInventory = `[
	{"id": "f-1", "name": "Lote 1", "region": "Maule", "commune": "Talca", "property_type": "industrial", "area_m2": 100, "price_per_m2": 10},
	{"id": "f-2", "name": "Lote 2", "region": "Biobío", "commune": "Coronel", "property_type": "industrial", "area_m2": 200, "price_per_m2": 20}
]`

func TestLoaderLocalFiles(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.json")
	pathB := filepath.Join(dir, "b.json")
	second := `[{"id": "g-1", "name": "Lote 3", "region": "Ñuble", "commune": "Chillán", "property_type": "agrícola", "area_m2": 300, "price_per_m2": 30}]`
	if err := os.WriteFile(pathA, []byte(validInventory), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pathB, []byte(second), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(5 * time.Second)
	c, err := loader.Load(context.Background(), pathA, pathB)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}
	// Merge preserves source order
	ids := []string{c.Listings()[0].ID, c.Listings()[1].ID, c.Listings()[2].ID}
	if !reflect.DeepEqual(ids, []string{"f-1", "f-2", "g-1"}) {
		t.Errorf("merged order = %v", ids)
	}
	if c.Listings()[2].Macrozone != "Zona Sur" {
		t.Errorf("Macrozone = %q, want %q", c.Listings()[2].Macrozone, "Zona Sur")
	}
}

func TestLoaderHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(validInventory))
	}))
	defer server.Close()

	loader := NewLoader(5 * time.Second)
	c, err := loader.Load(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestLoaderFailures(t *testing.T) {
	loader := NewLoader(5 * time.Second)

	if _, err := loader.Load(context.Background()); err == nil {
		t.Error("Load() with no sources should fail")
	}

	_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("Load() of a missing file should fail")
	}
	if !strings.Contains(err.Error(), "could not load inventory") {
		t.Errorf("error = %q, want retrieval wording", err.Error())
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()
	if _, err := loader.Load(context.Background(), server.URL); err == nil {
		t.Error("Load() should fail on a non-200 response")
	}
}

func TestLoaderFailureLeavesNoPartialResult(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(good, []byte(validInventory), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte(`[{"name": "sin id"}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(5 * time.Second)
	c, err := loader.Load(context.Background(), good, bad)
	if err == nil {
		t.Fatal("Load() should fail when any source is invalid")
	}
	if c != nil {
		t.Errorf("failed load returned a catalog with %d listings", c.Len())
	}

	var verr *ingest.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("error chain should carry *ingest.ValidationError, got %v", err)
	}
}

func TestDecodeListings(t *testing.T) {
	withBOM := "\uFEFF" + validInventory
	listings, err := DecodeListings([]byte(withBOM))
	if err != nil {
		t.Fatalf("DecodeListings() error = %v", err)
	}
	if len(listings) != 2 {
		t.Errorf("len = %d, want 2", len(listings))
	}

	if _, err := DecodeListings([]byte("{broken")); err == nil {
		t.Error("DecodeListings() should fail on invalid JSON")
	}

	_, err = DecodeListings([]byte(`{"not": "an array"}`))
	var verr *ingest.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("non-array payload should yield *ingest.ValidationError, got %v", err)
	}
}
