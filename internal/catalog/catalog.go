// Package catalog owns the in-memory listing inventory and the derived
// geography lookups used to populate the search form.
package catalog

import (
	"sort"
	"sync/atomic"
	"time"

	"terrasearch/internal/model"
)

// Catalog is an immutable snapshot of a loaded inventory. A reload
// builds a fresh Catalog and swaps it in whole; in-flight readers keep
// whatever snapshot they already hold.
type Catalog struct {
	listings         []model.Listing
	byID             map[string]model.Listing
	regions          []string
	communes         []string
	communesByRegion map[string][]string
	propertyTypes    []string
	macrozones       []string
	sources          []string
	loadedAt         time.Time
}

// New builds a catalog snapshot from normalized listings. sources names
// where the inventory came from, for the summary endpoint.
func New(listings []model.Listing, sources []string) *Catalog {
	c := &Catalog{
		listings: listings,
		byID:     make(map[string]model.Listing, len(listings)),
		sources:  sources,
		loadedAt: time.Now(),
	}

	regions := make(map[string]bool)
	communes := make(map[string]bool)
	propertyTypes := make(map[string]bool)
	macrozones := make(map[string]bool)
	communesByRegion := make(map[string]map[string]bool)

	for _, listing := range listings {
		c.byID[listing.ID] = listing

		if listing.Region != "" {
			regions[listing.Region] = true
			if listing.Commune != "" {
				if communesByRegion[listing.Region] == nil {
					communesByRegion[listing.Region] = make(map[string]bool)
				}
				communesByRegion[listing.Region][listing.Commune] = true
			}
		}
		if listing.Commune != "" {
			communes[listing.Commune] = true
		}
		if listing.PropertyType != "" {
			propertyTypes[listing.PropertyType] = true
		}
		if listing.Macrozone != "" {
			macrozones[listing.Macrozone] = true
		}
	}

	c.regions = sortedKeys(regions)
	c.communes = sortedKeys(communes)
	c.propertyTypes = sortedKeys(propertyTypes)
	c.macrozones = sortedKeys(macrozones)
	c.communesByRegion = make(map[string][]string, len(communesByRegion))
	for region, set := range communesByRegion {
		c.communesByRegion[region] = sortedKeys(set)
	}

	return c
}

// Listings returns the snapshot's listings in load order. Callers treat
// the slice as read-only.
func (c *Catalog) Listings() []model.Listing {
	return c.listings
}

// Listing looks a single listing up by its id.
func (c *Catalog) Listing(id string) (model.Listing, bool) {
	listing, ok := c.byID[id]
	return listing, ok
}

// Len returns the number of loaded listings.
func (c *Catalog) Len() int {
	return len(c.listings)
}

// Geography returns the selectable values derived from this snapshot.
func (c *Catalog) Geography() model.GeographyResponse {
	return model.GeographyResponse{
		Regions:          c.regions,
		Communes:         c.communes,
		CommunesByRegion: c.communesByRegion,
		PropertyTypes:    c.propertyTypes,
		Macrozones:       c.macrozones,
	}
}

// Summary describes this snapshot for the catalog endpoint.
func (c *Catalog) Summary() model.CatalogSummary {
	return model.CatalogSummary{
		Listings: len(c.listings),
		Regions:  len(c.regions),
		Communes: len(c.communes),
		Sources:  c.sources,
		LoadedAt: c.loadedAt,
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Store publishes the active catalog. Swaps are atomic, so a failed
// reload never disturbs the published snapshot and an in-flight search
// keeps the snapshot it started with.
type Store struct {
	active atomic.Pointer[Catalog]
}

// NewStore creates a store holding an empty catalog.
func NewStore() *Store {
	store := &Store{}
	store.active.Store(New(nil, nil))
	return store
}

// Active returns the current snapshot, never nil.
func (s *Store) Active() *Catalog {
	return s.active.Load()
}

// Swap publishes a new snapshot.
func (s *Store) Swap(c *Catalog) {
	s.active.Store(c)
}
