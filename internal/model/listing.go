package model

// Transport represents per-mode connectivity data as reported by the
// source: numeric distances, booleans or bare presence flags. The shape
// varies between inventories, so it stays schema-loose.
type Transport map[string]interface{}

// Listing represents a land parcel after normalization. Instances are
// built once during ingestion and never mutated; reloading an inventory
// replaces the whole set.
type Listing struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Region       string    `json:"region"`
	Province     string    `json:"province,omitempty"`
	Commune      string    `json:"commune"`
	Locality     string    `json:"locality,omitempty"`
	PropertyType string    `json:"property_type"`
	AreaM2       float64   `json:"area_m2"`
	PricePerM2   float64   `json:"price_per_m2"`
	Zoning       string    `json:"zoning,omitempty"`
	Services     []string  `json:"services,omitempty"`
	Transport    Transport `json:"transport,omitempty"`
	Topography   string    `json:"topography,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	URL          string    `json:"url,omitempty"`
	Macrozone    string    `json:"macrozone"`
	TotalPrice   float64   `json:"total_price"`
}

// AreaHectares returns the parcel surface in hectares.
func (l Listing) AreaHectares() float64 {
	return l.AreaM2 / 10000
}
