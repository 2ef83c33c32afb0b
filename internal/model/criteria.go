package model

// Criteria represents the canonical search input for one query. List
// fields compare case-insensitively in the filter; the scorer matches
// them with original case. Nil or zero ceilings impose no limit.
type Criteria struct {
	PreferredRegions     []string           `json:"preferred_regions,omitempty"`
	PreferredCommunes    []string           `json:"preferred_communes,omitempty"`
	DesiredPropertyTypes []string           `json:"desired_property_types,omitempty"`
	MinAreaM2            float64            `json:"min_area_m2,omitempty"`
	MinAreaHectares      float64            `json:"min_area_hectares,omitempty"`
	MaxTotalPrice        *float64           `json:"max_total_price,omitempty"`
	MaxPricePerM2        *float64           `json:"max_price_per_m2,omitempty"`
	RequiredServices     []string           `json:"required_services,omitempty"`
	PreferredServices    []string           `json:"preferred_services,omitempty"`
	TransportImportance  map[string]float64 `json:"transport_importance,omitempty"`
	Top                  int                `json:"top,omitempty"`
}

// EffectiveMinAreaM2 reconciles the m² and hectare minimums into the one
// threshold shared by filtering and area scoring. A nonzero hectare value
// wins over a smaller m² value.
func (c Criteria) EffectiveMinAreaM2() float64 {
	minM2 := c.MinAreaM2
	if minM2 < 0 {
		minM2 = 0
	}
	if c.MinAreaHectares != 0 {
		if converted := c.MinAreaHectares * 10000; converted > minM2 {
			minM2 = converted
		}
	}
	return minM2
}
