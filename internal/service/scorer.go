package service

import (
	"math"
	"sort"
	"strings"

	"terrasearch/internal/model"
)

// Factor weights. Fixed design constants; component maxima sum to 1.25.
const (
	weightLocation     = 0.25
	weightServices     = 0.4
	weightPrice        = 0.2
	weightConnectivity = 0.15
	weightArea         = 0.2
)

// Breakdown keys, part of the response contract
const (
	FactorLocation     = "ubicación"
	FactorServices     = "servicios"
	FactorPrice        = "precio"
	FactorConnectivity = "conectividad"
	FactorArea         = "superficie"
)

// Location preference labels shown in highlights
const (
	LabelPreferredCommune   = "Comuna preferida"
	LabelAlternativeCommune = "Comuna alternativa"
	LabelPreferredRegion    = "Región preferida"
	LabelAlternativeRegion  = "Región alternativa"
	LabelNoPreference       = "Sin preferencia"
)

// Score evaluates a listing against the criteria. Sparse services or
// transport data lowers the affected component but never errors.
func Score(listing model.Listing, criteria model.Criteria) model.Evaluation {
	breakdown := make(map[string]float64, 5)
	highlights := make(map[string]interface{})
	score := 0.0

	// Location
	highlights["region"] = listing.Region
	highlights["comuna"] = listing.Commune
	highlights["macrozona"] = listing.Macrozone

	locationBase, locationLabel := locationPreference(listing, criteria)
	highlights["ubicacion"] = locationLabel
	breakdown[FactorLocation] = locationBase * weightLocation
	score += breakdown[FactorLocation]

	// Services
	available := lowerSet(listing.Services)
	required := lowerSet(criteria.RequiredServices)
	preferred := lowerSet(criteria.PreferredServices)

	requiredCovered := coveredServices(required, available)
	preferredCovered := coveredServices(preferred, available)

	coverage := 1.0
	if len(required) > 0 {
		coverage = float64(len(requiredCovered)) / float64(len(required))
	}
	preferredScore := 0.5
	if len(preferred) > 0 {
		preferredScore = float64(len(preferredCovered)) / float64(len(preferred))
	}
	breakdown[FactorServices] = weightServices * (0.6*coverage + 0.4*preferredScore)
	score += breakdown[FactorServices]
	highlights["servicios_cubiertos"] = requiredCovered
	highlights["servicios_preferidos"] = preferredCovered

	// Price
	breakdown[FactorPrice] = priceComponent(listing, criteria) * weightPrice
	score += breakdown[FactorPrice]
	highlights["precio_total_clp"] = math.Round(listing.TotalPrice*100) / 100
	highlights["precio_m2_clp"] = listing.PricePerM2

	// Connectivity
	breakdown[FactorConnectivity] = transportScore(listing.Transport, criteria.TransportImportance) * weightConnectivity
	score += breakdown[FactorConnectivity]
	highlights["transporte"] = listing.Transport

	// Area, saturating at 4x the effective minimum
	areaRatio := listing.AreaM2 / math.Max(criteria.EffectiveMinAreaM2(), 1)
	breakdown[FactorArea] = math.Min(areaRatio/4, 1) * weightArea
	score += breakdown[FactorArea]
	highlights["area_m2"] = listing.AreaM2
	highlights["area_ha"] = listing.AreaHectares()

	return model.Evaluation{
		Score:      score,
		Breakdown:  breakdown,
		Highlights: highlights,
	}
}

// locationPreference walks the commune-then-region preference chain. The
// membership test here is exact-case; case-insensitive matching already
// happened in the filter.
func locationPreference(listing model.Listing, criteria model.Criteria) (float64, string) {
	if len(criteria.PreferredCommunes) > 0 {
		if containsExact(criteria.PreferredCommunes, listing.Commune) {
			return 1.0, LabelPreferredCommune
		}
		return 0.3, LabelAlternativeCommune
	}
	if len(criteria.PreferredRegions) > 0 {
		if containsExact(criteria.PreferredRegions, listing.Region) {
			return 1.0, LabelPreferredRegion
		}
		return 0.4, LabelAlternativeRegion
	}
	return 0.7, LabelNoPreference
}

func containsExact(candidates []string, value string) bool {
	for _, candidate := range candidates {
		if candidate == value {
			return true
		}
	}
	return false
}

// priceComponent rates affordability against the configured ceilings.
// The 1.5 ratio clamp is a preserved tuning constant.
func priceComponent(listing model.Listing, criteria model.Criteria) float64 {
	component := 0.6
	if ceilingActive(criteria.MaxTotalPrice) {
		ratio := listing.TotalPrice / *criteria.MaxTotalPrice
		component = math.Max(0, 1-math.Min(ratio, 1.5))
	}
	if ceilingActive(criteria.MaxPricePerM2) {
		ratio := listing.PricePerM2 / *criteria.MaxPricePerM2
		component = (component + math.Max(0, 1-math.Min(ratio, 1.5))) / 2
	}
	return component
}

// transportScore averages per-mode availability under normalized
// importance weights. No weights at all means a flat 0.6.
func transportScore(transport model.Transport, importance map[string]float64) float64 {
	if len(importance) == 0 {
		return 0.6
	}

	total := 0.0
	for _, weight := range importance {
		total += weight
	}
	if total == 0 {
		total = 1
	}

	score := 0.0
	for mode, weight := range importance {
		score += (weight / total) * modeAvailability(mode, transport)
	}
	return score
}

// modeAvailability rates one transport mode from the listing's reported
// data. Recognized modes are carretera, ferrocarril and aeropuerto; any
// other mode earns half credit when its key holds a truthy value.
func modeAvailability(mode string, data model.Transport) float64 {
	mode = strings.ToLower(mode)
	switch mode {
	case "carretera":
		if distance, ok := data["distancia_km"].(float64); ok {
			return math.Max(0, 1-math.Min(distance/10, 1))
		}
		if _, present := data["carretera"]; present {
			return 0.7
		}
		return 0
	case "ferrocarril":
		value := data["ferrocarril"]
		if flag, ok := value.(bool); ok {
			if flag {
				return 1
			}
			return 0
		}
		if truthy(value) {
			return 0.5
		}
		return 0
	case "aeropuerto":
		if distance, ok := data["aeropuerto_km"].(float64); ok {
			return math.Max(0, 1-math.Min(distance/50, 1))
		}
		return 0
	default:
		if truthy(data[mode]) {
			return 0.5
		}
		return 0
	}
}

// truthy mirrors the loose flag semantics of the source inventories:
// null, false, zero, empty strings and empty containers count as absent.
func truthy(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	case []interface{}:
		return len(v) > 0
	case map[string]interface{}:
		return len(v) > 0
	default:
		return true
	}
}

// coveredServices returns the sorted lowercase intersection for display.
func coveredServices(wanted, available map[string]bool) []string {
	covered := make([]string, 0, len(wanted))
	for service := range wanted {
		if available[service] {
			covered = append(covered, service)
		}
	}
	sort.Strings(covered)
	return covered
}
