package service

import (
	"strings"

	"terrasearch/internal/model"
)

// Matches reports whether a listing passes every active criteria
// constraint. Empty criteria fields impose nothing; the first failing
// check short-circuits.
func Matches(listing model.Listing, criteria model.Criteria) bool {
	if !matchesAny(listing.Region, criteria.PreferredRegions) {
		return false
	}
	if !matchesAny(listing.Commune, criteria.PreferredCommunes) {
		return false
	}
	if !matchesAny(listing.PropertyType, criteria.DesiredPropertyTypes) {
		return false
	}
	if minArea := criteria.EffectiveMinAreaM2(); minArea > 0 && listing.AreaM2 < minArea {
		return false
	}
	if ceilingActive(criteria.MaxTotalPrice) && listing.TotalPrice > *criteria.MaxTotalPrice {
		return false
	}
	if ceilingActive(criteria.MaxPricePerM2) && listing.PricePerM2 > *criteria.MaxPricePerM2 {
		return false
	}
	if !hasAllServices(listing.Services, criteria.RequiredServices) {
		return false
	}
	return true
}

// matchesAny reports case-insensitive membership. An empty candidate set
// imposes no constraint.
func matchesAny(value string, candidates []string) bool {
	if len(candidates) == 0 {
		return true
	}
	for _, candidate := range candidates {
		if strings.EqualFold(value, candidate) {
			return true
		}
	}
	return false
}

// ceilingActive treats nil and zero ceilings as "no limit".
func ceilingActive(ceiling *float64) bool {
	return ceiling != nil && *ceiling != 0
}

func hasAllServices(available, required []string) bool {
	if len(required) == 0 {
		return true
	}
	have := lowerSet(available)
	for _, service := range required {
		if !have[strings.ToLower(service)] {
			return false
		}
	}
	return true
}

func lowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, value := range values {
		set[strings.ToLower(value)] = true
	}
	return set
}
