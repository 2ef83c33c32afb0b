// Package ingest validates and coerces raw inventory JSON into
// normalized listings.
package ingest

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"terrasearch/internal/geo"
	"terrasearch/internal/model"
)

// requiredFields must be present as keys on every raw record. A key set
// to null still counts as present; only absence fails.
var requiredFields = []string{"id", "name", "region", "commune", "property_type", "area_m2", "price_per_m2"}

// ValidationError reports a malformed inventory payload or record.
// Index is the 1-based record position and Field the offending field;
// both are zero values for payload-level failures.
type ValidationError struct {
	Index   int    `json:"index,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func recordError(index int, field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Index:   index,
		Field:   field,
		Message: fmt.Sprintf("listing %d: ", index) + fmt.Sprintf(format, args...),
	}
}

// PrepareListings normalizes a parsed JSON value into listings. The value
// must be an array; the first bad record aborts the whole batch so a
// broken inventory never half-loads.
func PrepareListings(data interface{}) ([]model.Listing, error) {
	items, ok := data.([]interface{})
	if !ok {
		return nil, &ValidationError{Message: "inventory is not a JSON array"}
	}

	listings := make([]model.Listing, 0, len(items))
	for i, item := range items {
		listing, err := Normalize(item, i+1)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, nil
}

// Normalize coerces one raw record into a Listing. index is the 1-based
// record position, used only in error messages.
func Normalize(raw interface{}, index int) (model.Listing, error) {
	record, ok := raw.(map[string]interface{})
	if !ok {
		return model.Listing{}, recordError(index, "", "record is not a JSON object")
	}

	for _, field := range requiredFields {
		if _, present := record[field]; !present {
			return model.Listing{}, recordError(index, field, "missing required field %q", field)
		}
	}

	area, ok := coerceNumber(record["area_m2"])
	if !ok || !isFinite(area) || area <= 0 {
		return model.Listing{}, recordError(index, "area_m2", "field %q must be a finite number greater than 0", "area_m2")
	}
	price, ok := coerceNumber(record["price_per_m2"])
	if !ok || !isFinite(price) || price < 0 {
		return model.Listing{}, recordError(index, "price_per_m2", "field %q must be a finite non-negative number", "price_per_m2")
	}

	listing := model.Listing{
		ID:           coerceString(record["id"]),
		Name:         coerceString(record["name"]),
		Region:       coerceString(record["region"]),
		Province:     coerceString(record["province"]),
		Commune:      coerceString(record["commune"]),
		Locality:     coerceString(record["locality"]),
		PropertyType: coerceString(record["property_type"]),
		AreaM2:       area,
		PricePerM2:   price,
		Zoning:       coerceString(record["zoning"]),
		Services:     coerceServices(record["services"]),
		Transport:    coerceTransport(record["transport"]),
		Topography:   coerceString(record["topography"]),
		Notes:        coerceString(record["notes"]),
		URL:          normalizeURL(coerceString(record["url"])),
	}
	listing.Macrozone = geo.Macrozone(listing.Region)
	listing.TotalPrice = listing.AreaM2 * listing.PricePerM2
	return listing, nil
}

// coerceNumber converts loosely-typed JSON values to float64. Null maps
// to 0, booleans to 1/0, numeric strings are parsed after trimming.
func coerceNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, true
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case json.Number:
		parsed, err := v.Float64()
		return parsed, err == nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, true
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}

// coerceString stringifies scalar values. Null and composite values map
// to the empty string.
func coerceString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

func coerceServices(value interface{}) []string {
	entries, ok := value.([]interface{})
	if !ok {
		return nil
	}

	var services []string
	for _, entry := range entries {
		service := strings.TrimSpace(coerceString(entry))
		if service != "" {
			services = append(services, service)
		}
	}
	return services
}

func coerceTransport(value interface{}) model.Transport {
	record, ok := value.(map[string]interface{})
	if !ok {
		return model.Transport{}
	}
	return model.Transport(record)
}

// normalizeURL gives bare host/path values an explicit https scheme.
func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "https://" + strings.TrimLeft(raw, "/")
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
