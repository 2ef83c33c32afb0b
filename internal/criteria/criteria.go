// Package criteria builds canonical search criteria from form values and
// criteria files. Both paths funnel through the same coercions so a query
// behaves identically no matter where it came from.
package criteria

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"terrasearch/internal/model"
	"terrasearch/internal/utils"
)

// DefaultTop is the result count used when none was requested. Criteria
// builders leave an unspecified top at zero; consumers fall back to this.
const DefaultTop = 5

const importancePrefix = "importance_"

// FromForm builds criteria from query-string parameters as submitted by
// the search form. Invalid numbers fall back to "no constraint" instead
// of failing, so a half-filled form still searches.
func FromForm(values url.Values) model.Criteria {
	criteria := model.Criteria{
		PreferredRegions:     listParam(values, "preferred_regions", "region"),
		PreferredCommunes:    listParam(values, "preferred_communes", "commune"),
		DesiredPropertyTypes: listParam(values, "desired_property_types", "property_type"),
		RequiredServices:     listParam(values, "required_services"),
		PreferredServices:    listParam(values, "preferred_services"),
		MaxTotalPrice:        ceilingParam(values, "max_price", "max_total_price"),
		MaxPricePerM2:        ceilingParam(values, "max_price_m2", "max_price_per_m2"),
		TransportImportance:  importanceParams(values),
		Top:                  sanitizeTop(intParam(values.Get("top"))),
	}

	// The form has a single minimum-area input; the unit select decides
	// which criteria field receives it.
	if minArea, ok := utils.ParseLocalizedFloat(values.Get("min_area")); ok && minArea > 0 {
		if values.Get("area_unit") == "ha" {
			criteria.MinAreaHectares = minArea
		} else {
			criteria.MinAreaM2 = minArea
		}
	}

	return criteria
}

// Parse builds criteria from a JSON document, falling back to YAML for
// hand-written files. List fields accept a list or a delimited string;
// numeric fields accept numbers or localized numeric strings.
func Parse(data []byte) (model.Criteria, error) {
	data = bytes.TrimPrefix(data, []byte("\uFEFF"))
	if len(bytes.TrimSpace(data)) == 0 {
		return model.Criteria{}, errors.New("criteria payload is empty")
	}

	var record map[string]interface{}
	if jsonErr := json.Unmarshal(data, &record); jsonErr != nil {
		if yamlErr := yaml.Unmarshal(data, &record); yamlErr != nil {
			return model.Criteria{}, fmt.Errorf("parse criteria: %w", jsonErr)
		}
	}
	return fromRecord(record), nil
}

// FromFile loads criteria from a JSON or YAML file.
func FromFile(path string) (model.Criteria, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Criteria{}, fmt.Errorf("read criteria file: %w", err)
	}
	criteria, err := Parse(data)
	if err != nil {
		return model.Criteria{}, fmt.Errorf("criteria file %s: %w", path, err)
	}
	return criteria, nil
}

func fromRecord(record map[string]interface{}) model.Criteria {
	return model.Criteria{
		PreferredRegions:     listValue(record["preferred_regions"]),
		PreferredCommunes:    listValue(record["preferred_communes"]),
		DesiredPropertyTypes: listValue(record["desired_property_types"]),
		MinAreaM2:            floatValue(record["min_area_m2"]),
		MinAreaHectares:      floatValue(record["min_area_hectares"]),
		MaxTotalPrice:        ceilingValue(record["max_total_price"]),
		MaxPricePerM2:        ceilingValue(record["max_price_per_m2"]),
		RequiredServices:     listValue(record["required_services"]),
		PreferredServices:    listValue(record["preferred_services"]),
		TransportImportance:  importanceValue(record["transport_importance"]),
		Top:                  sanitizeTop(intValue(record["top"])),
	}
}

// listParam collects a list field from the first matching parameter name,
// splitting every occurrence on commas and semicolons.
func listParam(values url.Values, names ...string) []string {
	for _, name := range names {
		occurrences, present := values[name]
		if !present {
			continue
		}
		var parts []string
		for _, occurrence := range occurrences {
			parts = append(parts, utils.SplitCSV(occurrence)...)
		}
		if len(parts) > 0 {
			return parts
		}
	}
	return nil
}

// ceilingParam parses a price ceiling; zero, negative or invalid input
// means no limit.
func ceilingParam(values url.Values, names ...string) *float64 {
	for _, name := range names {
		raw := values.Get(name)
		if raw == "" {
			continue
		}
		if parsed, ok := utils.ParseLocalizedFloat(raw); ok && parsed > 0 {
			return &parsed
		}
	}
	return nil
}

// importanceParams reads transport weights from importance_<mode>
// parameters, e.g. importance_carretera=3.
func importanceParams(values url.Values) map[string]float64 {
	var importance map[string]float64
	for key, occurrences := range values {
		mode := strings.TrimPrefix(key, importancePrefix)
		if mode == key || mode == "" || len(occurrences) == 0 {
			continue
		}
		weight, ok := utils.ParseLocalizedFloat(occurrences[0])
		if !ok || weight < 0 {
			continue
		}
		if importance == nil {
			importance = make(map[string]float64)
		}
		importance[mode] = weight
	}
	return importance
}

func intParam(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return parsed
}

func listValue(value interface{}) []string {
	switch v := value.(type) {
	case string:
		return utils.SplitCSV(v)
	case []interface{}:
		var parts []string
		for _, entry := range v {
			part := strings.TrimSpace(stringValue(entry))
			if part != "" {
				parts = append(parts, part)
			}
		}
		return parts
	default:
		return nil
	}
}

func stringValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

func floatValue(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0
		}
		return parsed
	case string:
		parsed, ok := utils.ParseLocalizedFloat(v)
		if !ok {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func intValue(value interface{}) int {
	return int(floatValue(value))
}

func ceilingValue(value interface{}) *float64 {
	parsed := floatValue(value)
	if parsed <= 0 {
		return nil
	}
	return &parsed
}

func importanceValue(value interface{}) map[string]float64 {
	record, ok := value.(map[string]interface{})
	if !ok || len(record) == 0 {
		return nil
	}

	importance := make(map[string]float64, len(record))
	for mode, weight := range record {
		parsed := floatValue(weight)
		if parsed < 0 {
			continue
		}
		importance[mode] = parsed
	}
	if len(importance) == 0 {
		return nil
	}
	return importance
}

// sanitizeTop maps non-positive requests to "unspecified".
func sanitizeTop(top int) int {
	if top <= 0 {
		return 0
	}
	return top
}
