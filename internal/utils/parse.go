package utils

import (
	"strconv"
	"strings"
)

// ParseLocalizedFloat parses numbers the way Chilean users type them:
// "." and spaces (including NBSP) as thousands separators, "," as the
// decimal mark. Returns false for empty or unparseable input.
//   "2.500.000" -> 2500000
//   "1,5"       -> 1.5
//   "12 000"    -> 12000
func ParseLocalizedFloat(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	normalized := strings.NewReplacer(" ", "", " ", "", ".", "").Replace(value)
	normalized = strings.ReplaceAll(normalized, ",", ".")

	// Multiple decimal marks: keep only the last one
	if count := strings.Count(normalized, "."); count > 1 {
		normalized = strings.Replace(normalized, ".", "", count-1)
	}

	parsed, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// SplitCSV splits a comma- or semicolon-delimited string into trimmed,
// non-empty segments. Returns nil for blank input.
func SplitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var parts []string
	for _, segment := range strings.Split(strings.ReplaceAll(raw, ";", ","), ",") {
		segment = strings.TrimSpace(segment)
		if segment != "" {
			parts = append(parts, segment)
		}
	}
	return parts
}

// FormatCLP renders an amount as Chilean pesos with "." as the thousands
// separator and no decimals, e.g. 2500000 -> "$ 2.500.000".
func FormatCLP(value float64) string {
	negative := value < 0
	if negative {
		value = -value
	}

	digits := strconv.FormatFloat(value, 'f', 0, 64)

	var grouped strings.Builder
	for i, digit := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(digit)
	}

	if negative {
		return "$ -" + grouped.String()
	}
	return "$ " + grouped.String()
}
