// Package geo maps Chilean regions to their macrozones.
package geo

import (
	"sort"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MacrozoneUnknown is returned for regions outside the table, including
// the empty string.
const MacrozoneUnknown = "Zona Desconocida"

// macrozoneByRegion covers the 16 Chilean regions. Accented, unaccented
// and apostrophe variants all appear so that inventories typed without
// diacritics still classify.
var macrozoneByRegion = map[string]string{
	"Arica y Parinacota":                        "Norte Grande",
	"Tarapacá":                                  "Norte Grande",
	"Antofagasta":                               "Norte Grande",
	"Atacama":                                   "Norte Chico",
	"Coquimbo":                                  "Norte Chico",
	"Valparaíso":                                "Zona Centro",
	"Metropolitana de Santiago":                 "Zona Centro",
	"Libertador General Bernardo O'Higgins":     "Zona Centro",
	"Libertador General Bernardo O’Higgins":     "Zona Centro",
	"O'Higgins":                                 "Zona Centro",
	"O’Higgins":                                 "Zona Centro",
	"Maule":                                     "Zona Centro-Sur",
	"Ñuble":                                     "Zona Sur",
	"Nuble":                                     "Zona Sur",
	"Biobío":                                    "Zona Sur",
	"Biobio":                                    "Zona Sur",
	"La Araucanía":                              "Zona Sur",
	"Los Ríos":                                  "Zona Sur",
	"Los Lagos":                                 "Zona Austral",
	"Aysén del General Carlos Ibáñez del Campo": "Zona Austral",
	"Aysen del General Carlos Ibanez del Campo": "Zona Austral",
	"Magallanes y de la Antártica Chilena":      "Zona Austral",
}

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// macrozoneByFolded indexes the table under accent-stripped keys so
// spellings like "Valparaiso" or "La Araucania" resolve without being
// listed explicitly.
var macrozoneByFolded = func() map[string]string {
	folded := make(map[string]string, len(macrozoneByRegion))
	for region, zone := range macrozoneByRegion {
		folded[foldAccents(region)] = zone
	}
	return folded
}()

func foldAccents(s string) string {
	result, _, err := transform.String(stripAccents, s)
	if err != nil {
		return s
	}
	return result
}

// Macrozone resolves a region name to its macrozone. Exact spellings win;
// otherwise the accent-stripped form is tried. Unknown regions map to
// MacrozoneUnknown.
func Macrozone(region string) string {
	if zone, ok := macrozoneByRegion[region]; ok {
		return zone
	}
	if zone, ok := macrozoneByFolded[foldAccents(region)]; ok {
		return zone
	}
	return MacrozoneUnknown
}

// Macrozones returns the distinct macrozone names in sorted order, without
// the unknown sentinel.
func Macrozones() []string {
	seen := make(map[string]bool)
	zones := make([]string, 0, 6)
	for _, zone := range macrozoneByRegion {
		if !seen[zone] {
			seen[zone] = true
			zones = append(zones, zone)
		}
	}
	sort.Strings(zones)
	return zones
}
