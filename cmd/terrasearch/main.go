package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"terrasearch/internal/catalog"
	"terrasearch/internal/criteria"
	"terrasearch/internal/model"
	"terrasearch/internal/service"
	"terrasearch/internal/utils"
)

const fetchTimeout = 30 * time.Second

// listFlag collects a repeatable -listings flag.
type listFlag []string

func (f *listFlag) String() string { return strings.Join(*f, ",") }

func (f *listFlag) Set(value string) error {
	*f = append(*f, value)
	return nil
}

func main() {
	var sources listFlag
	flag.Var(&sources, "listings", "Inventory file or URL, repeatable")
	criteriaPath := flag.String("criteria", "config/industrial_criteria.json", "Criteria file (JSON or YAML)")
	top := flag.Int("top", 0, "Number of results to print (overrides the criteria file)")
	flag.Parse()

	if len(sources) == 0 {
		sources = listFlag{"data/sample_listings.json"}
	}

	query, err := criteria.FromFile(*criteriaPath)
	if err != nil {
		log.Fatalf("Failed to load criteria: %v", err)
	}
	if *top > 0 {
		query.Top = *top
	}

	loader := catalog.NewLoader(fetchTimeout)
	loaded, err := loader.Load(context.Background(), sources...)
	if err != nil {
		log.Fatalf("Failed to load inventory: %v", err)
	}

	results := service.Search(loaded.Listings(), query)
	if len(results) == 0 {
		fmt.Println("No se encontraron terrenos que cumplan con los criterios.")
		return
	}

	fmt.Println("Terrenos sugeridos:")
	fmt.Println()
	for _, result := range results {
		fmt.Println(formatResult(result))
		fmt.Println(strings.Repeat("-", 60))
	}
}

func formatResult(result model.SearchResult) string {
	listing := result.Listing
	lines := []string{
		fmt.Sprintf("%s - %s (%s, %s)", listing.ID, listing.Name, listing.Region, listing.Commune),
		fmt.Sprintf("  Score: %.3f", result.Score),
		fmt.Sprintf("  Localidad: %s, %s", listing.Locality, listing.Province),
		fmt.Sprintf("  Superficie: %.0f m² (%.2f ha)", listing.AreaM2, listing.AreaHectares()),
		fmt.Sprintf("  Precio total: %s CLP", utils.FormatCLP(listing.TotalPrice)),
		fmt.Sprintf("  Precio/m²: %s CLP", utils.FormatCLP(listing.PricePerM2)),
		fmt.Sprintf("  Servicios clave: %s", joinOrNA(stringsAt(result.Highlights, "servicios_cubiertos"))),
		fmt.Sprintf("  Servicios preferidos: %s", joinOrNA(stringsAt(result.Highlights, "servicios_preferidos"))),
		fmt.Sprintf("  Transporte: %s", formatTransport(listing.Transport)),
		fmt.Sprintf("  Observaciones: %s", listing.Notes),
		fmt.Sprintf("  Publicación: %s", orDefault(listing.URL, "N/D")),
	}
	return strings.Join(lines, "\n")
}

func formatTransport(transport model.Transport) string {
	if len(transport) == 0 {
		return "N/D"
	}

	keys := make([]string, 0, len(transport))
	for key := range transport {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", key, transport[key]))
	}
	return strings.Join(parts, ", ")
}

func stringsAt(highlights map[string]interface{}, key string) []string {
	values, _ := highlights[key].([]string)
	return values
}

func joinOrNA(values []string) string {
	if len(values) == 0 {
		return "N/A"
	}
	return strings.Join(values, ", ")
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
