package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog is the static allow-list the chatbot validates against and the
// scraper seeds from.
type Catalog struct {
	// Cities are the supported Location slot values (lower case).
	Cities []string `yaml:"cities"`
	// Cuisines are the supported Cuisine slot values and scrape terms (lower case).
	Cuisines []string `yaml:"cuisines"`
	// CityMarker must appear in a restaurant address for it to be recommended.
	CityMarker string `yaml:"cityMarker"`
	// SearchLocation is the location sent to the business directory.
	SearchLocation string `yaml:"searchLocation"`
}

// DefaultCatalog returns the Manhattan catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		Cities:         []string{"manhattan"},
		Cuisines:       []string{"chinese", "japanese", "thai", "italian", "american", "mexican", "vietnamese", "korean"},
		CityMarker:     "New York",
		SearchLocation: "Manhattan, NY",
	}
}

// LoadCatalog reads a YAML catalog file. Missing sections keep their defaults.
func LoadCatalog(path string) (Catalog, error) {
	catalog := DefaultCatalog()

	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("reading catalog file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return Catalog{}, fmt.Errorf("parsing catalog file %s: %w", path, err)
	}

	catalog.Cities = normalize(catalog.Cities)
	catalog.Cuisines = normalize(catalog.Cuisines)
	if len(catalog.Cities) == 0 || len(catalog.Cuisines) == 0 {
		return Catalog{}, fmt.Errorf("catalog file %s must list at least one city and one cuisine", path)
	}

	return catalog, nil
}

// SupportsCity reports whether city is in the allow-list, ignoring case.
func (c Catalog) SupportsCity(city string) bool {
	return contains(c.Cities, city)
}

// SupportsCuisine reports whether cuisine is in the allow-list, ignoring case.
func (c Catalog) SupportsCuisine(cuisine string) bool {
	return contains(c.Cuisines, cuisine)
}

func contains(values []string, candidate string) bool {
	candidate = strings.ToLower(strings.TrimSpace(candidate))
	for _, v := range values {
		if v == candidate {
			return true
		}
	}
	return false
}

func normalize(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
