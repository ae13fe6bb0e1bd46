// Package places serves the curated budget-destination catalog. Pure
// data: no rendering, no network.
package places

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Place is one curated budget destination.
type Place struct {
	City       string `yaml:"city" json:"city"`
	Tip        string `yaml:"tip" json:"tip"`
	CostRating string `yaml:"cost_rating" json:"cost_rating"`
}

// Catalog holds the curated destinations and general budget advice.
type Catalog struct {
	Places []Place  `yaml:"places" json:"places"`
	Advice []string `yaml:"advice" json:"advice"`
}

// Load parses the embedded default catalog.
func Load() (*Catalog, error) {
	return parse(defaultCatalog)
}

// LoadFile parses a catalog override from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Places) == 0 {
		return nil, fmt.Errorf("catalog has no places")
	}
	return &c, nil
}

// Find returns the place whose city matches name (case-insensitive,
// ignoring the country suffix), or false.
func (c *Catalog) Find(name string) (Place, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, p := range c.Places {
		city := strings.ToLower(p.City)
		if city == needle || strings.ToLower(strings.Split(p.City, ",")[0]) == needle {
			return p, true
		}
	}
	return Place{}, false
}

// coordEntry maps a destination substring to approximate coordinates.
type coordEntry struct {
	substr   string
	lat, lon float64
}

// Approximate centers for known destinations; the last-resort default
// is a generic map center.
var coordTable = []coordEntry{
	{"goa", 15.3004, 74.0855},
	{"delhi", 28.7041, 77.1025},
	{"pondicherry", 11.9416, 79.8083},
	{"puducherry", 11.9416, 79.8083},
	{"kathmandu", 27.7172, 85.3240},
	{"usa", 39.8283, -98.5795},
}

// Coords returns approximate coordinates for a destination name.
func Coords(destination string) (lat, lon float64) {
	needle := strings.ToLower(destination)
	for _, e := range coordTable {
		if strings.Contains(needle, e.substr) {
			return e.lat, e.lon
		}
	}
	return 30.0, 70.0
}
