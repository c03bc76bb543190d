package transit

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Catalog is the seed data for one deployment. Vehicles and stops seed the
// registry; the rest is served as-is.
type Catalog struct {
	FallbackLocation Coordinate     `yaml:"fallback_location"`
	Routes           []Route        `yaml:"routes" validate:"required,dive"`
	Stops            []Stop         `yaml:"stops" validate:"dive"`
	Vehicles         []Vehicle      `yaml:"vehicles" validate:"dive"`
	Arrivals         []Arrival      `yaml:"arrivals" validate:"dive"`
	PanelArrivals    []PanelArrival `yaml:"panel_arrivals" validate:"dive"`
}

// DefaultCatalog returns the embedded reference catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalogYAML)
}

// LoadCatalog reads a catalog from path. An empty path selects the embedded
// reference catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := validator.New().Struct(c); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	if err := c.checkUniqueIDs(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) checkUniqueIDs() error {
	seen := make(map[string]bool, len(c.Vehicles))
	for _, v := range c.Vehicles {
		if seen[v.ID] {
			return fmt.Errorf("invalid catalog: duplicate vehicle id %q", v.ID)
		}
		seen[v.ID] = true
	}
	seen = make(map[string]bool, len(c.Stops))
	for _, s := range c.Stops {
		if seen[s.ID] {
			return fmt.Errorf("invalid catalog: duplicate stop id %q", s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

// Palette returns the colors declared by the catalog's routes.
func (c *Catalog) Palette() Palette {
	p := make(Palette, len(c.Routes))
	for _, r := range c.Routes {
		if r.Color != "" {
			p[r.ID] = r.Color
		}
	}
	return p
}

// Route looks up a route by code.
func (c *Catalog) Route(id string) (Route, bool) {
	for _, r := range c.Routes {
		if r.ID == id {
			return r, true
		}
	}
	return Route{}, false
}
