package transit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	assert.Len(t, c.Stops, 6)
	assert.Len(t, c.Vehicles, 5)
	assert.Len(t, c.Routes, 5)
	assert.Len(t, c.Arrivals, 5)
	assert.Len(t, c.PanelArrivals, 4)
	assert.Equal(t, Coordinate{Lat: 40.7614, Lon: -73.9776}, c.FallbackLocation)

	r, ok := c.Route("M104")
	require.True(t, ok)
	assert.Equal(t, "M104 - Broadway", r.Name)

	assert.Equal(t, "City Hall Station", c.Vehicles[0].NextStop)
	assert.Equal(t, OccupancyHigh, c.Vehicles[2].Occupancy)
	assert.True(t, c.Stops[5].Serves("M42"))
}

func TestLoadCatalog_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := []byte(`
routes:
  - { id: X1, name: "X1 - Express" }
vehicles:
  - { id: v1, route: X1, lat: 1, lon: 2, occupancy: low, eta: 2 }
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, c.Vehicles, 1)
	assert.Equal(t, "X1", c.Vehicles[0].Route)
}

func TestParseCatalog_Colors(t *testing.T) {
	c, err := ParseCatalog([]byte("routes:\n  - { id: A, name: A, color: \"#0a7f3c\" }\n  - { id: B, name: B, color: teal }\n"))
	assert.Nil(t, c)
	require.Error(t, err)

	c, err = ParseCatalog([]byte("routes:\n  - { id: A, name: A, color: \"#0a7f3c\" }\n  - { id: M15, name: M15, color: orange }\n  - { id: C, name: C }\n"))
	require.NoError(t, err)

	p := c.Palette()
	assert.Equal(t, "#0a7f3c", p.Color("A"))
	assert.Equal(t, ColorOrange, p.Color("M15"))
	assert.Equal(t, ColorGray, p.Color("C"))
	assert.Equal(t, ColorRed, p.Color("M42"))
}

func TestLoadCatalog_Missing(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseCatalog_Invalid(t *testing.T) {
	tests := map[string]string{
		"no routes":    "stops: []\n",
		"bad latitude": "routes: [{id: A, name: A}]\nstops: [{id: s, name: S, lat: 91, lon: 0}]\n",
		"missing name": "routes: [{id: A}]\n",
		"negative eta": "routes: [{id: A, name: A}]\nvehicles: [{id: v, route: A, eta: -1}]\n",
		"duplicate id": "routes: [{id: A, name: A}]\nvehicles: [{id: v, route: A}, {id: v, route: A}]\n",
		"not yaml":     "routes: [",
		"bad color":    "routes: [{id: A, name: A, color: \"red;x:url(a)\"}]\n",
		"short hex":    "routes: [{id: A, name: A, color: \"#12\"}]\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(doc))
			assert.Error(t, err)
		})
	}
}
