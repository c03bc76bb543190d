package dashboard

import "citybus-tracker/internal/transit"

// Snapshot is a consistent read of the registry.
type Snapshot struct {
	Vehicles     []transit.Vehicle
	Stops        []transit.Stop
	UserLocation *transit.Coordinate
}

// Page composes every view for one selection. It is recomputed on each
// request and never cached.
type Page struct {
	Selection Selection   `json:"selection"`
	Filter    FilterView  `json:"filter"`
	List      ListView    `json:"list"`
	Panel     DetailPanel `json:"panel"`
	Map       MapView     `json:"map"`
}

// Render builds the page. Route colors come from the catalog first.
func Render(c *transit.Catalog, snap Snapshot, sel Selection) Page {
	colors := c.Palette()
	return Page{
		Selection: sel,
		Filter:    BuildFilterView(c.Routes, sel.Filter, colors),
		List:      BuildListView(snap.Vehicles, c.Arrivals, sel.Filter, colors),
		Panel:     BuildDetailPanel(sel.Stop, c.PanelArrivals, colors),
		Map:       BuildMapView(snap.Vehicles, snap.Stops, snap.UserLocation, sel.Filter, colors),
	}
}
