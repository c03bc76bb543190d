package dashboard

import "citybus-tracker/internal/transit"

// FallbackStopNumber is shown when the selection carries no stop ID.
const FallbackStopNumber = "001"

type PanelRow struct {
	transit.PanelArrival
	Badge         string                 `json:"badge"`
	RouteColor    string                 `json:"routeColor"`
	CapacityStyle transit.OccupancyStyle `json:"capacityStyle"`
}

type DetailPanel struct {
	Visible       bool       `json:"visible"`
	Name          string     `json:"name,omitempty"`
	StopNumber    string     `json:"stopNumber,omitempty"`
	Arrivals      []PanelRow `json:"arrivals,omitempty"`
	Accessibility string     `json:"accessibility,omitempty"`
	Amenities     string     `json:"amenities,omitempty"`
}

// BuildDetailPanel renders the stop panel. The arrival rows are the static
// catalog rows and do not depend on which stop is selected.
// TODO: look arrivals up per stop once the catalog carries stop-keyed rows.
func BuildDetailPanel(sel *StopSelection, arrivals []transit.PanelArrival, colors transit.Palette) DetailPanel {
	if sel == nil {
		return DetailPanel{}
	}
	p := DetailPanel{
		Visible:       true,
		Name:          sel.Name,
		StopNumber:    sel.ID,
		Arrivals:      make([]PanelRow, 0, len(arrivals)),
		Accessibility: "Accessible",
		Amenities:     "Shelter, Bench",
	}
	if p.StopNumber == "" {
		p.StopNumber = FallbackStopNumber
	}
	for _, a := range arrivals {
		p.Arrivals = append(p.Arrivals, PanelRow{
			PanelArrival:  a,
			Badge:         transit.RouteBadge(a.Route),
			RouteColor:    colors.Color(a.Route),
			CapacityStyle: transit.StyleCapacity(a.Capacity),
		})
	}
	return p
}
