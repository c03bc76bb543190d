package dashboard

import (
	"fmt"

	"citybus-tracker/internal/transit"
)

// MaxUpcomingArrivals caps the arrivals list regardless of catalog size.
const MaxUpcomingArrivals = 5

type VehicleRow struct {
	transit.Vehicle
	Badge          string                 `json:"badge"`
	RouteColor     string                 `json:"routeColor"`
	OccupancyStyle transit.OccupancyStyle `json:"occupancyStyle"`
}

type ArrivalRow struct {
	transit.Arrival
	Badge      string        `json:"badge"`
	RouteColor string        `json:"routeColor"`
	Selection  StopSelection `json:"selection"`
}

type ListView struct {
	Title    string       `json:"title"`
	Online   int          `json:"online"`
	Vehicles []VehicleRow `json:"vehicles"`
	Arrivals []ArrivalRow `json:"arrivals"`
}

// FilterVehicles returns the vehicles on route, or all of them when route is
// nil. The result is always a subset of vs in input order.
func FilterVehicles(vs []transit.Vehicle, route *string) []transit.Vehicle {
	if route == nil {
		return vs
	}
	out := make([]transit.Vehicle, 0, len(vs))
	for _, v := range vs {
		if v.Route == *route {
			out = append(out, v)
		}
	}
	return out
}

// BuildListView derives the vehicle list and the upcoming arrivals. Only the
// route filter applies here; the search query does not.
func BuildListView(vs []transit.Vehicle, arrivals []transit.Arrival, f Filter, colors transit.Palette) ListView {
	filtered := FilterVehicles(vs, f.SelectedRoute)

	title := "Active Buses"
	if r, ok := f.Route(); ok {
		title = fmt.Sprintf("%s Buses", r)
	}

	lv := ListView{
		Title:    title,
		Online:   len(filtered),
		Vehicles: make([]VehicleRow, 0, len(filtered)),
	}
	for _, v := range filtered {
		lv.Vehicles = append(lv.Vehicles, VehicleRow{
			Vehicle:        v,
			Badge:          transit.RouteBadge(v.Route),
			RouteColor:     colors.Color(v.Route),
			OccupancyStyle: transit.StyleOccupancy(v.Occupancy),
		})
	}

	n := min(len(arrivals), MaxUpcomingArrivals)
	lv.Arrivals = make([]ArrivalRow, 0, n)
	for _, a := range arrivals[:n] {
		lv.Arrivals = append(lv.Arrivals, ArrivalRow{
			Arrival:    a,
			Badge:      transit.RouteBadge(a.Route),
			RouteColor: colors.Color(a.Route),
			Selection:  SelectionFromArrival(a),
		})
	}
	return lv
}
