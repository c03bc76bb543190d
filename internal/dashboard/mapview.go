package dashboard

import (
	"fmt"
	"strings"

	"citybus-tracker/internal/transit"
)

// Position is a marker placement in percent of the map canvas.
type Position struct {
	Left int `json:"left"`
	Top  int `json:"top"`
}

// layout places the k-th item at base + (k*stride mod span) on each axis.
// It is not a projection: distinct items may land on the same spot.
type layout struct {
	baseX, strideX, spanX int
	baseY, strideY, spanY int
}

func (l layout) at(k int) Position {
	return Position{
		Left: l.baseX + (k*l.strideX)%l.spanX,
		Top:  l.baseY + (k*l.strideY)%l.spanY,
	}
}

var (
	stopLayout    = layout{baseX: 20, strideX: 15, spanX: 70, baseY: 30, strideY: 12, spanY: 50}
	vehicleLayout = layout{baseX: 25, strideX: 20, spanX: 60, baseY: 25, strideY: 18, spanY: 60}
	userPosition  = Position{Left: 50, Top: 50}
)

func StopPosition(k int) Position    { return stopLayout.at(k) }
func VehiclePosition(k int) Position { return vehicleLayout.at(k) }

type StopMarker struct {
	transit.Stop
	Position
	Selection StopSelection `json:"selection"`
}

type VehicleMarker struct {
	transit.Vehicle
	Position
	Badge          string                 `json:"badge"`
	RouteColor     string                 `json:"routeColor"`
	OccupancyStyle transit.OccupancyStyle `json:"occupancyStyle"`
}

type UserMarker struct {
	transit.Coordinate
	Position
}

type MapView struct {
	Summary  string          `json:"summary"`
	Vehicles []VehicleMarker `json:"vehicles"`
	Stops    []StopMarker    `json:"stops"`
	User     *UserMarker     `json:"user,omitempty"`
}

// FilterStops keeps the stops served by the selected route. With no route
// selected it matches the query as a case-insensitive substring of the stop
// name instead; an empty query keeps every stop.
func FilterStops(stops []transit.Stop, route *string, query string) []transit.Stop {
	out := make([]transit.Stop, 0, len(stops))
	if route != nil {
		for _, s := range stops {
			if s.Serves(*route) {
				out = append(out, s)
			}
		}
		return out
	}
	q := strings.ToLower(query)
	for _, s := range stops {
		if q == "" || strings.Contains(strings.ToLower(s.Name), q) {
			out = append(out, s)
		}
	}
	return out
}

// BuildMapView derives the map markers. user is nil until the location
// request has resolved.
func BuildMapView(vs []transit.Vehicle, stops []transit.Stop, user *transit.Coordinate, f Filter, colors transit.Palette) MapView {
	fv := FilterVehicles(vs, f.SelectedRoute)
	fs := FilterStops(stops, f.SelectedRoute, f.SearchQuery)

	mv := MapView{
		Summary:  fmt.Sprintf("%d buses • %d stops", len(fv), len(fs)),
		Vehicles: make([]VehicleMarker, 0, len(fv)),
		Stops:    make([]StopMarker, 0, len(fs)),
	}
	for k, s := range fs {
		mv.Stops = append(mv.Stops, StopMarker{
			Stop:      s,
			Position:  StopPosition(k),
			Selection: SelectionFromStop(s),
		})
	}
	for k, v := range fv {
		mv.Vehicles = append(mv.Vehicles, VehicleMarker{
			Vehicle:        v,
			Position:       VehiclePosition(k),
			Badge:          transit.RouteBadge(v.Route),
			RouteColor:     colors.Color(v.Route),
			OccupancyStyle: transit.StyleOccupancy(v.Occupancy),
		})
	}
	if user != nil {
		mv.User = &UserMarker{Coordinate: *user, Position: userPosition}
	}
	return mv
}
