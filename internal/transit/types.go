package transit

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" yaml:"lon" validate:"gte=-180,lte=180"`
}

type Occupancy string

const (
	OccupancyLow    Occupancy = "low"
	OccupancyMedium Occupancy = "medium"
	OccupancyHigh   Occupancy = "high"
)

// Vehicle is a simulated bus. Position and ETA drift every tick; the rest is
// fixed at seeding.
type Vehicle struct {
	ID         string    `json:"id" yaml:"id" validate:"required"`
	Route      string    `json:"route" yaml:"route" validate:"required"`
	Lat        float64   `json:"lat" yaml:"lat" validate:"gte=-90,lte=90"`
	Lon        float64   `json:"lon" yaml:"lon" validate:"gte=-180,lte=180"`
	Direction  string    `json:"direction" yaml:"direction"`
	Occupancy  Occupancy `json:"occupancy" yaml:"occupancy"`
	Capacity   string    `json:"capacity,omitempty" yaml:"capacity"`
	NextStop   string    `json:"nextStop" yaml:"next_stop"`
	ETAMinutes int       `json:"eta" yaml:"eta" validate:"gte=0"`
}

type Stop struct {
	ID     string   `json:"id" yaml:"id" validate:"required"`
	Name   string   `json:"name" yaml:"name" validate:"required"`
	Lat    float64  `json:"lat" yaml:"lat" validate:"gte=-90,lte=90"`
	Lon    float64  `json:"lon" yaml:"lon" validate:"gte=-180,lte=180"`
	Routes []string `json:"routes" yaml:"routes"`
}

// Serves reports whether route is in the stop's route set.
func (s Stop) Serves(route string) bool {
	for _, r := range s.Routes {
		if r == route {
			return true
		}
	}
	return false
}

type Route struct {
	ID    string `json:"id" yaml:"id" validate:"required"`
	Name  string `json:"name" yaml:"name" validate:"required"`
	Color string `json:"color" yaml:"color" validate:"omitempty,hexcolor|oneof=blue green yellow red purple orange pink indigo gray"`
}

// Arrival is a row of the static upcoming-arrivals list. It is not derived
// from vehicle state.
type Arrival struct {
	Stop         string `json:"stop" yaml:"stop" validate:"required"`
	Route        string `json:"route" yaml:"route" validate:"required"`
	ETAMinutes   int    `json:"eta" yaml:"eta" validate:"gte=0"`
	DelayMinutes int    `json:"delay" yaml:"delay" validate:"gte=0"`
}

// PanelArrival is a row of the stop detail panel.
type PanelArrival struct {
	Route        string `json:"route" yaml:"route" validate:"required"`
	Direction    string `json:"direction" yaml:"direction"`
	ETAMinutes   int    `json:"eta" yaml:"eta" validate:"gte=0"`
	DelayMinutes int    `json:"delay" yaml:"delay" validate:"gte=0"`
	Capacity     string `json:"capacity" yaml:"capacity"`
}
