package transit

import "strings"

// Color names are palette keys; the web layer maps them to CSS.
const (
	ColorBlue   = "blue"
	ColorGreen  = "green"
	ColorYellow = "yellow"
	ColorRed    = "red"
	ColorPurple = "purple"
	ColorOrange = "orange"
	ColorPink   = "pink"
	ColorIndigo = "indigo"
	ColorGray   = "gray"
)

type OccupancyStyle struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var unknownOccupancy = OccupancyStyle{Label: "Unknown", Color: ColorGray}

var occupancyStyles = map[Occupancy]OccupancyStyle{
	OccupancyLow:    {Label: "Low", Color: ColorGreen},
	OccupancyMedium: {Label: "Medium", Color: ColorYellow},
	OccupancyHigh:   {Label: "High", Color: ColorRed},
}

// StyleOccupancy maps an occupancy level to its label and color. Anything
// outside the enum yields Unknown/gray.
func StyleOccupancy(o Occupancy) OccupancyStyle {
	if s, ok := occupancyStyles[o]; ok {
		return s
	}
	return unknownOccupancy
}

// StyleCapacity styles a free-form capacity label ("Medium", "low") through
// the occupancy table, ignoring case.
func StyleCapacity(label string) OccupancyStyle {
	return StyleOccupancy(Occupancy(strings.ToLower(strings.TrimSpace(label))))
}

var routeColors = map[string]string{
	"M15":  ColorBlue,
	"M20":  ColorGreen,
	"M57":  ColorPurple,
	"M104": ColorOrange,
	"M22":  ColorPink,
	"M34":  ColorIndigo,
	"M42":  ColorRed,
}

// RouteColor returns the display color for a route code, gray if unknown.
func RouteColor(route string) string {
	if c, ok := routeColors[route]; ok {
		return c
	}
	return ColorGray
}

// Palette maps route codes to colors. Codes it does not hold fall back to
// RouteColor; a nil Palette is the fallback table alone.
type Palette map[string]string

func (p Palette) Color(route string) string {
	if c, ok := p[route]; ok {
		return c
	}
	return RouteColor(route)
}

// RouteBadge is the short text drawn inside a route marker: the code with
// its "M" prefix removed.
func RouteBadge(route string) string {
	return strings.Replace(route, "M", "", 1)
}

// RouteSubtitle returns the part of a route name after " - ", or the whole
// name when there is no separator.
func RouteSubtitle(name string) string {
	if _, after, ok := strings.Cut(name, " - "); ok {
		return after
	}
	return name
}
