package dashboard

import "citybus-tracker/internal/transit"

type RouteOption struct {
	ID       string `json:"id"`
	Badge    string `json:"badge"`
	Subtitle string `json:"subtitle"`
	Color    string `json:"color"`
	Active   bool   `json:"active"`
}

// FilterView is the search box plus the route picker. The first option is
// always "All Routes" with an empty ID.
type FilterView struct {
	SearchQuery string        `json:"searchQuery"`
	AllActive   bool          `json:"allActive"`
	Options     []RouteOption `json:"options"`
}

func BuildFilterView(routes []transit.Route, f Filter, colors transit.Palette) FilterView {
	selected, ok := f.Route()
	v := FilterView{
		SearchQuery: f.SearchQuery,
		AllActive:   !ok,
		Options:     make([]RouteOption, 0, len(routes)),
	}
	for _, r := range routes {
		v.Options = append(v.Options, RouteOption{
			ID:       r.ID,
			Badge:    transit.RouteBadge(r.ID),
			Subtitle: transit.RouteSubtitle(r.Name),
			Color:    colors.Color(r.ID),
			Active:   ok && r.ID == selected,
		})
	}
	return v
}
