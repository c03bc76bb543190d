package dashboard

import (
	"slices"
	"sync"

	"citybus-tracker/internal/transit"
)

// StopSelection is the payload of a stop-selected intent. The map emits a
// full stop; the arrivals list emits only a name and a route. Consumers take
// either shape and never check it against the stop registry.
type StopSelection struct {
	ID     string   `json:"id,omitempty"`
	Name   string   `json:"name"`
	Route  string   `json:"route,omitempty"`
	Lat    float64  `json:"lat,omitempty"`
	Lon    float64  `json:"lon,omitempty"`
	Routes []string `json:"routes,omitempty"`
}

func SelectionFromStop(s transit.Stop) StopSelection {
	return StopSelection{ID: s.ID, Name: s.Name, Lat: s.Lat, Lon: s.Lon, Routes: slices.Clone(s.Routes)}
}

func SelectionFromArrival(a transit.Arrival) StopSelection {
	return StopSelection{Name: a.Stop, Route: a.Route}
}

// Filter is the route/search filter state. The query and the route are
// independent; neither constrains the other.
type Filter struct {
	SearchQuery   string  `json:"searchQuery"`
	SelectedRoute *string `json:"selectedRoute"`
}

// Route returns the selected route code and whether one is set.
func (f Filter) Route() (string, bool) {
	if f.SelectedRoute == nil {
		return "", false
	}
	return *f.SelectedRoute, true
}

// Selection is the whole state owned by the top-level container.
type Selection struct {
	Filter
	Stop *StopSelection `json:"selectedStop"`
}

func (s Selection) clone() Selection {
	out := s
	if s.SelectedRoute != nil {
		r := *s.SelectedRoute
		out.SelectedRoute = &r
	}
	if s.Stop != nil {
		st := *s.Stop
		st.Routes = slices.Clone(s.Stop.Routes)
		out.Stop = &st
	}
	return out
}

// Intent is a request from a child view to change the selection.
type Intent interface {
	Kind() string
	apply(*Selection)
}

// SelectRoute sets the route filter; a nil Route selects "All Routes".
type SelectRoute struct{ Route *string }

func (SelectRoute) Kind() string { return "route" }
func (i SelectRoute) apply(s *Selection) {
	if i.Route == nil {
		s.SelectedRoute = nil
		return
	}
	r := *i.Route
	s.SelectedRoute = &r
}

type SetQuery struct{ Query string }

func (SetQuery) Kind() string         { return "query" }
func (i SetQuery) apply(s *Selection) { s.SearchQuery = i.Query }

type SelectStop struct{ Stop StopSelection }

func (SelectStop) Kind() string { return "stop" }
func (i SelectStop) apply(s *Selection) {
	st := i.Stop
	st.Routes = slices.Clone(i.Stop.Routes)
	s.Stop = &st
}

// CloseStop hides the detail panel.
type CloseStop struct{}

func (CloseStop) Kind() string       { return "close" }
func (CloseStop) apply(s *Selection) { s.Stop = nil }

// Container owns one Selection. Views read copies and change it only by
// dispatching intents.
type Container struct {
	mu       sync.Mutex
	sel      Selection
	observer func(kind string)
}

// NewContainer returns a container with nothing selected. observer, if not
// nil, is called with the kind of every dispatched intent.
func NewContainer(observer func(kind string)) *Container {
	return &Container{observer: observer}
}

func (c *Container) Dispatch(i Intent) {
	c.mu.Lock()
	i.apply(&c.sel)
	c.mu.Unlock()
	if c.observer != nil {
		c.observer(i.Kind())
	}
}

func (c *Container) Selection() Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sel.clone()
}
