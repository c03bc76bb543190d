package sim

import (
	"math/rand"
	"slices"
	"sync"

	"citybus-tracker/internal/transit"
)

// Registry owns the only non-derived mutable state: the vehicle list, the
// stop list and the resolved user location. Readers always get copies.
type Registry struct {
	mu       sync.RWMutex
	vehicles []transit.Vehicle
	stops    []transit.Stop
	userLoc  *transit.Coordinate
	ticks    uint64
}

func NewRegistry(stops []transit.Stop, vehicles []transit.Vehicle) *Registry {
	r := &Registry{
		vehicles: slices.Clone(vehicles),
		stops:    make([]transit.Stop, len(stops)),
	}
	for i, s := range stops {
		s.Routes = slices.Clone(s.Routes)
		r.stops[i] = s
	}
	return r
}

// NewRegistryFromCatalog seeds a registry with the catalog's stops and
// vehicles.
func NewRegistryFromCatalog(c *transit.Catalog) *Registry {
	return NewRegistry(c.Stops, c.Vehicles)
}

func (r *Registry) Vehicles() []transit.Vehicle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.vehicles)
}

func (r *Registry) Stops() []transit.Stop {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]transit.Stop, len(r.stops))
	for i, s := range r.stops {
		s.Routes = slices.Clone(s.Routes)
		out[i] = s
	}
	return out
}

// UserLocation returns the resolved user coordinate, if any.
func (r *Registry) UserLocation() (transit.Coordinate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.userLoc == nil {
		return transit.Coordinate{}, false
	}
	return *r.userLoc, true
}

func (r *Registry) setUserLocation(c transit.Coordinate) {
	r.mu.Lock()
	r.userLoc = &c
	r.mu.Unlock()
}

// Ticks is the number of ticks applied so far.
func (r *Registry) Ticks() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ticks
}

// Advance applies Step to every vehicle in place and returns the new state.
func (r *Registry) Advance(rng *rand.Rand) []transit.Vehicle {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.vehicles {
		r.vehicles[i] = Step(r.vehicles[i], rng)
	}
	r.ticks++
	return slices.Clone(r.vehicles)
}
