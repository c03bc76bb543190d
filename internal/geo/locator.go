package geo

import (
	"context"
	"errors"

	"citybus-tracker/internal/transit"
)

var (
	ErrUnavailable      = errors.New("geolocation unavailable")
	ErrPermissionDenied = errors.New("geolocation permission denied")
)

// Locator requests the current device coordinate. It either succeeds once or
// fails with ErrUnavailable or ErrPermissionDenied.
type Locator interface {
	Locate(ctx context.Context) (transit.Coordinate, error)
}

// Fixed always reports the same coordinate.
type Fixed transit.Coordinate

func (f Fixed) Locate(context.Context) (transit.Coordinate, error) {
	return transit.Coordinate(f), nil
}

// Unavailable models a host without a location capability.
type Unavailable struct{}

func (Unavailable) Locate(context.Context) (transit.Coordinate, error) {
	return transit.Coordinate{}, ErrUnavailable
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (transit.Coordinate, error)

func (f LocatorFunc) Locate(ctx context.Context) (transit.Coordinate, error) { return f(ctx) }

// Resolve performs a single location request and substitutes fallback on any
// failure. A nil locator counts as a missing capability. The returned bool
// reports whether the coordinate came from the locator.
func Resolve(ctx context.Context, l Locator, fallback transit.Coordinate) (transit.Coordinate, bool) {
	if l == nil {
		return fallback, false
	}
	c, err := l.Locate(ctx)
	if err != nil {
		return fallback, false
	}
	return c, true
}
