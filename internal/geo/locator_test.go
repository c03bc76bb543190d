package geo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"citybus-tracker/internal/transit"
)

var fallback = transit.Coordinate{Lat: 40.7614, Lon: -73.9776}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	c, ok := Resolve(ctx, Fixed{Lat: 1, Lon: 2}, fallback)
	assert.True(t, ok)
	assert.Equal(t, transit.Coordinate{Lat: 1, Lon: 2}, c)

	c, ok = Resolve(ctx, Unavailable{}, fallback)
	assert.False(t, ok)
	assert.Equal(t, fallback, c)

	denied := LocatorFunc(func(context.Context) (transit.Coordinate, error) {
		return transit.Coordinate{}, ErrPermissionDenied
	})
	c, ok = Resolve(ctx, denied, fallback)
	assert.False(t, ok)
	assert.Equal(t, fallback, c)

	c, ok = Resolve(ctx, nil, fallback)
	assert.False(t, ok)
	assert.Equal(t, fallback, c)
}
