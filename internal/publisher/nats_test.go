package publisher

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citybus-tracker/internal/transit"
)

func TestSubject(t *testing.T) {
	tests := []struct {
		prefix, route, vehicle string
		want                   string
	}{
		{"citybus.vehicles", "M15", "b1", "citybus.vehicles.M15.b1"},
		{"", "M15", "b1", "M15.b1"},
		{" citybus. ", "M 15", "b.1", "citybus.M_15.b_1"},
		{"x", "", "*", "x._._"},
		{"x", "a>b", "c/d", "x.a_b.c_d"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Subject(tc.prefix, tc.route, tc.vehicle))
	}
}

func TestNewPositionMessage(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	v := transit.Vehicle{ID: "b3", Route: "M57", Lat: 40.7736, Lon: -73.9831, Direction: "Eastbound",
		Occupancy: transit.OccupancyHigh, NextStop: "Columbus Circle", ETAMinutes: 5}

	b, err := json.Marshal(NewPositionMessage(v, at))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "b3", got["vehicleId"])
	assert.Equal(t, "M57", got["routeId"])
	assert.Equal(t, "high", got["occupancy"])
	assert.Equal(t, float64(5), got["etaMinutes"])
	assert.Equal(t, "2026-01-02T03:04:05Z", got["timestamp"])
}
