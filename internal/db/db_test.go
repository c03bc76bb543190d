package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citybus-tracker/internal/metrics"
	"citybus-tracker/internal/transit"
)

func openMemoryStore(t *testing.T) *SnapshotStore {
	t.Helper()
	conn, driver, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, Ping(context.Background(), conn))

	s := NewSnapshotStore(conn, driver, metrics.NewCollector(time.Second))
	require.NoError(t, s.EnsureSchema(context.Background()))
	return s
}

func TestSnapshotStore_WriteAndTrack(t *testing.T) {
	ctx := context.Background()
	s := openMemoryStore(t)

	c, err := transit.DefaultCatalog()
	require.NoError(t, err)

	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first, err := s.WriteSnapshot(ctx, t0, c.Vehicles)
	require.NoError(t, err)

	moved := append([]transit.Vehicle(nil), c.Vehicles...)
	moved[0].Lat += 0.0004
	moved[0].ETAMinutes = 2
	second, err := s.WriteSnapshot(ctx, t0.Add(5*time.Second+500*time.Millisecond), moved)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	track, err := s.VehicleTrack(ctx, "b1", 10)
	require.NoError(t, err)
	require.Len(t, track, 2)
	assert.Equal(t, second, track[0].SnapshotID, "newest first")
	assert.Equal(t, 2, track[0].ETAMinutes)
	assert.InDelta(t, moved[0].Lat, track[0].Lat, 1e-9)
	assert.True(t, track[1].TakenAt.Equal(t0))

	track, err = s.VehicleTrack(ctx, "b1", 1)
	require.NoError(t, err)
	assert.Len(t, track, 1)

	track, err = s.VehicleTrack(ctx, "nope", 0)
	require.NoError(t, err)
	assert.Empty(t, track)
}

func TestSnapshotStore_EnsureSchemaIdempotent(t *testing.T) {
	s := openMemoryStore(t)
	assert.NoError(t, s.EnsureSchema(context.Background()))
}

func TestSnapshotStore_PublishPositions(t *testing.T) {
	ctx := context.Background()
	s := openMemoryStore(t)
	assert.Equal(t, "snapshots", s.Name())

	v := []transit.Vehicle{{ID: "v1", Route: "X1", Occupancy: "low", ETAMinutes: 3}}
	require.NoError(t, s.PublishPositions(ctx, time.Now(), v))

	track, err := s.VehicleTrack(ctx, "v1", 5)
	require.NoError(t, err)
	assert.Len(t, track, 1)
}
