package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"LISTEN_ADDR", "TICK_INTERVAL_MS", "SIM_SEED", "FALLBACK_LAT", "FALLBACK_LON",
	"USER_LAT", "USER_LON", "CATALOG_PATH", "NATS_URL", "NATS_SUBJECT_PREFIX",
	"LOG_NATS_SUBJECTS", "METRICS_ADDR", "SNAPSHOT_DSN", "DATABASE_URL",
	"CORS_ORIGINS", "SESSION_TTL_MIN",
}

func clearEnv(t *testing.T) {
	t.Helper()
	// Run from an empty directory so no .env is picked up.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 5*time.Second, cfg.TickInterval)
	assert.Zero(t, cfg.Seed)
	assert.Equal(t, 40.7614, cfg.FallbackLat)
	assert.Equal(t, -73.9776, cfg.FallbackLon)
	assert.False(t, cfg.FallbackFromEnv)
	assert.Nil(t, cfg.UserLocation)
	assert.Empty(t, cfg.NATSURL)
	assert.Equal(t, "citybus.vehicles", cfg.NATSSubjectPrefix)
	assert.False(t, cfg.LogNATSSubjects)
	assert.Empty(t, cfg.SnapshotDSN)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("TICK_INTERVAL_MS", "250")
	t.Setenv("SIM_SEED", "42")
	t.Setenv("USER_LAT", "51.5")
	t.Setenv("USER_LON", "-0.12")
	t.Setenv("LOG_NATS_SUBJECTS", "yes")
	t.Setenv("DATABASE_URL", "postgres://localhost/citybus")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://example.com,")
	t.Setenv("SESSION_TTL_MIN", "5")
	t.Setenv("FALLBACK_LAT", "51.5074")
	t.Setenv("FALLBACK_LON", "-0.1278")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, int64(42), cfg.Seed)
	require.NotNil(t, cfg.UserLocation)
	assert.Equal(t, [2]float64{51.5, -0.12}, *cfg.UserLocation)
	assert.True(t, cfg.LogNATSSubjects)
	assert.Equal(t, "postgres://localhost/citybus", cfg.SnapshotDSN)
	assert.Equal(t, []string{"http://localhost:5173", "https://example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.FallbackFromEnv)
	assert.Equal(t, 51.5074, cfg.FallbackLat)
	assert.Equal(t, -0.1278, cfg.FallbackLon)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"tick zero":         {"TICK_INTERVAL_MS": "0"},
		"tick text":         {"TICK_INTERVAL_MS": "fast"},
		"seed":              {"SIM_SEED": "x"},
		"fallback range":    {"FALLBACK_LAT": "95", "FALLBACK_LON": "0"},
		"fallback lat only": {"FALLBACK_LAT": "51.5"},
		"fallback lon only": {"FALLBACK_LON": "-0.12"},
		"user half":         {"USER_LAT": "40.7"},
		"user range":        {"USER_LAT": "40.7", "USER_LON": "200"},
		"ttl":               {"SESSION_TTL_MIN": "-1"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
