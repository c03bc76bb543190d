package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr        string
	TickInterval      time.Duration
	Seed              int64
	FallbackLat       float64
	FallbackLon       float64
	FallbackFromEnv   bool        // FALLBACK_* set; overrides the catalog's fallback
	UserLocation      *[2]float64 // lat, lon; nil means no location capability
	CatalogPath       string
	NATSURL           string
	NATSSubjectPrefix string
	LogNATSSubjects   bool
	MetricsAddr       string
	SnapshotDSN       string
	CORSOrigins       []string
	SessionTTL        time.Duration
}

func Load() (*Config, error) {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.ListenAddr = getenvDefault("LISTEN_ADDR", ":8080")

	// Simulation tick interval
	if v := os.Getenv("TICK_INTERVAL_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return nil, fmt.Errorf("invalid TICK_INTERVAL_MS: %q", v)
		}
		cfg.TickInterval = time.Duration(ms) * time.Millisecond
	} else {
		cfg.TickInterval = 5000 * time.Millisecond
	}

	// Random seed; 0 lets the simulator pick one
	if v := os.Getenv("SIM_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid SIM_SEED: %q", v)
		}
		cfg.Seed = seed
	}

	// Fallback location when the user location cannot be read; both parts
	// or neither
	fbLat, fbLon := os.Getenv("FALLBACK_LAT"), os.Getenv("FALLBACK_LON")
	if (fbLat == "") != (fbLon == "") {
		return nil, fmt.Errorf("FALLBACK_LAT and FALLBACK_LON must be set together")
	}
	var err error
	if cfg.FallbackLat, err = parseCoord("FALLBACK_LAT", 40.7614, 90); err != nil {
		return nil, err
	}
	if cfg.FallbackLon, err = parseCoord("FALLBACK_LON", -73.9776, 180); err != nil {
		return nil, err
	}
	cfg.FallbackFromEnv = fbLat != ""

	// Optional device location; both parts or neither
	userLat, userLon := os.Getenv("USER_LAT"), os.Getenv("USER_LON")
	if (userLat == "") != (userLon == "") {
		return nil, fmt.Errorf("USER_LAT and USER_LON must be set together")
	}
	if userLat != "" {
		lat, err := parseCoord("USER_LAT", 0, 90)
		if err != nil {
			return nil, err
		}
		lon, err := parseCoord("USER_LON", 0, 180)
		if err != nil {
			return nil, err
		}
		cfg.UserLocation = &[2]float64{lat, lon}
	}

	cfg.CatalogPath = os.Getenv("CATALOG_PATH")

	// NATS is optional; empty URL disables position publishing
	cfg.NATSURL = os.Getenv("NATS_URL")
	cfg.NATSSubjectPrefix = getenvDefault("NATS_SUBJECT_PREFIX", "citybus.vehicles")
	cfg.LogNATSSubjects = parseBool(os.Getenv("LOG_NATS_SUBJECTS"))

	// Metrics listen address (e.g., ":9102"). Empty disables the metrics server.
	cfg.MetricsAddr = os.Getenv("METRICS_ADDR")

	// Snapshot store: postgres:// URL or SQLite path. Empty disables it.
	cfg.SnapshotDSN = firstNonEmpty(os.Getenv("SNAPSHOT_DSN"), os.Getenv("DATABASE_URL"))

	cfg.CORSOrigins = splitList(getenvDefault("CORS_ORIGINS", "*"))

	if v := os.Getenv("SESSION_TTL_MIN"); v != "" {
		min, err := strconv.Atoi(v)
		if err != nil || min <= 0 {
			return nil, fmt.Errorf("invalid SESSION_TTL_MIN: %q", v)
		}
		cfg.SessionTTL = time.Duration(min) * time.Minute
	} else {
		cfg.SessionTTL = 30 * time.Minute
	}

	return cfg, nil
}

func parseCoord(key string, def, limit float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f < -limit || f > limit {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return f, nil
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
