package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	mmetrics "citybus-tracker/internal/metrics"
	"citybus-tracker/internal/transit"
)

const schema = `
CREATE TABLE IF NOT EXISTS vehicle_snapshots (
	snapshot_id TEXT NOT NULL,
	taken_at    TEXT NOT NULL,
	vehicle_id  TEXT NOT NULL,
	route_id    TEXT NOT NULL,
	lat         DOUBLE PRECISION NOT NULL,
	lon         DOUBLE PRECISION NOT NULL,
	occupancy   TEXT NOT NULL,
	next_stop   TEXT NOT NULL,
	eta_minutes INTEGER NOT NULL,
	PRIMARY KEY (snapshot_id, vehicle_id)
)`

// takenAtLayout is fixed width so that text ordering matches time ordering.
const takenAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

const indexSchema = `CREATE INDEX IF NOT EXISTS vehicle_snapshots_vehicle_taken ON vehicle_snapshots (vehicle_id, taken_at)`

// Open connects to a Postgres or SQLite database chosen from the DSN.
func Open(dsn string) (*sql.DB, string, error) {
	driver, source, err := DriverFor(dsn)
	if err != nil {
		return nil, "", err
	}
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, "", err
	}
	if driver == DriverSQLite {
		// single writer
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(time.Hour)
	} else {
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}
	return db, driver, nil
}

func Ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

// SnapshotStore records the fleet after every tick.
type SnapshotStore struct {
	db      *sql.DB
	driver  string
	metrics *mmetrics.Collector
}

func NewSnapshotStore(db *sql.DB, driver string, metrics *mmetrics.Collector) *SnapshotStore {
	return &SnapshotStore{db: db, driver: driver, metrics: metrics}
}

func (s *SnapshotStore) Name() string { return "snapshots" }

func (s *SnapshotStore) EnsureSchema(ctx context.Context) error {
	for _, q := range []string{schema, indexSchema} {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// PublishPositions writes one snapshot, all rows in one transaction.
func (s *SnapshotStore) PublishPositions(ctx context.Context, at time.Time, vehicles []transit.Vehicle) error {
	_, err := s.WriteSnapshot(ctx, at, vehicles)
	return err
}

// WriteSnapshot stores vehicles under a fresh snapshot id and returns it.
func (s *SnapshotStore) WriteSnapshot(ctx context.Context, at time.Time, vehicles []transit.Vehicle) (uuid.UUID, error) {
	id := uuid.New()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	q := s.rebind(`INSERT INTO vehicle_snapshots
        (snapshot_id, taken_at, vehicle_id, route_id, lat, lon, occupancy, next_stop, eta_minutes)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return uuid.Nil, fmt.Errorf("prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	takenAt := at.UTC().Format(takenAtLayout)
	for _, v := range vehicles {
		if _, err := stmt.ExecContext(ctx, id.String(), takenAt, v.ID, v.Route, v.Lat, v.Lon, string(v.Occupancy), v.NextStop, v.ETAMinutes); err != nil {
			return uuid.Nil, fmt.Errorf("insert snapshot row %s: %w", v.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("commit snapshot: %w", err)
	}
	if s.metrics != nil {
		s.metrics.SnapshotRows.Add(float64(len(vehicles)))
	}
	return id, nil
}

// TrackPoint is one recorded position of a vehicle.
type TrackPoint struct {
	SnapshotID uuid.UUID `json:"snapshotId"`
	TakenAt    time.Time `json:"takenAt"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	ETAMinutes int       `json:"eta"`
}

// VehicleTrack returns up to limit recorded positions of a vehicle, newest
// first.
func (s *SnapshotStore) VehicleTrack(ctx context.Context, vehicleID string, limit int) ([]TrackPoint, error) {
	if limit <= 0 {
		limit = 50
	}
	q := s.rebind(`SELECT snapshot_id, taken_at, lat, lon, eta_minutes
        FROM vehicle_snapshots WHERE vehicle_id = ?
        ORDER BY taken_at DESC LIMIT ?`)
	rows, err := s.db.QueryContext(ctx, q, vehicleID, limit)
	if err != nil {
		return nil, fmt.Errorf("query vehicle track: %w", err)
	}
	defer rows.Close()

	var out []TrackPoint
	for rows.Next() {
		var p TrackPoint
		var id, takenAt string
		if err := rows.Scan(&id, &takenAt, &p.Lat, &p.Lon, &p.ETAMinutes); err != nil {
			return nil, err
		}
		if p.SnapshotID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("bad snapshot id %q: %w", id, err)
		}
		if p.TakenAt, err = time.Parse(takenAtLayout, takenAt); err != nil {
			return nil, fmt.Errorf("bad taken_at %q: %w", takenAt, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// rebind rewrites '?' placeholders to $n for Postgres.
func (s *SnapshotStore) rebind(q string) string {
	if s.driver != DriverPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
