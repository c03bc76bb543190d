package db

import (
	"fmt"
	"strings"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// DriverFor picks the database/sql driver for a snapshot DSN and returns the
// data source to hand to it. postgres:// and postgresql:// URLs go to pgx;
// sqlite://path, file: URIs and bare paths go to SQLite.
func DriverFor(dsn string) (driver, source string, err error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return "", "", fmt.Errorf("empty DSN")
	}
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DriverPostgres, dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		path := strings.TrimPrefix(dsn, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("sqlite DSN has no path: %q", dsn)
		}
		return DriverSQLite, path, nil
	case strings.Contains(dsn, "://"):
		return "", "", fmt.Errorf("unsupported DSN scheme: %q", dsn)
	default:
		return DriverSQLite, dsn, nil
	}
}
