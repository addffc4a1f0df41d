package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
)

// Executor is the minimal write surface of a pgx pool, connection or
// transaction. Schema statements run against it so callers decide whether
// DDL happens inside a transaction or not.
type Executor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// RowQuerier is the minimal single-row read surface of a pgx pool or
// transaction.
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ParcelTableDDL returns the CREATE TABLE statement for a parcel table.
// Geometries are typed MultiPolygon in the given SRID so the validity and
// projection invariants are enforced by the store itself.
func ParcelTableDDL(table string, srid int) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id BIGSERIAL PRIMARY KEY,
			nom TEXT,
			code_insee TEXT,
			section TEXT,
			numero TEXT,
			surface DOUBLE PRECISION,
			source_file TEXT,
			loaded_at TIMESTAMPTZ DEFAULT now(),
			geom geometry(MultiPolygon, %[2]d)
		);

		CREATE INDEX IF NOT EXISTS %[1]s_geom_idx ON %[1]s USING GIST (geom);
	`, table, srid)
}

// CommuneTableDDL returns the CREATE TABLE statement for the administrative
// boundary reference table used for spatial-join commune inference.
func CommuneTableDDL(table string, srid int) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id BIGSERIAL PRIMARY KEY,
			nom TEXT,
			code_insee TEXT,
			geom geometry(MultiPolygon, %[2]d)
		);

		CREATE INDEX IF NOT EXISTS %[1]s_geom_idx ON %[1]s USING GIST (geom);
	`, table, srid)
}

// EnsureExtensions creates the PostGIS extension if it is not installed.
func EnsureExtensions(ctx context.Context, db Executor) error {
	_, err := db.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS postgis;")
	return err
}

// EnsureParcelTable creates the parcel table and its spatial index when they
// do not exist yet.
func EnsureParcelTable(ctx context.Context, db Executor, table string, srid int) error {
	_, err := db.Exec(ctx, ParcelTableDDL(table, srid))
	return err
}

// EnsureCommuneTable creates the commune reference table and its spatial
// index when they do not exist yet.
func EnsureCommuneTable(ctx context.Context, db Executor, table string, srid int) error {
	_, err := db.Exec(ctx, CommuneTableDDL(table, srid))
	return err
}

// TableExists reports whether a table is present in the public schema.
func TableExists(ctx context.Context, db RowQuerier, table string) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		);`, table).Scan(&exists)
	return exists, err
}

// Truncate empties a table and resets its identity sequence. Used by replace
// mode before the bulk insert, inside the same transaction.
func Truncate(ctx context.Context, db Executor, table string) error {
	_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY;", table))
	return err
}

// Analyze refreshes planner statistics after a bulk load. Failures are only
// logged, a stale plan is not worth failing the load for.
func Analyze(ctx context.Context, db Executor, table string) {
	if _, err := db.Exec(ctx, fmt.Sprintf("ANALYZE %s;", table)); err != nil {
		log.Warnf("Could not analyze %s: %v", table, err)
	}
}

// InitDB creates the PostGIS extension, the parcel table and the commune
// reference table.
func InitDB(ctx context.Context, db Executor, parcelTable, communeTable string, srid int) error {
	if err := EnsureExtensions(ctx, db); err != nil {
		return fmt.Errorf("failed to create postgis extension: %w", err)
	}
	if err := EnsureParcelTable(ctx, db, parcelTable, srid); err != nil {
		return fmt.Errorf("failed to create table %s: %w", parcelTable, err)
	}
	if err := EnsureCommuneTable(ctx, db, communeTable, srid); err != nil {
		return fmt.Errorf("failed to create table %s: %w", communeTable, err)
	}
	return nil
}
