package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"

	"github.com/tebben/cadastreur/database"
	"github.com/tebben/cadastreur/errors"
	"github.com/tebben/cadastreur/geometry"
)

// Mode selects what happens to rows already present in the target table.
type Mode string

const (
	// ModeReplace empties the table before inserting, inside one
	// transaction: a failed replace leaves the previous contents visible.
	ModeReplace Mode = "replace"
	// ModeAppend inserts without touching existing rows. A failure mid-load
	// can leave the batches already committed in place.
	ModeAppend Mode = "append"
)

// ParseMode validates a mode string from the CLI.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case ModeReplace:
		return ModeReplace, nil
	case ModeAppend, "":
		return ModeAppend, nil
	default:
		return "", fmt.Errorf("unknown mode %q, want replace or append", s)
	}
}

// DB is the store handle the loader writes through. *pgxpool.Pool satisfies
// it; tests substitute a fake.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Options configures a single load operation.
type Options struct {
	Path         string
	Table        string
	SRID         int  // target SRID, 2154 when zero
	Mode         Mode // append when empty
	InferCommune bool
	Boundaries   BoundaryLookup // optional, used by commune inference
	BatchSize    int            // rows per INSERT statement, 500 when zero
}

const (
	defaultSRID      = 2154
	defaultBatchSize = 500
)

// record is one row ready for insertion.
type record struct {
	nom       string
	codeInsee string
	section   string
	numero    string
	surface   any // float64 or nil
	wkt       string
}

// Load reads a vector file, normalizes attributes and geometries, and writes
// the records to the target table. It returns the number of rows written.
//
// Reprojection to the target SRID and geometry validity repair are delegated
// to PostGIS: every geometry is passed through
// ST_Multi(ST_MakeValid(ST_Transform(...))) on insert, so stored rows always
// satisfy the MultiPolygon/SRID/validity invariants of the table.
func Load(ctx context.Context, db DB, opts Options) (int, error) {
	if opts.SRID == 0 {
		opts.SRID = defaultSRID
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.Table == "" {
		return 0, errors.WriteFailuref("no target table given")
	}
	mode, err := ParseMode(string(opts.Mode))
	if err != nil {
		return 0, err
	}

	fc, err := ReadFeatures(opts.Path)
	if err != nil {
		return 0, err
	}
	log.Infof("Read %s from %s", fc, opts.Path)

	if len(fc.Features) == 0 {
		return 0, errors.SchemaMismatchf("%s contains no features", opts.Path)
	}

	srcSRID := fc.SRID
	if srcSRID == 0 {
		log.Warnf("No CRS declared by %s, assuming EPSG:%d", opts.Path, opts.SRID)
		srcSRID = opts.SRID
	} else if srcSRID != opts.SRID {
		log.Infof("Reprojecting from EPSG:%d to EPSG:%d", srcSRID, opts.SRID)
	}

	records, geoms, err := buildRecords(ctx, fc, opts, srcSRID)
	if err != nil {
		return 0, err
	}

	stats := geometry.Collect(geoms)
	log.Infof("Geometry statistics: %d features, types %v, total area %.1f", stats.Count, stats.Types, stats.TotalArea)

	if err := database.EnsureParcelTable(ctx, db, opts.Table, opts.SRID); err != nil {
		return 0, errors.WriteFailuref("failed to create table %s: %v", opts.Table, err)
	}

	source := filepath.Base(opts.Path)
	if mode == ModeReplace {
		err = writeReplace(ctx, db, opts, srcSRID, source, records)
	} else {
		err = writeAppend(ctx, db, opts, srcSRID, source, records)
	}
	if err != nil {
		return 0, err
	}

	database.Analyze(ctx, db, opts.Table)
	log.Infof("Loaded %d features into %s", len(records), opts.Table)
	return len(records), nil
}

// buildRecords standardizes attributes, applies commune inference and
// normalizes geometries to closed MultiPolygons.
func buildRecords(ctx context.Context, fc *FeatureCollection, opts Options, srcSRID int) ([]record, []geom.T, error) {
	fromFilename := ""
	if opts.InferCommune {
		fromFilename = InferCommuneFromFilename(opts.Path)
	}

	records := make([]record, 0, len(fc.Features))
	geoms := make([]geom.T, 0, len(fc.Features))
	for i, f := range fc.Features {
		if f.Geom == nil {
			continue
		}

		mp, err := geometry.ForceMultiPolygon(f.Geom)
		if err != nil {
			return nil, nil, errors.SchemaMismatchf("feature %d is not polygonal: %v", i, err)
		}
		wktGeom, err := wkt.Marshal(mp)
		if err != nil {
			return nil, nil, errors.SchemaMismatchf("feature %d cannot be encoded: %v", i, err)
		}

		fields := StandardizeFields(f.Fields)
		rec := record{
			nom:       fieldString(fields["nom"]),
			codeInsee: fieldString(fields["code_insee"]),
			section:   fieldString(fields["section"]),
			numero:    fieldString(fields["numero"]),
			wkt:       wktGeom,
		}
		if surface, ok := fieldFloat(fields["surface"]); ok {
			rec.surface = surface
		}

		// A source without a name column may still identify its commune
		// through an INSEE-style code column.
		if rec.nom == "" {
			if field := DetectCommuneField(fields); field != "" {
				rec.nom = fieldString(fields[field])
			}
		}

		if rec.nom == "" && opts.InferCommune {
			rec.nom, err = inferCommune(ctx, opts, wktGeom, srcSRID, fromFilename)
			if err != nil {
				return nil, nil, err
			}
		}

		records = append(records, rec)
		geoms = append(geoms, mp)
	}

	if len(records) == 0 {
		return nil, nil, errors.SchemaMismatchf("%s has no usable geometries", opts.Path)
	}
	return records, geoms, nil
}

// inferCommune resolves the commune for a record without a commune
// attribute: spatial containment when a boundary layer is injected,
// filename convention otherwise.
func inferCommune(ctx context.Context, opts Options, wktGeom string, srid int, fromFilename string) (string, error) {
	if opts.Boundaries != nil {
		nom, found, err := opts.Boundaries.Locate(ctx, wktGeom, srid)
		if err != nil {
			return "", errors.WriteFailuref("boundary lookup failed: %v", err)
		}
		if found {
			return nom, nil
		}
	}
	if fromFilename != "" {
		return fromFilename, nil
	}
	log.Warnf("Could not infer commune for a feature of %s", opts.Path)
	return "", nil
}

// writeReplace truncates and inserts inside a single transaction so a
// failed replace never leaves partial rows visible.
func writeReplace(ctx context.Context, db DB, opts Options, srcSRID int, source string, records []record) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return errors.WriteFailuref("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	if err := database.Truncate(ctx, tx, opts.Table); err != nil {
		return errors.WriteFailuref("failed to truncate %s: %v", opts.Table, err)
	}
	for start := 0; start < len(records); start += opts.BatchSize {
		end := min(start+opts.BatchSize, len(records))
		if err := insertBatch(ctx, tx, opts, srcSRID, source, records[start:end]); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.WriteFailuref("failed to commit: %v", err)
	}
	return nil
}

// writeAppend inserts batch by batch, each in its own transaction. This is
// the historic behavior: a failure mid-load keeps the committed batches.
func writeAppend(ctx context.Context, db DB, opts Options, srcSRID int, source string, records []record) error {
	for start := 0; start < len(records); start += opts.BatchSize {
		end := min(start+opts.BatchSize, len(records))

		tx, err := db.Begin(ctx)
		if err != nil {
			return errors.WriteFailuref("failed to begin transaction: %v", err)
		}
		if err := insertBatch(ctx, tx, opts, srcSRID, source, records[start:end]); err != nil {
			tx.Rollback(ctx)
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return errors.WriteFailuref("failed to commit: %v", err)
		}
	}
	return nil
}

func insertBatch(ctx context.Context, tx pgx.Tx, opts Options, srcSRID int, source string, batch []record) error {
	query := insertStatement(opts.Table, srcSRID, opts.SRID, len(batch))

	args := make([]any, 0, len(batch)*insertColumns)
	for _, rec := range batch {
		args = append(args, nullable(rec.nom), nullable(rec.codeInsee), nullable(rec.section),
			nullable(rec.numero), rec.surface, source, rec.wkt)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return errors.WriteFailuref("bulk insert into %s failed: %v", opts.Table, err)
	}
	return nil
}

const insertColumns = 7

// insertStatement builds a multi-row INSERT. The geometry parameter is
// normalized store-side: reprojected from the source SRID, repaired with
// ST_MakeValid and forced to MultiPolygon.
func insertStatement(table string, srcSRID, targetSRID, rows int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (nom, code_insee, section, numero, surface, source_file, geom) VALUES ", table)
	for i := 0; i < rows; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		base := i * insertColumns
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d, $%d, $%d, ", base+1, base+2, base+3, base+4, base+5, base+6)
		fmt.Fprintf(&b, "ST_Multi(ST_MakeValid(ST_Transform(ST_SetSRID(ST_GeomFromText($%d), %d), %d))))",
			base+7, srcSRID, targetSRID)
	}
	return b.String()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
