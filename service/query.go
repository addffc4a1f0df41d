package service

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
)

// Querier is the read surface of a pgx pool or transaction.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Parcel is one row of a parcel table, geometry rendered as WKT.
type Parcel struct {
	ID        int64   `json:"id" doc:"Identifier assigned by the store"`
	Nom       string  `json:"nom" doc:"Commune name"`
	CodeInsee string  `json:"code_insee" doc:"INSEE code of the commune"`
	Section   string  `json:"section" doc:"Cadastral section"`
	Numero    string  `json:"numero" doc:"Parcel number within the section"`
	Surface   float64 `json:"surface" doc:"Declared surface in square meters"`
	Source    string  `json:"source_file" doc:"File the parcel was loaded from"`
	WKT       string  `json:"wkt_geom,omitempty" doc:"Geometry as WKT in the table SRID"`
}

// CommuneCount is a per-commune parcel count.
type CommuneCount struct {
	Nom     string `json:"nom" doc:"Commune name"`
	Parcels int64  `json:"parcels" doc:"Number of parcels"`
}

var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// checkIdent guards table and column names that end up interpolated into
// SQL. Values always travel as bind parameters.
func checkIdent(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("invalid identifier %q", name)
	}
	return nil
}

func parcelsQuery(table, field string) string {
	return fmt.Sprintf(`
		SELECT
			id,
			COALESCE(nom, ''),
			COALESCE(code_insee, ''),
			COALESCE(section, ''),
			COALESCE(numero, ''),
			COALESCE(surface, 0),
			COALESCE(source_file, ''),
			ST_AsText(geom)
		FROM %s
		WHERE %s = $1
		ORDER BY id;`, table, field)
}

// ParcelsByCommune returns all parcels whose commune attribute matches the
// given value.
func ParcelsByCommune(ctx context.Context, db Querier, table, field, value string) ([]Parcel, error) {
	if err := checkIdent(table); err != nil {
		return nil, err
	}
	if err := checkIdent(field); err != nil {
		return nil, err
	}

	rows, err := db.Query(ctx, parcelsQuery(table, field), value)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parcels []Parcel
	for rows.Next() {
		var p Parcel
		if err := rows.Scan(&p.ID, &p.Nom, &p.CodeInsee, &p.Section, &p.Numero, &p.Surface, &p.Source, &p.WKT); err != nil {
			return nil, err
		}
		parcels = append(parcels, p)
	}
	return parcels, rows.Err()
}

func countsQuery(table, field string) string {
	return fmt.Sprintf(`
		SELECT COALESCE(%s, '') AS commune, COUNT(*)
		FROM %s
		GROUP BY 1
		ORDER BY 2 DESC, 1;`, field, table)
}

// CommuneCounts returns the per-commune parcel counts of a table.
func CommuneCounts(ctx context.Context, db Querier, table, field string) ([]CommuneCount, error) {
	if err := checkIdent(table); err != nil {
		return nil, err
	}
	if err := checkIdent(field); err != nil {
		return nil, err
	}

	rows, err := db.Query(ctx, countsQuery(table, field))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []CommuneCount
	for rows.Next() {
		var c CommuneCount
		if err := rows.Scan(&c.Nom, &c.Parcels); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
