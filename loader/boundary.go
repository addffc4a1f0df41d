package loader

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tebben/cadastreur/database"
)

// BoundaryLookup resolves the commune containing a geometry. The geometry is
// handed over as WKT in the given source SRID; implementations decide how to
// evaluate containment.
type BoundaryLookup interface {
	Locate(ctx context.Context, wktGeom string, srid int) (string, bool, error)
}

// CommuneBoundaries looks up communes by spatial containment against a
// PostGIS reference table. Containment is tested on the parcel centroid so
// parcels touching a boundary still resolve to exactly one commune.
type CommuneBoundaries struct {
	DB    database.RowQuerier
	Table string
	SRID  int
}

// NewCommuneBoundaries returns a lookup against the given reference table,
// whose geometries are stored in the given SRID.
func NewCommuneBoundaries(db database.RowQuerier, table string, srid int) *CommuneBoundaries {
	return &CommuneBoundaries{DB: db, Table: table, SRID: srid}
}

func (b *CommuneBoundaries) Locate(ctx context.Context, wktGeom string, srid int) (string, bool, error) {
	if srid == 0 {
		srid = b.SRID
	}
	query := fmt.Sprintf(`
		SELECT nom FROM %s
		WHERE ST_Contains(geom, ST_Transform(ST_Centroid(ST_SetSRID(ST_GeomFromText($1), $2::int)), %d))
		LIMIT 1;`, b.Table, b.SRID)

	var nom string
	err := b.DB.QueryRow(ctx, query, wktGeom, srid).Scan(&nom)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return nom, true, nil
}
