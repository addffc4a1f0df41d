package service

import (
	"context"
	"fmt"
)

// Intersection is one parcel×commune pair from the spatial join.
type Intersection struct {
	ParcelID   int64   `json:"parcel_id"`
	Commune    string  `json:"commune"`
	CodeInsee  string  `json:"code_insee"`
	ParcelArea float64 `json:"parcel_area"`
	SharedArea float64 `json:"shared_area"`
}

func intersectionQuery(parcelTable, communeTable string) string {
	return fmt.Sprintf(`
		SELECT
			p.id,
			COALESCE(c.nom, ''),
			COALESCE(c.code_insee, ''),
			ST_Area(p.geom),
			ST_Area(ST_Intersection(p.geom, c.geom))
		FROM %s p
		JOIN %s c ON ST_Intersects(p.geom, c.geom)
		ORDER BY p.id
		LIMIT $1;`, parcelTable, communeTable)
}

// IntersectionJoin joins parcels against the commune boundary layer with
// ST_Intersects and reports the shared area per pair. Used to sanity check
// a load against the administrative boundaries.
func IntersectionJoin(ctx context.Context, db Querier, parcelTable, communeTable string, limit int) ([]Intersection, error) {
	if err := checkIdent(parcelTable); err != nil {
		return nil, err
	}
	if err := checkIdent(communeTable); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.Query(ctx, intersectionQuery(parcelTable, communeTable), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Intersection
	for rows.Next() {
		var r Intersection
		if err := rows.Scan(&r.ParcelID, &r.Commune, &r.CodeInsee, &r.ParcelArea, &r.SharedArea); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
