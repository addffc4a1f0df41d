package service

import (
	"context"
	"fmt"

	"github.com/tebben/cadastreur/geometry"
)

// CommuneStats are the spatial aggregates of one commune. Areas are in
// square meters, perimeters in meters (Lambert-93 units).
type CommuneStats struct {
	Commune        string  `json:"commune" doc:"Commune name or INSEE code queried"`
	Count          int64   `json:"count" doc:"Number of parcels"`
	TotalArea      float64 `json:"total_area" doc:"Sum of parcel areas in m²"`
	AvgArea        float64 `json:"avg_area" doc:"Average parcel area in m²"`
	MinArea        float64 `json:"min_area" doc:"Smallest parcel area in m²"`
	MaxArea        float64 `json:"max_area" doc:"Largest parcel area in m²"`
	TotalPerimeter float64 `json:"total_perimeter" doc:"Sum of parcel perimeters in m"`
	AvgPerimeter   float64 `json:"avg_perimeter" doc:"Average parcel perimeter in m"`
}

// TotalAreaHa returns the total area in hectares.
func (s CommuneStats) TotalAreaHa() float64 { return geometry.Hectares(s.TotalArea) }

// AvgAreaHa returns the average area in hectares.
func (s CommuneStats) AvgAreaHa() float64 { return geometry.Hectares(s.AvgArea) }

func statsQuery(table, field string) string {
	return fmt.Sprintf(`
		SELECT
			COUNT(*),
			COALESCE(SUM(ST_Area(geom)), 0),
			COALESCE(AVG(ST_Area(geom)), 0),
			COALESCE(MIN(ST_Area(geom)), 0),
			COALESCE(MAX(ST_Area(geom)), 0),
			COALESCE(SUM(ST_Perimeter(geom)), 0),
			COALESCE(AVG(ST_Perimeter(geom)), 0)
		FROM %s
		WHERE %s = $1;`, table, field)
}

// CommuneStatsFor computes the spatial aggregates of the parcels matching
// the given commune name or code. Area and perimeter are evaluated by the
// store so they are exact in the table's projected system.
func CommuneStatsFor(ctx context.Context, db Querier, table, field, value string) (CommuneStats, error) {
	stats := CommuneStats{Commune: value}
	if err := checkIdent(table); err != nil {
		return stats, err
	}
	if err := checkIdent(field); err != nil {
		return stats, err
	}

	row := db.QueryRow(ctx, statsQuery(table, field), value)
	err := row.Scan(&stats.Count, &stats.TotalArea, &stats.AvgArea, &stats.MinArea,
		&stats.MaxArea, &stats.TotalPerimeter, &stats.AvgPerimeter)
	if err != nil {
		return stats, err
	}
	return stats, nil
}
