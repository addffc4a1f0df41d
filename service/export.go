package service

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/tebben/cadastreur/utils"
)

// geometryColumns never end up in a CSV export.
var geometryColumns = []string{"geom", "geometry", "wkt_geom", "wkt"}

// ExportCSV writes rows as CSV, dropping geometry columns by header name.
func ExportCSV(w io.Writer, header []string, rows [][]string) error {
	keep := make([]int, 0, len(header))
	kept := make([]string, 0, len(header))
	for i, name := range header {
		if utils.ContainsFold(geometryColumns, name) {
			continue
		}
		keep = append(keep, i)
		kept = append(kept, name)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(kept); err != nil {
		return err
	}
	for _, row := range rows {
		out := make([]string, 0, len(keep))
		for _, i := range keep {
			if i < len(row) {
				out = append(out, row[i])
			} else {
				out = append(out, "")
			}
		}
		if err := cw.Write(out); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParcelsCSV exports parcels, geometry excluded.
func ParcelsCSV(w io.Writer, parcels []Parcel) error {
	header := []string{"id", "nom", "code_insee", "section", "numero", "surface", "source_file"}
	rows := make([][]string, len(parcels))
	for i, p := range parcels {
		rows[i] = []string{
			strconv.FormatInt(p.ID, 10),
			p.Nom,
			p.CodeInsee,
			p.Section,
			p.Numero,
			strconv.FormatFloat(p.Surface, 'f', -1, 64),
			p.Source,
		}
	}
	return ExportCSV(w, header, rows)
}

// StatsCSV exports one commune statistics row, hectare columns included.
func StatsCSV(w io.Writer, stats CommuneStats) error {
	header := []string{
		"commune", "count",
		"total_area", "total_area_ha", "avg_area", "avg_area_ha",
		"min_area", "max_area", "total_perimeter", "avg_perimeter",
	}
	row := []string{
		stats.Commune,
		strconv.FormatInt(stats.Count, 10),
		formatFloat(stats.TotalArea),
		formatFloat(stats.TotalAreaHa()),
		formatFloat(stats.AvgArea),
		formatFloat(stats.AvgAreaHa()),
		formatFloat(stats.MinArea),
		formatFloat(stats.MaxArea),
		formatFloat(stats.TotalPerimeter),
		formatFloat(stats.AvgPerimeter),
	}
	return ExportCSV(w, header, [][]string{row})
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
