package geometry

import (
	"math"

	"github.com/twpayne/go-geom"
)

// Stats summarizes a feature collection before it is written to the store.
// Areas are planar, meaningful only for projected coordinate systems.
type Stats struct {
	Count     int
	Types     map[string]int
	Bounds    [4]float64 // minx, miny, maxx, maxy
	TotalArea float64
	MeanArea  float64
	MinArea   float64
	MaxArea   float64
}

// Collect computes collection statistics over the given geometries.
func Collect(geoms []geom.T) Stats {
	stats := Stats{
		Types:  make(map[string]int),
		Bounds: [4]float64{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)},
	}

	for _, g := range geoms {
		if g == nil {
			continue
		}
		stats.Count++
		stats.Types[TypeName(g)]++

		b := g.Bounds()
		stats.Bounds[0] = math.Min(stats.Bounds[0], b.Min(0))
		stats.Bounds[1] = math.Min(stats.Bounds[1], b.Min(1))
		stats.Bounds[2] = math.Max(stats.Bounds[2], b.Max(0))
		stats.Bounds[3] = math.Max(stats.Bounds[3], b.Max(1))

		area := Area(g)
		stats.TotalArea += area
		if stats.Count == 1 {
			stats.MinArea = area
			stats.MaxArea = area
		} else {
			stats.MinArea = math.Min(stats.MinArea, area)
			stats.MaxArea = math.Max(stats.MaxArea, area)
		}
	}

	if stats.Count > 0 {
		stats.MeanArea = stats.TotalArea / float64(stats.Count)
	}
	return stats
}

// Area returns the planar area of a polygonal geometry, 0 for other types.
func Area(g geom.T) float64 {
	switch t := g.(type) {
	case *geom.Polygon:
		return t.Area()
	case *geom.MultiPolygon:
		return t.Area()
	default:
		return 0
	}
}

// Hectares converts an area in square meters to hectares.
func Hectares(squareMeters float64) float64 {
	return squareMeters / 10000
}
