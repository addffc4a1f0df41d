package geometry

import (
	"fmt"

	"github.com/twpayne/go-geom"
)

// ForceMultiPolygon converts a polygonal geometry to a MultiPolygon with
// closed rings. Non-polygonal geometries are rejected, heavier repairs
// (self intersections, bowties) are left to ST_MakeValid at insert time.
func ForceMultiPolygon(g geom.T) (*geom.MultiPolygon, error) {
	switch t := g.(type) {
	case *geom.Polygon:
		closed, err := closeRings(t)
		if err != nil {
			return nil, err
		}
		mp := geom.NewMultiPolygon(t.Layout())
		if err := mp.Push(closed); err != nil {
			return nil, err
		}
		return mp, nil
	case *geom.MultiPolygon:
		mp := geom.NewMultiPolygon(t.Layout())
		for i := 0; i < t.NumPolygons(); i++ {
			closed, err := closeRings(t.Polygon(i))
			if err != nil {
				return nil, err
			}
			if err := mp.Push(closed); err != nil {
				return nil, err
			}
		}
		return mp, nil
	case nil:
		return nil, fmt.Errorf("nil geometry")
	default:
		return nil, fmt.Errorf("unsupported geometry type %T", g)
	}
}

// closeRings returns a polygon whose rings all end on their start
// coordinate. Shapefiles produced by some exporters leave rings open.
func closeRings(p *geom.Polygon) (*geom.Polygon, error) {
	coords := p.Coords()
	changed := false
	for i, ring := range coords {
		if len(ring) < 3 {
			return nil, fmt.Errorf("ring %d has %d points, need at least 3", i, len(ring))
		}
		if !ring[0].Equal(p.Layout(), ring[len(ring)-1]) {
			coords[i] = append(ring, ring[0])
			changed = true
		}
	}
	if !changed {
		return p, nil
	}
	return geom.NewPolygon(p.Layout()).SetCoords(coords)
}

// TypeName returns the WKT-style name of a geometry type.
func TypeName(g geom.T) string {
	switch g.(type) {
	case *geom.Point:
		return "Point"
	case *geom.MultiPoint:
		return "MultiPoint"
	case *geom.LineString:
		return "LineString"
	case *geom.MultiLineString:
		return "MultiLineString"
	case *geom.Polygon:
		return "Polygon"
	case *geom.MultiPolygon:
		return "MultiPolygon"
	case *geom.GeometryCollection:
		return "GeometryCollection"
	default:
		return fmt.Sprintf("%T", g)
	}
}
