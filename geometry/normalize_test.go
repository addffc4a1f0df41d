package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func square(minx, miny, size float64) *geom.Polygon {
	return geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{minx, miny},
		{minx + size, miny},
		{minx + size, miny + size},
		{minx, miny + size},
		{minx, miny},
	}})
}

func TestForceMultiPolygon_Polygon(t *testing.T) {
	mp, err := ForceMultiPolygon(square(0, 0, 100))
	require.NoError(t, err)
	assert.Equal(t, 1, mp.NumPolygons())
	assert.InDelta(t, 10000.0, mp.Area(), 1e-9)
}

func TestForceMultiPolygon_ClosesOpenRing(t *testing.T) {
	open := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{0, 0}, {100, 0}, {100, 100}, {0, 100},
	}})

	mp, err := ForceMultiPolygon(open)
	require.NoError(t, err)

	ring := mp.Polygon(0).Coords()[0]
	assert.True(t, ring[0].Equal(geom.XY, ring[len(ring)-1]))
	assert.InDelta(t, 10000.0, mp.Area(), 1e-9)
}

func TestForceMultiPolygon_MultiPolygonPassthrough(t *testing.T) {
	src := geom.NewMultiPolygon(geom.XY)
	require.NoError(t, src.Push(square(0, 0, 10)))
	require.NoError(t, src.Push(square(100, 100, 20)))

	mp, err := ForceMultiPolygon(src)
	require.NoError(t, err)
	assert.Equal(t, 2, mp.NumPolygons())
	assert.InDelta(t, 500.0, mp.Area(), 1e-9)
}

func TestForceMultiPolygon_RejectsNonPolygonal(t *testing.T) {
	line := geom.NewLineString(geom.XY).MustSetCoords([]geom.Coord{{0, 0}, {1, 1}})
	_, err := ForceMultiPolygon(line)
	assert.Error(t, err)

	_, err = ForceMultiPolygon(nil)
	assert.Error(t, err)
}

func TestForceMultiPolygon_RejectsDegenerateRing(t *testing.T) {
	degenerate := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{0, 0}, {1, 1},
	}})
	_, err := ForceMultiPolygon(degenerate)
	assert.Error(t, err)
}

func TestCollect(t *testing.T) {
	geoms := []geom.T{
		square(0, 0, 100),          // 10_000 m²
		square(200, 200, 50),       // 2_500 m²
		mustMulti(t, square(0, 0, 10)), // 100 m²
	}

	stats := Collect(geoms)
	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, 2, stats.Types["Polygon"])
	assert.Equal(t, 1, stats.Types["MultiPolygon"])
	assert.InDelta(t, 12600.0, stats.TotalArea, 1e-9)
	assert.InDelta(t, 4200.0, stats.MeanArea, 1e-9)
	assert.InDelta(t, 100.0, stats.MinArea, 1e-9)
	assert.InDelta(t, 10000.0, stats.MaxArea, 1e-9)
	assert.Equal(t, [4]float64{0, 0, 250, 250}, stats.Bounds)
}

func TestCollect_Empty(t *testing.T) {
	stats := Collect(nil)
	assert.Equal(t, 0, stats.Count)
	assert.Zero(t, stats.TotalArea)
}

func TestHectares(t *testing.T) {
	// 201 demo parcels aggregate to roughly 356 ha.
	assert.InDelta(t, 356.0, Hectares(3_560_000), 1e-9)
}

func mustMulti(t *testing.T, p *geom.Polygon) *geom.MultiPolygon {
	t.Helper()
	mp, err := ForceMultiPolygon(p)
	require.NoError(t, err)
	return mp
}
