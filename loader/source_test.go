package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tebben/cadastreur/errors"
)

const lambert93PRJ = `PROJCS["RGF93_Lambert_93",GEOGCS["GCS_RGF_1993",DATUM["D_RGF_1993",SPHEROID["GRS_1980",6378137.0,298.257222101]]],PROJECTION["Lambert_Conformal_Conic"]]`

func writeGeoJSON(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func parcelGeoJSON(features ...string) string {
	out := `{"type":"FeatureCollection","features":[`
	for i, f := range features {
		if i > 0 {
			out += ","
		}
		out += f
	}
	return out + `]}`
}

func parcelFeature(nom, insee, section, numero string, surface, lon, lat float64) string {
	return fmt.Sprintf(`{"type":"Feature","properties":{"NOM_COM":%q,"CODE_INSEE":%q,"SECTION":%q,"NUMERO":%q,"SURFACE":%v},
		"geometry":{"type":"Polygon","coordinates":[[[%[6]v,%[7]v],[%[6]v,%[8]v],[%[9]v,%[8]v],[%[9]v,%[7]v],[%[6]v,%[7]v]]]}}`,
		nom, insee, section, numero, surface, lon, lat, lat+0.001, lon+0.001)
}

func TestReadFeatures_GeoJSON(t *testing.T) {
	path := writeGeoJSON(t, t.TempDir(), "parcelles.geojson", parcelGeoJSON(
		parcelFeature("Dijon", "21231", "ZK", "0001", 1500.0, 5.02, 47.31),
		parcelFeature("Chenôve", "21166", "AB", "0002", 980.3, 5.00, 47.28),
	))

	fc, err := ReadFeatures(path)
	require.NoError(t, err)
	assert.Equal(t, 4326, fc.SRID)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "Dijon", fc.Features[0].Fields["NOM_COM"])
	assert.NotNil(t, fc.Features[0].Geom)
}

func TestReadFeatures_GeoJSONSkipsNullGeometries(t *testing.T) {
	path := writeGeoJSON(t, t.TempDir(), "parcelles.geojson", parcelGeoJSON(
		`{"type":"Feature","properties":{"NOM_COM":"Talant"},"geometry":null}`,
		parcelFeature("Dijon", "21231", "ZK", "0001", 1500.0, 5.02, 47.31),
	))

	fc, err := ReadFeatures(path)
	require.NoError(t, err)
	assert.Len(t, fc.Features, 1)
}

func TestReadFeatures_MissingFile(t *testing.T) {
	_, err := ReadFeatures(filepath.Join(t.TempDir(), "nope.geojson"))
	assert.ErrorIs(t, err, errors.ErrSourceNotFound)
}

func TestReadFeatures_UnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "parcelles.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n"), 0o644))

	_, err := ReadFeatures(path)
	assert.ErrorIs(t, err, errors.ErrSourceNotFound)
}

func TestReadFeatures_InvalidGeoJSON(t *testing.T) {
	path := writeGeoJSON(t, t.TempDir(), "broken.geojson", `{"type": "oops"`)

	_, err := ReadFeatures(path)
	assert.ErrorIs(t, err, errors.ErrSourceNotFound)
}

func TestReadFeatures_ShapefileMissingSidecars(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "parcelles.shp")
	require.NoError(t, os.WriteFile(path, []byte{0}, 0o644))

	_, err := ReadFeatures(path)
	assert.ErrorIs(t, err, errors.ErrSourceNotFound)
	assert.Contains(t, err.Error(), ".shx")
}

func TestSRIDFromPRJ(t *testing.T) {
	assert.Equal(t, 2154, SRIDFromPRJ(lambert93PRJ))
	assert.Equal(t, 4326, SRIDFromPRJ(`GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984"]]`))
	assert.Equal(t, 27572, SRIDFromPRJ(`PROJCS["NTF_Lambert_II_etendu"]`))
	assert.Equal(t, 0, SRIDFromPRJ(`PROJCS["Mystery_Projection"]`))
}
