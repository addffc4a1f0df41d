package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkt"
	"github.com/twpayne/go-shapefile"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	"github.com/tebben/cadastreur/errors"
)

// Feature is one source record: a geometry plus its tabular attributes.
type Feature struct {
	Geom   geom.T
	Fields map[string]any
}

// FeatureCollection is a fully materialized vector source. SRID is 0 when
// the source does not declare a coordinate system.
type FeatureCollection struct {
	SRID     int
	Features []Feature
}

// ReadFeatures reads all features of a vector file into memory. Supported
// formats are ESRI shapefile, GeoJSON and geoparquet with a WKT geom column.
func ReadFeatures(path string) (*FeatureCollection, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.SourceNotFoundf("cannot read %s: %v", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return readShapefile(path)
	case ".geojson", ".json":
		return readGeoJSON(path)
	case ".parquet", ".geoparquet":
		return readGeoParquet(path)
	default:
		return nil, errors.SourceNotFoundf("%s is not a supported vector format", path)
	}
}

// readShapefile reads a shapefile and its sidecars. The .shx and .dbf
// sidecars are required, a missing .prj only costs us the CRS detection.
func readShapefile(path string) (*FeatureCollection, error) {
	base := strings.TrimSuffix(path, filepath.Ext(path))

	for _, ext := range []string{".shx", ".dbf"} {
		if _, err := os.Stat(base + ext); err != nil {
			return nil, errors.SourceNotFoundf("missing required shapefile component %s", base+ext)
		}
	}

	shp, err := shapefile.Read(base, nil)
	if err != nil {
		return nil, errors.SourceNotFoundf("cannot read shapefile %s: %v", path, err)
	}

	srid := 0
	if prj, err := os.ReadFile(base + ".prj"); err == nil {
		srid = SRIDFromPRJ(string(prj))
		if srid == 0 {
			log.Warnf("Unrecognized projection in %s.prj", base)
		}
	} else {
		log.Warnf("Missing optional shapefile component %s.prj", base)
	}

	fc := &FeatureCollection{SRID: srid}
	numRecords := shp.NumRecords()
	for i := 0; i < numRecords; i++ {
		fields, g := shp.Record(i)
		if g == nil {
			continue
		}
		fc.Features = append(fc.Features, Feature{Geom: g, Fields: fields})
	}
	return fc, nil
}

// readGeoJSON reads a GeoJSON feature collection. GeoJSON coordinates are
// WGS84 by definition (RFC 7946).
func readGeoJSON(path string) (*FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.SourceNotFoundf("cannot read %s: %v", path, err)
	}

	var collection geojson.FeatureCollection
	if err := json.Unmarshal(data, &collection); err != nil {
		return nil, errors.SourceNotFoundf("%s is not valid GeoJSON: %v", path, err)
	}

	fc := &FeatureCollection{SRID: 4326}
	for _, f := range collection.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		fields := f.Properties
		if fields == nil {
			fields = map[string]any{}
		}
		fc.Features = append(fc.Features, Feature{Geom: f.Geometry, Fields: fields})
	}
	return fc, nil
}

// parquetParcel mirrors the geoparquet layout written by the prepare step:
// cadastral attributes plus a WKT geometry column.
type parquetParcel struct {
	Nom       string  `parquet:"name=nom, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY, repetitiontype=OPTIONAL"`
	CodeInsee string  `parquet:"name=code_insee, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY, repetitiontype=OPTIONAL"`
	Section   string  `parquet:"name=section, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY, repetitiontype=OPTIONAL"`
	Numero    string  `parquet:"name=numero, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY, repetitiontype=OPTIONAL"`
	Surface   float64 `parquet:"name=surface, type=DOUBLE, repetitiontype=OPTIONAL"`
	Geom      string  `parquet:"name=geom, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY, repetitiontype=OPTIONAL"`
}

// readGeoParquet reads a geoparquet produced by the prepare step. The
// geometries are stored as WKT already expressed in the target system, so
// the collection carries no SRID and the loader assumes the target.
func readGeoParquet(path string) (*FeatureCollection, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, errors.SourceNotFoundf("cannot read %s: %v", path, err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(parquetParcel), 4)
	if err != nil {
		return nil, errors.SourceNotFoundf("%s is not valid parquet: %v", path, err)
	}
	defer pr.ReadStop()

	numRows := int(pr.GetNumRows())
	records := make([]parquetParcel, numRows)
	if err := pr.Read(&records); err != nil {
		return nil, errors.SourceNotFoundf("failed to read records from %s: %v", path, err)
	}

	fc := &FeatureCollection{}
	for _, rec := range records {
		if rec.Geom == "" {
			continue
		}
		g, err := wkt.Unmarshal(rec.Geom)
		if err != nil {
			return nil, errors.SchemaMismatchf("invalid WKT in geom column of %s: %v", path, err)
		}
		fc.Features = append(fc.Features, Feature{
			Geom: g,
			Fields: map[string]any{
				"nom":        rec.Nom,
				"code_insee": rec.CodeInsee,
				"section":    rec.Section,
				"numero":     rec.Numero,
				"surface":    rec.Surface,
			},
		})
	}
	return fc, nil
}

// SRIDFromPRJ guesses the EPSG code from the WKT of a .prj sidecar. Only
// the coordinate systems seen in French cadastral exports are recognized.
func SRIDFromPRJ(prj string) int {
	s := strings.ToLower(prj)
	switch {
	case strings.Contains(s, "2154"),
		strings.Contains(s, "lambert_93"),
		strings.Contains(s, "lambert-93"),
		strings.Contains(s, "rgf93"),
		strings.Contains(s, "rgf_1993"):
		return 2154
	case strings.Contains(s, "27572"),
		strings.Contains(s, "lambert_ii"):
		return 27572
	case strings.Contains(s, "4326"),
		strings.Contains(s, "wgs_1984"),
		strings.Contains(s, "wgs 84"):
		return 4326
	default:
		return 0
	}
}

// String implements fmt.Stringer for log output.
func (fc *FeatureCollection) String() string {
	crs := "unknown CRS"
	if fc.SRID != 0 {
		crs = fmt.Sprintf("EPSG:%d", fc.SRID)
	}
	return fmt.Sprintf("%d features (%s)", len(fc.Features), crs)
}
