package queries

// ParcelQuery generates a deterministic demo parcel set from real commune
// boundaries. Communes come from a france-geojson extract in EPSG:4326 and
// are reprojected to Lambert-93 before the parcel grid is laid out. Each
// commune gets a grid of small rectangles, only the ones whose centroid
// falls inside the boundary survive. Cell sizes vary with the grid position
// so parcels stay between roughly 100 and 200 meters of side.
var ParcelQuery = `
    INSTALL spatial;
    LOAD spatial;

    COPY (
    WITH communes AS (
        SELECT
            nom,
            COALESCE(code, '') AS code_insee,
            ST_Transform(geom, 'EPSG:4326', 'EPSG:2154') AS geom
        FROM ST_Read('%DATADIR%%COMMUNESFILE%')
        WHERE lower(nom) IN (%COMMUNES%)
    ),
    cells AS (
        SELECT
            c.nom,
            c.code_insee,
            c.geom AS commune_geom,
            gx.x * 32 + gy.y AS cell,
            ST_MakeEnvelope(
                ST_XMin(ST_Envelope(c.geom)) + gx.x * 350,
                ST_YMin(ST_Envelope(c.geom)) + gy.y * 350,
                ST_XMin(ST_Envelope(c.geom)) + gx.x * 350 + 100 + (gx.x * 7 + gy.y * 13) % 100,
                ST_YMin(ST_Envelope(c.geom)) + gy.y * 350 + 100 + (gx.x * 11 + gy.y * 5) % 100
            ) AS geom
        FROM communes c,
            generate_series(0, 31) AS gx(x),
            generate_series(0, 31) AS gy(y)
    ),
    parcels AS (
        SELECT
            nom,
            code_insee,
            (['AA', 'AB', 'AC', 'AD', 'ZA', 'ZB'])[(cell % 6) + 1] AS section,
            printf('%04d', CAST(row_number() OVER (PARTITION BY nom ORDER BY cell) AS INT)) AS numero,
            ST_Area(geom) AS surface,
            ST_AsText(geom) AS geom
        FROM cells
        WHERE ST_Contains(commune_geom, ST_Centroid(geom))
        QUALIFY row_number() OVER (PARTITION BY nom ORDER BY cell) <= 50
    )
    SELECT
        nom,
        code_insee,
        section,
        numero,
        surface,
        geom
    FROM parcels
    ORDER BY nom, numero
) TO '%DATADIR%parcelles_demo.geoparquet' (FORMAT 'PARQUET');
`
