package cli

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebben/cadastreur/database"
	"github.com/tebben/cadastreur/loader"
	"github.com/tebben/cadastreur/settings"
)

var (
	loadTable         string
	loadSRID          int
	loadMode          string
	loadInferCommune  bool
	loadCommunesTable string
	loadBatchSize     int
)

var loadCmd = &cobra.Command{
	Use:   "load <path>",
	Short: "Load a parcel file into the PostGIS table",
	Long: `Load reads a parcel file (shapefile, GeoJSON or geoparquet) and writes
it to the parcel table. Geometries are forced to MultiPolygon, repaired with
ST_MakeValid and reprojected to the table SRID by the database.

Modes:
  replace   empty the table first, load everything in one transaction
  append    add to the existing rows, one transaction per batch

With --infer-commune, features without a commune attribute get one from a
point-in-polygon lookup against the commune boundary table, falling back to
the file name.

Examples:
  cadastreur load data/parcelles_demo.geoparquet --mode replace
  cadastreur load data/parcelles_talant.geojson --mode append --infer-commune`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config := settings.GetConfig()

		mode, err := loader.ParseMode(loadMode)
		if err != nil {
			return err
		}

		pool, err := database.GetDBPool("cadastreur", config.Database)
		if err != nil {
			return err
		}
		defer database.CloseDBPools()

		opts := loader.Options{
			Path:         args[0],
			Table:        loadTable,
			SRID:         loadSRID,
			Mode:         mode,
			InferCommune: loadInferCommune,
			BatchSize:    loadBatchSize,
		}
		if loadInferCommune {
			opts.Boundaries = &loader.CommuneBoundaries{
				DB:    pool,
				Table: loadCommunesTable,
				SRID:  loadSRID,
			}
		}

		count, err := loader.Load(cmd.Context(), pool, opts)
		if err != nil {
			return fmt.Errorf("load %s: %w", args[0], err)
		}

		log.Infof("Loaded %d parcels into %q (%s mode)", count, loadTable, mode)
		return nil
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadTable, "table", "parcelles", "Target parcel table")
	loadCmd.Flags().IntVar(&loadSRID, "srid", 2154, "SRID of the target table (Lambert-93)")
	loadCmd.Flags().StringVar(&loadMode, "mode", "append", "Write mode: replace or append")
	loadCmd.Flags().BoolVar(&loadInferCommune, "infer-commune", false, "Infer missing commune names from boundaries or the file name")
	loadCmd.Flags().StringVar(&loadCommunesTable, "communes-table", "communes", "Commune boundary table used for inference")
	loadCmd.Flags().IntVar(&loadBatchSize, "batch-size", 500, "Rows per INSERT statement")
	rootCmd.AddCommand(loadCmd)
}
