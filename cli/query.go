package cli

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebben/cadastreur/database"
	"github.com/tebben/cadastreur/service"
	"github.com/tebben/cadastreur/settings"
)

var (
	queryCommune   string
	queryField     string
	queryStats     bool
	queryIntersect bool
	queryLimit     int
	queryExport    bool
	queryOut       string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run the canned parcel queries",
	Long: `Query answers the canned questions about the parcel table.

Without --commune it lists the per-commune parcel counts. With --commune
it lists the parcels of that commune, or its spatial statistics with
--stats. --intersect joins the parcels against the commune boundary table
with ST_Intersects and reports the shared area per pair. --export writes
CSV (geometry columns dropped) to --out or stdout instead of the log.

Examples:
  cadastreur query
  cadastreur query --commune Dijon
  cadastreur query --commune Dijon --stats
  cadastreur query --commune Quetigny --export --out quetigny.csv
  cadastreur query --commune 21231 --field code_insee
  cadastreur query --intersect --limit 20`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config := settings.GetConfig()
		ctx := cmd.Context()

		pool, err := database.GetDBPool("cadastreur", config.Database)
		if err != nil {
			return err
		}
		defer database.CloseDBPools()

		table := config.Loader.Table
		field := queryField
		if field == "" {
			field = config.Loader.CommuneField
		}

		exists, err := database.TableExists(ctx, pool, table)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("table %q does not exist, run initdb and load first", table)
		}

		if queryIntersect {
			pairs, err := service.IntersectionJoin(ctx, pool, table, config.Loader.CommuneTable, queryLimit)
			if err != nil {
				return err
			}
			for _, p := range pairs {
				log.Infof("Parcel %d in %s (%s): %.1f of %.1f m² shared", p.ParcelID, p.Commune, p.CodeInsee, p.SharedArea, p.ParcelArea)
			}
			log.Infof("%d parcel/commune pairs", len(pairs))
			return nil
		}

		if queryCommune == "" {
			counts, err := service.CommuneCounts(ctx, pool, table, field)
			if err != nil {
				return err
			}
			for _, c := range counts {
				log.Infof("%-30s %6d parcels", c.Nom, c.Parcels)
			}
			return nil
		}

		if queryStats {
			stats, err := service.CommuneStatsFor(ctx, pool, table, field, queryCommune)
			if err != nil {
				return err
			}
			if queryExport {
				return withOutput(func(w io.Writer) error {
					return service.StatsCSV(w, stats)
				})
			}
			log.Infof("Commune %s: %d parcels", stats.Commune, stats.Count)
			log.Infof("Total area: %.2f m² (%.2f ha)", stats.TotalArea, stats.TotalAreaHa())
			log.Infof("Average area: %.2f m² (%.2f ha), min %.2f, max %.2f", stats.AvgArea, stats.AvgAreaHa(), stats.MinArea, stats.MaxArea)
			log.Infof("Total perimeter: %.2f m, average %.2f m", stats.TotalPerimeter, stats.AvgPerimeter)
			return nil
		}

		parcels, err := service.ParcelsByCommune(ctx, pool, table, field, queryCommune)
		if err != nil {
			return err
		}
		if queryExport {
			return withOutput(func(w io.Writer) error {
				return service.ParcelsCSV(w, parcels)
			})
		}
		for _, p := range parcels {
			log.Infof("Parcel %d: %s %s/%s, %.1f m²", p.ID, p.Nom, p.Section, p.Numero, p.Surface)
		}
		log.Infof("%d parcels in %s", len(parcels), queryCommune)
		return nil
	},
}

// withOutput runs an export against --out, or stdout when no file is given.
func withOutput(export func(io.Writer) error) error {
	if queryOut == "" {
		return export(os.Stdout)
	}
	f, err := os.Create(queryOut)
	if err != nil {
		return fmt.Errorf("create %s: %w", queryOut, err)
	}
	defer f.Close()
	if err := export(f); err != nil {
		return err
	}
	log.Infof("Exported to %s", queryOut)
	return nil
}

func init() {
	queryCmd.Flags().StringVar(&queryCommune, "commune", "", "Commune name or code to query")
	queryCmd.Flags().StringVar(&queryField, "field", "", "Attribute to match the commune against (default from configuration)")
	queryCmd.Flags().BoolVar(&queryStats, "stats", false, "Compute spatial statistics instead of listing parcels")
	queryCmd.Flags().BoolVar(&queryIntersect, "intersect", false, "Join parcels against the commune boundary table")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 100, "Maximum parcel/commune pairs for --intersect")
	queryCmd.Flags().BoolVar(&queryExport, "export", false, "Write CSV instead of logging")
	queryCmd.Flags().StringVar(&queryOut, "out", "", "CSV output file, stdout when empty")
	rootCmd.AddCommand(queryCmd)
}
