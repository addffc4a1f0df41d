package cli

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebben/cadastreur/database"
	"github.com/tebben/cadastreur/settings"
)

var initdbCmd = &cobra.Command{
	Use:   "initdb",
	Short: "Create the PostGIS extension and the parcel tables",
	Long: `Initdb prepares the target database: it creates the postgis
extension, the parcel table with its spatial index and the commune
boundary table. Running it against an initialized database is harmless,
everything is created IF NOT EXISTS.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config := settings.GetConfig()

		pool, err := database.GetDBPool("cadastreur", config.Database)
		if err != nil {
			return err
		}
		defer database.CloseDBPools()

		if err := database.InitDB(cmd.Context(), pool, config.Loader.Table, config.Loader.CommuneTable, config.Loader.SRID); err != nil {
			return err
		}

		log.Infof("Database initialized, parcel table %q ready (SRID %d)", config.Loader.Table, config.Loader.SRID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initdbCmd)
}
