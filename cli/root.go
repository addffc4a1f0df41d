package cli

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebben/cadastreur/settings"
)

var rootCmd = &cobra.Command{
	Use:   "cadastreur",
	Short: "Cadastral parcels in PostGIS",
	Long: `Cadastreur loads French cadastral parcels into a PostGIS table and
answers a small set of spatial questions about them.

The typical flow:

  cadastreur prepare                 generate the demo parcel set
  cadastreur initdb                  create extensions and tables
  cadastreur load data/parcelles_demo.geoparquet --mode replace
  cadastreur query --commune Dijon --stats
  cadastreur serve                   expose the queries over HTTP

Configuration comes from CADASTREUR_* environment variables, a .env file
is picked up when present.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.SetLevel(log.DebugLevel)
		}
		return settings.InitializeConfig()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}
