package cli

import (
	"github.com/spf13/cobra"
	"github.com/tebben/cadastreur/preprocess"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Generate the demo parcel set from commune boundaries",
	Long: `Prepare reads the communes GeoJSON from the configured data folder,
filters the configured communes and generates a deterministic parcel grid
inside each boundary with DuckDB spatial SQL. The result is written as
parcelles_demo.geoparquet, ready for the load command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return preprocess.Prepare()
	},
}

func init() {
	rootCmd.AddCommand(prepareCmd)
}
