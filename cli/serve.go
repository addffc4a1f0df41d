package cli

import (
	"github.com/spf13/cobra"
	"github.com/tebben/cadastreur/server"
	"github.com/tebben/cadastreur/settings"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the parcel queries over HTTP",
	Long: `Serve starts the REST API: /status, /communes, /communes/{nom}/stats
and /parcelles?commune=. The server shuts down gracefully on SIGINT or
SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server.Start(settings.GetConfig())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
