package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the dbckit REST API. Containers posted to /api/v1/sniff and
/api/v1/convert are processed in memory; the name index lives in the data
directory. Metrics are served on /metrics.

Examples:
  dbckit serve --port=9200
  dbckit serve --bind=0.0.0.0 --config=/etc/dbckit/config.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := container.Config()
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind") {
			cfg.Bind, _ = cmd.Flags().GetString("bind")
		}
		if cfg.Security.APIKey == "" {
			container.Logger().Warn("no API key configured, the API is open to anyone who can reach it")
		}

		server, err := container.Server()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cmd.Printf("Starting dbckit REST API server on %s\n", server.Addr())
		cmd.Printf("Metrics available at: http://%s/metrics\n", server.Addr())
		return server.ListenAndServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind to")
}
