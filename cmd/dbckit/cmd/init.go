package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/dbckit/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Create a configuration file with default settings and a generated API
key for 'dbckit serve'.

Examples:
  dbckit init
  dbckit init --config=./dbckit.yaml --data-dir=/var/lib/dbckit --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = config.GetDefaultConfigPath()
		}

		if config.ConfigExists(path) && !force {
			cmd.Printf("Config already exists at %s. Use --force to overwrite.\n", path)
			return nil
		}

		dataDir := container.Config().DataDir
		cfg, err := config.BootstrapConfig(path, dataDir)
		if err != nil {
			return err
		}
		cmd.Printf("Wrote %s\n", path)
		cmd.Printf("Data directory: %s\n", cfg.DataDir)
		cmd.Printf("API key: %s...\n", cfg.Security.APIKey[:8])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}
