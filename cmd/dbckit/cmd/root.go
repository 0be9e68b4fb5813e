package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/dbckit/pkg/config"
	"github.com/ssargent/dbckit/pkg/di"
)

// container is built from the configuration before every command runs
var container *di.Container

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dbckit",
	Short: "dbckit - dbc container tools",
	Long: `dbckit reads and writes the dbc containers game clients ship their
material, mesh and effect tables in. Containers convert losslessly between
the packed binary form and the editable INI-style text form.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		logger, err := di.NewLogger(cmd.ErrOrStderr(), cfg.Logging)
		if err != nil {
			return err
		}
		container = di.NewContainer(cfg, logger)
		return nil
	},
}

// loadConfig reads --config, or the default config file when it exists,
// and applies the persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	explicit := path != ""
	if !explicit {
		path = config.GetDefaultConfigPath()
	}

	cfg := config.DefaultConfig()
	// init creates the file it is pointed at
	if explicit && cmd != initCmd || config.ConfigExists(path) {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir, _ = cmd.Flags().GetString("data-dir")
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level, _ = cmd.Flags().GetString("log-level")
		if _, err := config.ParseLevel(cfg.Logging.Level); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// finish writes the metrics file and releases the container.
func finish(cmd *cobra.Command) error {
	if container == nil {
		return nil
	}
	defer func() {
		_ = container.Close()
		container = nil
	}()

	if path, _ := cmd.PersistentFlags().GetString("metrics-file"); path != "" {
		if err := container.WriteMetrics(path); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

// run executes the root command with args and returns its error.
func run(args []string) error {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if ferr := finish(rootCmd); err == nil {
		err = ferr
	}
	return err
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/dbckit/config.yaml)")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "./data", "Data directory for snapshots and the name index")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write Prometheus metrics to this file on exit")
}
