package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/dbckit/pkg/dbc"
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Convert a container between binary and text",
	Long: `Load a dbc container in either form and write it in the requested one.

When backups are on and <out> already exists, its current content is kept
in the snapshot store before it is replaced.

Examples:
  dbckit convert ini/material.dbc ini/material.ini --to text
  dbckit convert ini/3dmotion.ini ini/3dmotion.dbc --materials ini/material.ini`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, out := args[0], args[1]
		cfg := container.Config()
		logger := container.Logger()

		if cmd.Flags().Changed("materials") {
			cfg.MaterialsFile, _ = cmd.Flags().GetString("materials")
		}
		target, _ := cmd.Flags().GetString("to")
		if target == "" {
			target = cfg.Convert.DefaultFormat
		}
		to, err := dbc.ParseFormat(target)
		if err != nil {
			return err
		}
		backup := cfg.Convert.Backup
		if cmd.Flags().Changed("backup") {
			backup, _ = cmd.Flags().GetBool("backup")
		}

		opts, err := container.ContainerOptions()
		if err != nil {
			return err
		}
		c, info, err := dbc.OpenFile(in, opts...)
		if err != nil {
			return err
		}
		if n := c.Skipped(); n > 0 {
			cmd.PrintErrf("warning: %d malformed lines skipped in %s\n", n, in)
		}

		if backup {
			if err := backupFile(out); err != nil {
				return err
			}
		}

		if err := dbc.SaveFile(c, out, to); err != nil {
			return fmt.Errorf("save %s: %w", out, err)
		}
		logger.Debug("converted", "in", in, "out", out, "schema", info.Schema.String(), "to", to.String())
		cmd.Printf("%s (%s) -> %s (%s, %d records)\n", in, info, out, to, c.Len())
		return nil
	},
}

// backupFile stores the current content of path as a snapshot. A missing
// file needs no backup.
func backupFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s for backup: %w", path, err)
	}

	store, err := container.Storage()
	if err != nil {
		return err
	}
	id, err := store.CreateSnapshot(path, data)
	if err != nil {
		return fmt.Errorf("backup %s: %w", path, err)
	}
	container.Logger().Info("snapshot created", "id", id.String(), "path", path, "bytes", len(data))
	return nil
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().String("to", "", "Target format: text or binary (default from config)")
	convertCmd.Flags().String("materials", "", "Material container used to resolve mesh material names")
	convertCmd.Flags().Bool("backup", true, "Snapshot an existing output file before replacing it")
}
