package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/dbckit/pkg/dbc"
)

// sniffCmd represents the sniff command
var sniffCmd = &cobra.Command{
	Use:   "sniff <file>...",
	Short: "Identify dbc containers",
	Long: `Report the format, schema and declared record count of each file
without decoding its records.

Example:
  dbckit sniff ini/material.dbc ini/3dmotion.ini`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			info, err := sniffFile(path)
			if err != nil {
				cmd.PrintErrf("%s: %v\n", path, err)
				failed++
				continue
			}
			cmd.Printf("%s: %s\n", path, info)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files could not be read", failed, len(args))
		}
		return nil
	},
}

func sniffFile(path string) (dbc.Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return dbc.Info{}, err
	}
	defer f.Close()
	return dbc.Sniff(f)
}

func init() {
	rootCmd.AddCommand(sniffCmd)
}
