package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/dbckit/pkg/codec"
	"github.com/ssargent/dbckit/pkg/dbc"
)

// dumpDocument is the exported form of a whole container
type dumpDocument struct {
	Info     dbc.Info       `json:"info" yaml:"info"`
	Leading  string         `json:"leading_comments,omitempty" yaml:"leading_comments,omitempty"`
	Records  []codec.Record `json:"records" yaml:"records"`
	Trailing string         `json:"trailing_comments,omitempty" yaml:"trailing_comments,omitempty"`
}

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Export the records of a container",
	Long: `Decode a container and print its records as YAML or JSON.

Example:
  dbckit dump ini/3deffect.dbc --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		opts, err := container.ContainerOptions()
		if err != nil {
			return err
		}
		c, info, err := dbc.OpenFile(args[0], opts...)
		if err != nil {
			return err
		}

		doc := dumpDocument{
			Info:     info,
			Leading:  c.LeadingComments(),
			Records:  c.Records(),
			Trailing: c.TrailingComments(),
		}
		return writeDocument(cmd.OutOrStdout(), format, doc)
	},
}

func writeDocument(w io.Writer, format string, doc any) error {
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
	return fmt.Errorf("unknown dump format %q", format)
}

func init() {
	rootCmd.AddCommand(dumpCmd)

	dumpCmd.Flags().StringP("format", "f", "yaml", "Output format: yaml or json")
}
