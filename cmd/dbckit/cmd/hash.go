package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/dbckit/pkg/api"
	"github.com/ssargent/dbckit/pkg/hashname"
)

// hashCmd represents the hash command
var hashCmd = &cobra.Command{
	Use:   "hash <path>...",
	Short: "Compute the NameHash id of asset paths",
	Long: `Print the 32-bit id the client derives from each asset path. Case and
slash direction do not matter.

With --index the paths are also recorded so 'dbckit lookup' can map the
ids back to them.

Example:
  dbckit hash data/map/puzzle/puzzle01.dds --index`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, _ := cmd.Flags().GetBool("index")

		for _, path := range args {
			if err := hashname.Check(path); err != nil {
				return err
			}
			id := hashname.ID(path)
			if index {
				store, err := container.Storage()
				if err != nil {
					return err
				}
				if _, err := store.IndexName(path); err != nil {
					return err
				}
			}
			cmd.Printf("0x%08X %10d %s\n", id, id, hashname.Normalize(path))
		}
		return nil
	},
}

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:   "lookup <id>",
	Short: "Find indexed paths for a NameHash id",
	Long: `List the paths recorded with 'dbckit hash --index' that hash to id.
The id may be decimal or 0x-prefixed hex.

Example:
  dbckit lookup 0x75A1AA38`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := api.ParseID(args[0])
		if err != nil {
			return err
		}
		store, err := container.Storage()
		if err != nil {
			return err
		}
		names, err := store.LookupNames(id)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			cmd.Printf("no paths indexed for 0x%08X\n", id)
			return nil
		}
		for _, name := range names {
			cmd.Println(name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashCmd)
	rootCmd.AddCommand(lookupCmd)

	hashCmd.Flags().Bool("index", false, "Record the paths for reverse lookup")
}
