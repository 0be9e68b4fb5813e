package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
)

// snapshotCmd represents the snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage container backups",
	Long: `Snapshots are the copies 'dbckit convert' keeps of files it overwrites.

Examples:
  dbckit snapshot list
  dbckit snapshot restore 2ZqkP6XHyJbNm0dQbqCqdOmrL4Y ini/material.ini
  dbckit snapshot delete 2ZqkP6XHyJbNm0dQbqCqdOmrL4Y`,
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots, oldest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := container.Storage()
		if err != nil {
			return err
		}
		list, err := store.ListSnapshots()
		if err != nil {
			return err
		}
		if len(list) == 0 {
			cmd.Println("no snapshots")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCREATED\tSIZE\tPATH")
		for _, s := range list {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", s.ID, s.Created.Local().Format(time.DateTime), s.Size, s.Name)
		}
		return tw.Flush()
	},
}

var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore <id> [out]",
	Short: "Write a snapshot back to disk",
	Long: `Write the snapshot to out, or to the path it was taken from when out is
omitted.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ksuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid snapshot id %q: %w", args[0], err)
		}
		store, err := container.Storage()
		if err != nil {
			return err
		}
		name, data, err := store.ReadSnapshot(&id)
		if err != nil {
			return err
		}

		out := name
		if len(args) == 2 {
			out = args[1]
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("restore %s: %w", out, err)
		}
		cmd.Printf("restored %s to %s (%d bytes)\n", id, out, len(data))
		return nil
	},
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ksuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid snapshot id %q: %w", args[0], err)
		}
		store, err := container.Storage()
		if err != nil {
			return err
		}
		if err := store.DeleteSnapshot(&id); err != nil {
			return err
		}
		cmd.Printf("deleted %s\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotListCmd, snapshotRestoreCmd, snapshotDeleteCmd)
}
