package main

import (
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete result files older than the retention window",
	RunE: func(cmd *cobra.Command, _ []string) error {
		removed, err := app.Store.Sweep(cmd.Context())
		if err != nil {
			return err
		}
		reporter.Message("Removed %d expired result files from %s", removed, app.Store.Dir())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
