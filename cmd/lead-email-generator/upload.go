package main

import (
	"github.com/spf13/cobra"
)

var uploadCmd = sessionCommand(&cobra.Command{
	Use:   "upload <file.csv>",
	Short: "Parse a lead CSV and attach it to the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := app.Service.Upload(cmd.Context(), sessionID, args[0])
		if err != nil {
			return err
		}
		return reporter.Stats(stats)
	},
})

func init() {
	rootCmd.AddCommand(uploadCmd)
}
