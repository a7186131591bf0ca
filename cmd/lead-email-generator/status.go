package main

import (
	"github.com/spf13/cobra"
)

var statusCmd = existingSessionCommand(&cobra.Command{
	Use:   "status",
	Short: "Show whether an export is ready for the session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		status, err := app.Service.DownloadStatus(cmd.Context(), sessionID)
		if err != nil {
			return err
		}
		return reporter.Download(status)
	},
})

func init() {
	rootCmd.AddCommand(statusCmd)
}
