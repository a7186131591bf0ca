package main

import (
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe every configured inference endpoint",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return reporter.Endpoints(app.Service.CheckEndpoints(cmd.Context()))
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
