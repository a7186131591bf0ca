package main

import (
	"github.com/spf13/cobra"
)

var resolveCmd = sessionCommand(&cobra.Command{
	Use:   "resolve [company...]",
	Short: "Resolve email domain and format for companies",
	Long:  "Resolves the given companies, or every company of the session's upload when none are given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		companies := args
		if len(companies) == 0 {
			var err error
			if companies, err = app.Service.Companies(ctx, sessionID); err != nil {
				return err
			}
		}

		resolutions, err := app.Service.ResolveCompanies(ctx, companies)
		if err != nil {
			return err
		}
		return reporter.Resolutions(resolutions)
	},
})

func init() {
	rootCmd.AddCommand(resolveCmd)
}
