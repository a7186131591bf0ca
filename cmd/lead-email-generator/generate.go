package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/mikey/lead-email-generator/internal/core"
	"github.com/mikey/lead-email-generator/internal/leads"
)

var (
	mappingsFile string
	excludeFile  string
)

var generateCmd = sessionCommand(&cobra.Command{
	Use:   "generate",
	Short: "Synthesize emails for the session's upload and save the result",
	RunE: func(cmd *cobra.Command, _ []string) error {
		mappings, err := readMappings(mappingsFile)
		if err != nil {
			return err
		}
		excluded, err := readExcluded(excludeFile)
		if err != nil {
			return err
		}

		summary, err := app.Service.Generate(cmd.Context(), sessionID, mappings, excluded)
		if err != nil {
			return err
		}
		return reporter.Summary(summary)
	},
})

func readMappings(path string) (map[string]core.MappingInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open mappings file %s", path)
	}
	defer f.Close()
	return leads.DecodeMappings(f)
}

func readExcluded(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open exclusion file %s", path)
	}
	defer f.Close()
	return leads.DecodeExcluded(f)
}

func init() {
	generateCmd.Flags().StringVar(&mappingsFile, "mappings", "", "JSON file of company -> {domain, format} (required)")
	generateCmd.Flags().StringVar(&excludeFile, "exclude", "", "JSON array of companies to skip")
	_ = generateCmd.MarkFlagRequired("mappings")
	rootCmd.AddCommand(generateCmd)
}
