package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/lead-email-generator/internal/core"
)

var exportOutput string

var exportCmd = existingSessionCommand(&cobra.Command{
	Use:   "export",
	Short: "Write the session's latest result as CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := exportOutput
		if path == "" {
			path = fmt.Sprintf("leads_%s.csv", time.Now().Format("2006-01-02"))
		}

		var w io.Writer = cmd.OutOrStdout()
		if path != "-" {
			f, err := os.Create(path)
			if err != nil {
				return eris.Wrapf(err, "create %s", path)
			}
			defer f.Close()
			w = f
		}

		n, err := app.Service.Export(cmd.Context(), sessionID, w)
		if errors.Is(err, core.ErrNoData) {
			if path != "-" {
				_ = os.Remove(path)
			}
			return eris.New("no data to export, run generate first")
		}
		if err != nil {
			return err
		}

		app.Logger.Info("Exported leads", zap.String("file", path), zap.Int("records", n))
		if path != "-" {
			reporter.Message("Exported %d records to %s", n, path)
		}
		return nil
	},
})

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", `output file, "-" for stdout (default leads_<date>.csv)`)
	rootCmd.AddCommand(exportCmd)
}
