// Package report prints pipeline results for the command line
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/lead-email-generator/internal/core"
	"github.com/mikey/lead-email-generator/internal/pipeline"
)

// Console writes human readable or JSON reports
type Console struct {
	out    io.Writer
	json   bool
	logger *zap.Logger
}

// NewConsole creates a new console reporter
func NewConsole(out io.Writer, jsonOutput bool, logger *zap.Logger) *Console {
	return &Console{
		out:    out,
		json:   jsonOutput,
		logger: logger,
	}
}

// Session prints the session id in use
func (c *Console) Session(sessionID string, generated bool) {
	if c.json {
		return
	}
	if generated {
		fmt.Fprintf(c.out, "Session: %s (new, pass --session to continue)\n", sessionID)
		return
	}
	fmt.Fprintf(c.out, "Session: %s\n", sessionID)
}

// Stats prints upload statistics
func (c *Console) Stats(stats core.Stats) error {
	if c.json {
		return c.encode(stats)
	}

	fmt.Fprintf(c.out, "\n=== Upload ===\n")
	fmt.Fprintf(c.out, "Total leads: %d\n", stats.TotalLeads)
	fmt.Fprintf(c.out, "Unique companies: %d\n\n", stats.UniqueCompanies)

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COMPANY\tLEADS")
	for _, company := range stats.Companies {
		fmt.Fprintf(tw, "%s\t%d\n", company.Name, company.LeadCount)
	}
	return tw.Flush()
}

// Resolutions prints resolved company mappings
func (c *Console) Resolutions(resolutions []pipeline.Resolution) error {
	if c.json {
		return c.encode(resolutions)
	}

	fmt.Fprintf(c.out, "\n=== Resolutions ===\n")
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COMPANY\tDOMAIN\tFORMAT\tCONFIDENCE\tSOURCE")
	for _, r := range resolutions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", r.Company, r.Domain, r.Format, r.Confidence, r.Source)
	}
	return tw.Flush()
}

// Summary prints the outcome of a generate run
func (c *Console) Summary(summary *pipeline.Summary) error {
	if c.json {
		return c.encode(summary)
	}

	fmt.Fprintf(c.out, "\n=== Results ===\n")
	fmt.Fprintf(c.out, "Total leads: %d\n", summary.Total)
	fmt.Fprintf(c.out, "Emails generated: %d\n", summary.EmailsGenerated)
	fmt.Fprintf(c.out, "Saved to: %s\n", summary.File)

	if len(summary.Preview) == 0 {
		return nil
	}
	fmt.Fprintf(c.out, "\nPreview:\n")
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIRST NAME\tLAST NAME\tCOMPANY\tEMAIL")
	for _, lead := range summary.Preview {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", lead.FirstName, lead.LastName, lead.Company, lead.Email)
	}
	return tw.Flush()
}

// Download prints export readiness
func (c *Console) Download(status pipeline.DownloadStatus) error {
	if c.json {
		return c.encode(status)
	}

	fmt.Fprintf(c.out, "Download ready: %t\n", status.Ready)
	fmt.Fprintf(c.out, "Record count: %d\n", status.RecordCount)
	return nil
}

// Endpoints prints endpoint health
func (c *Console) Endpoints(statuses []pipeline.EndpointStatus) error {
	if c.json {
		return c.encode(statuses)
	}

	fmt.Fprintf(c.out, "\n=== Endpoints ===\n")
	if len(statuses) == 0 {
		fmt.Fprintf(c.out, "No endpoint configured, heuristics only\n")
		return nil
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ENDPOINT\tAVAILABLE\tSTATUS\tLATENCY\tERROR")
	for _, s := range statuses {
		status := "-"
		if s.StatusCode != 0 {
			status = fmt.Sprint(s.StatusCode)
		}
		fmt.Fprintf(tw, "%s\t%t\t%s\t%v\t%s\n", s.Endpoint, s.Available, status, s.Latency.Round(time.Millisecond), s.Error)
	}
	return tw.Flush()
}

// Message prints a one-line message
func (c *Console) Message(format string, args ...any) {
	if c.json {
		return
	}
	fmt.Fprintf(c.out, format+"\n", args...)
}

func (c *Console) encode(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		c.logger.Error("Failed to encode report", zap.Error(err))
		return err
	}
	return nil
}
