package leads

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/mikey/lead-email-generator/internal/core"
	"github.com/mikey/lead-email-generator/internal/emailgen"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Batch is the parsed form of one upload. It is plain data and can be rebuilt
// from the source CSV on every call.
type Batch struct {
	Leads  []core.RawLead      `json:"leads"`
	Groups []core.CompanyGroup `json:"groups"`
}

// FileLimits restricts which uploaded files are accepted
type FileLimits struct {
	MaxSize           int64
	AllowedExtensions []string
}

// ParseFile opens path and parses it as a lead CSV
func ParseFile(path string, limits FileLimits) (*Batch, error) {
	if len(limits.AllowedExtensions) > 0 {
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		if !slices.Contains(limits.AllowedExtensions, ext) {
			return nil, eris.Errorf("leads: file extension %q not allowed", ext)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, eris.Wrapf(err, "leads: file not found: %s", path)
	}
	if limits.MaxSize > 0 && info.Size() > limits.MaxSize {
		return nil, eris.Errorf("leads: file %s is %d bytes, limit is %d", path, info.Size(), limits.MaxSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "leads: cannot open file: %s", path)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads a header row followed by data rows. Rows whose field count differs
// from the header are skipped.
func Parse(r io.Reader) (*Batch, error) {
	reader := csv.NewReader(skipBOM(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("leads: cannot read CSV headers")
	}
	if err != nil {
		return nil, eris.Wrap(err, "leads: read header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	batch := &Batch{}
	index := make(map[string]int)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, eris.Wrap(err, "leads: read row")
		}
		if len(row) != len(header) {
			continue
		}

		lead := make(core.RawLead, len(header))
		for i, column := range header {
			lead[column] = row[i]
		}
		batch.Leads = append(batch.Leads, lead)

		company, ok := CompanyName(lead)
		if !ok {
			continue
		}
		pos, seen := index[company]
		if !seen {
			pos = len(batch.Groups)
			index[company] = pos
			batch.Groups = append(batch.Groups, core.CompanyGroup{Name: company})
		}
		batch.Groups[pos].Leads = append(batch.Groups[pos].Leads, lead)
	}

	return batch, nil
}

// skipBOM drops a leading UTF-8 byte order mark
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// Stats reports lead and company counts for the batch
func (b *Batch) Stats() core.Stats {
	stats := core.Stats{
		TotalLeads:      len(b.Leads),
		UniqueCompanies: len(b.Groups),
		Companies:       make([]core.CompanyCount, 0, len(b.Groups)),
	}
	for _, g := range b.Groups {
		stats.Companies = append(stats.Companies, core.CompanyCount{Name: g.Name, LeadCount: len(g.Leads)})
	}
	return stats
}

// CompanyNames returns the group names in first-seen order
func (b *Batch) CompanyNames() []string {
	names := make([]string, 0, len(b.Groups))
	for _, g := range b.Groups {
		names = append(names, g.Name)
	}
	return names
}

// Process synthesizes one processed lead per grouped lead, skipping excluded companies.
// Companies without a mapping get an empty domain and the default format, which yields
// an empty email.
func (b *Batch) Process(mappings map[string]core.MappingInput, excluded []string) []core.ProcessedLead {
	skip := NewExclusionSet(excluded)

	processed := make([]core.ProcessedLead, 0, len(b.Leads))
	for _, group := range b.Groups {
		if skip.Contains(group.Name) {
			continue
		}

		mapping := mappings[group.Name]
		format, _ := core.ParseFormat(mapping.Format)

		for _, lead := range group.Leads {
			first, last := PersonName(lead)
			processed = append(processed, core.ProcessedLead{
				FirstName: first,
				LastName:  last,
				Company:   group.Name,
				Email:     emailgen.Synthesize(first, last, mapping.Domain, format),
			})
		}
	}
	return processed
}

// CountEmails returns how many processed leads received an address
func CountEmails(processed []core.ProcessedLead) int {
	n := 0
	for _, p := range processed {
		if p.Email != "" {
			n++
		}
	}
	return n
}
