package leads

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/mikey/lead-email-generator/internal/core"
)

// WriteExport writes processed leads as a UTF-8 CSV with a byte order mark and the
// fixed header First Name, Last Name, Company, Email.
func WriteExport(w io.Writer, processed []core.ProcessedLead) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return eris.Wrap(err, "leads: write BOM")
	}

	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if err := enc.EncodeHeader(core.ProcessedLead{}); err != nil {
		return eris.Wrap(err, "leads: write export header")
	}
	for i := range processed {
		if err := enc.Encode(processed[i]); err != nil {
			return eris.Wrapf(err, "leads: write export row %d", i)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "leads: flush export")
	}
	return nil
}

// ReadExport parses a file produced by WriteExport
func ReadExport(r io.Reader) ([]core.ProcessedLead, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(skipBOM(r)))
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "leads: read export header")
	}

	var rows []core.ProcessedLead
	for {
		var row core.ProcessedLead
		if err := dec.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrap(err, "leads: read export row")
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// DecodeMappings reads a JSON object of company name to {domain, format}
func DecodeMappings(r io.Reader) (map[string]core.MappingInput, error) {
	mappings := make(map[string]core.MappingInput)
	if err := json.NewDecoder(r).Decode(&mappings); err != nil && err != io.EOF {
		return nil, eris.Wrap(err, "leads: decode mappings")
	}
	return mappings, nil
}

// DecodeExcluded reads a JSON array of excluded company names
func DecodeExcluded(r io.Reader) ([]string, error) {
	var excluded []string
	if err := json.NewDecoder(r).Decode(&excluded); err != nil && err != io.EOF {
		return nil, eris.Wrap(err, "leads: decode excluded companies")
	}
	return excluded, nil
}
