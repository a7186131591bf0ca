package leads

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/lead-email-generator/internal/core"
)

func TestWriteExport_Format(t *testing.T) {
	var buf bytes.Buffer
	err := WriteExport(&buf, []core.ProcessedLead{
		{FirstName: "Jane", LastName: "Doe", Company: "Acme, Inc", Email: "jane.doe@acme.com"},
	})
	require.NoError(t, err)

	out := buf.Bytes()
	require.True(t, bytes.HasPrefix(out, utf8BOM))

	lines := strings.Split(strings.TrimRight(string(out[len(utf8BOM):]), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "First Name,Last Name,Company,Email", lines[0])
	assert.Equal(t, `Jane,Doe,"Acme, Inc",jane.doe@acme.com`, lines[1])
}

func TestWriteExport_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExport(&buf, nil))

	rows, err := ReadExport(&buf)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestExport_RoundTrip(t *testing.T) {
	batch, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	processed := batch.Process(map[string]core.MappingInput{
		"Acme GmbH": {Domain: "acme.de", Format: "firstname.l"},
		"Globex":    {Domain: "globex.com", Format: "lastname.firstname"},
	}, nil)

	var buf bytes.Buffer
	require.NoError(t, WriteExport(&buf, processed))

	rows, err := ReadExport(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, processed, rows)

	reparsed, err := Parse(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, reparsed.Leads, len(processed))
	for i, lead := range reparsed.Leads {
		first, last := PersonName(lead)
		company, _ := CompanyName(lead)
		assert.Equal(t, processed[i].FirstName, first)
		assert.Equal(t, processed[i].LastName, last)
		assert.Equal(t, processed[i].Company, company)
		assert.Equal(t, processed[i].Email, lead["Email"])
	}
}

func TestDecodeMappingsAndExcluded(t *testing.T) {
	mappings, err := DecodeMappings(strings.NewReader(`{"Acme":{"domain":"acme.com","format":"fl"}}`))
	require.NoError(t, err)
	assert.Equal(t, core.MappingInput{Domain: "acme.com", Format: "fl"}, mappings["Acme"])

	excluded, err := DecodeExcluded(strings.NewReader(`["Globex"]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Globex"}, excluded)

	_, err = DecodeMappings(strings.NewReader(`[1,2]`))
	assert.Error(t, err)
}
