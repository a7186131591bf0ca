package emailgen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mikey/lead-email-generator/internal/core"
)

func TestSynthesize_Formats(t *testing.T) {
	tests := []struct {
		format core.Format
		want   string
	}{
		{core.FormatFirstDotLast, "jane.doe@acme.com"},
		{core.FormatFirst, "jane@acme.com"},
		{core.FormatLast, "doe@acme.com"},
		{core.FormatInitialDotLast, "j.doe@acme.com"},
		{core.FormatFirstDotInitial, "jane.d@acme.com"},
		{core.FormatFirstLast, "janedoe@acme.com"},
		{core.FormatLastDotFirst, "doe.jane@acme.com"},
		{core.FormatInitials, "jd@acme.com"},
		{core.FormatFirstUnderscoreLast, "jane_doe@acme.com"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			assert.Equal(t, tt.want, Synthesize("Jane", "Doe", "acme.com", tt.format))
		})
	}
}

func TestSynthesize_UnknownFormatUsesDefault(t *testing.T) {
	want := Synthesize("Jane", "Doe", "acme.com", core.DefaultFormat)
	assert.Equal(t, want, Synthesize("Jane", "Doe", "acme.com", core.Format("first-last")))
	assert.Equal(t, want, Synthesize("Jane", "Doe", "acme.com", core.Format("")))
}

func TestSynthesize_Diacritics(t *testing.T) {
	got := Synthesize("François", "Müller", "acme.de", core.FormatInitialDotLast)
	assert.Equal(t, "f.muller@acme.de", got)
}

func TestSynthesize_StripsNonLetters(t *testing.T) {
	assert.Equal(t, "mary.oneilrd@acme.com", Synthesize(" Mary ", "O'Neil 3rd", "acme.com", core.FormatFirstDotLast))
	assert.Equal(t, "mary.oneilsmith@acme.com", Synthesize("Mary", "O'Neil-Smith", "acme.com", core.FormatFirstDotLast))
}

func TestSynthesize_EmptyWhenPreconditionsFail(t *testing.T) {
	assert.Empty(t, Synthesize("", "Doe", "acme.com", core.FormatFirst))
	assert.Empty(t, Synthesize("Jane", "", "acme.com", core.FormatFirst))
	assert.Empty(t, Synthesize("Jane", "Doe", "", core.FormatFirst))
	assert.Empty(t, Synthesize("Jane", "Doe", "   ", core.FormatFirst))
	assert.Empty(t, Synthesize("李", "Doe", "acme.com", core.FormatFirst))
	assert.Empty(t, Synthesize("123", "Doe", "acme.com", core.FormatFirst))
}

func TestSynthesize_Deterministic(t *testing.T) {
	a := Synthesize("Søren", "Kierkegaard", "example.dk", core.FormatFirstLast)
	b := Synthesize("Søren", "Kierkegaard", "example.dk", core.FormatFirstLast)
	assert.Equal(t, a, b)
	assert.Equal(t, "sorenkierkegaard@example.dk", a)
}
