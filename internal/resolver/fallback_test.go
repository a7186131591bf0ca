package resolver

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mikey/lead-email-generator/internal/core"
)

func TestFallback_Guess(t *testing.T) {
	tests := []struct {
		company    string
		wantDomain string
		wantFormat core.Format
	}{
		{"Tech Startup Labs", "techstartuplabs.com", core.FormatFirst},
		{"Acme GmbH", "acme.com", core.FormatFirstDotLast},
		{"Siemens AG", "siemens.com", core.FormatFirstDotLast},
		{"Globex Corporation", "globex.com", core.FormatFirstDotLast},
		{"Smith & Jones Consulting LLC", "smithjonesconsulting.com", core.FormatInitialDotLast},
		{"First National Bank, Inc.", "firstnationalbank.com", core.FormatInitialDotLast},
		{"Müller Software GmbH", "mullersoftware.com", core.FormatFirstDotLast},
		{"Nordic Digital AB", "nordicdigital.com", core.FormatFirst},
		{"International Business Machines Corp", "international.com", core.FormatFirstDotLast},
		{"Software as a Service Inc", "softwareasaservice.com", core.FormatFirst},
		{"Acme GmbH & Co. KG", "acme.com", core.FormatFirstDotLast},
		{"Co-op Ltd", "coop.com", core.FormatFirstDotLast},
		{"Inc.", "example.com", core.FormatFirstDotLast},
		{"", "example.com", core.FormatFirstDotLast},
		{"李氏集团", "example.com", core.FormatFirstDotLast},
		{"!!!", "example.com", core.FormatFirstDotLast},
	}

	for _, tt := range tests {
		t.Run(tt.company, func(t *testing.T) {
			got := Fallback{}.Guess(tt.company)
			assert.Equal(t, tt.wantDomain, got.Domain)
			assert.Equal(t, tt.wantFormat, got.Format)
			assert.Equal(t, FallbackConfidence, got.Confidence)
			assert.Equal(t, core.SourceFallback, got.Source)
		})
	}
}

func TestFallback_AlwaysSucceeds(t *testing.T) {
	names := []string{"", " ", "\x00", strings.Repeat("a", 500), "Ωmega", "a.b.c", "-"}
	for _, name := range names {
		got, ok := Fallback{}.Resolve(context.Background(), name)
		assert.True(t, ok)
		assert.True(t, strings.HasSuffix(got.Domain, ".com"), "domain %q", got.Domain)
		assert.Greater(t, len(got.Domain), len(".com"))
		assert.GreaterOrEqual(t, got.Confidence, 0)
		assert.LessOrEqual(t, got.Confidence, 100)
	}
}

func TestFallback_LongFirstWordIsTruncated(t *testing.T) {
	got := Fallback{}.Guess(strings.Repeat("x", 40) + " Holdings")
	assert.Equal(t, strings.Repeat("x", 20)+".com", got.Domain)
}
