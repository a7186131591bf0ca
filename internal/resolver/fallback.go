package resolver

import (
	"context"
	"strings"
	"unicode"

	"github.com/mikey/lead-email-generator/internal/core"
	"github.com/mikey/lead-email-generator/internal/emailgen"
)

const (
	// FallbackConfidence is reported for every heuristic mapping
	FallbackConfidence = 25

	maxFallbackLabel = 20
	fallbackLabel    = "example"
	fallbackTLD      = ".com"
)

var legalSuffixes = map[string]struct{}{
	"inc": {}, "incorporated": {}, "llc": {}, "ltd": {}, "limited": {}, "corp": {},
	"corporation": {}, "co": {}, "company": {}, "gmbh": {}, "ag": {}, "sa": {}, "sas": {},
	"sarl": {}, "srl": {}, "spa": {}, "bv": {}, "nv": {}, "kg": {}, "ab": {}, "as": {},
	"oy": {}, "plc": {}, "pty": {}, "pvt": {}, "lp": {}, "llp": {},
}

var (
	techKeywords         = []string{"tech", "digital", "app", "software", "startup", "lab"}
	professionalKeywords = []string{"consulting", "law", "legal", "financial", "bank", "insurance"}
)

// Fallback guesses a mapping from the company name alone. It never fails and always
// yields a domain ending in .com.
type Fallback struct{}

// Name implements Strategy
func (Fallback) Name() string {
	return string(core.SourceFallback)
}

// Resolve implements Strategy and always succeeds
func (f Fallback) Resolve(_ context.Context, company string) (core.DomainMapping, bool) {
	return f.Guess(company), true
}

// Guess builds the heuristic mapping for company
func (Fallback) Guess(company string) core.DomainMapping {
	words := nameWords(company)

	return core.DomainMapping{
		Domain:     fallbackDomain(words),
		Format:     fallbackFormat(words),
		Confidence: FallbackConfidence,
		Source:     core.SourceFallback,
	}
}

// nameWords splits a company name into lower-cased ASCII tokens
func nameWords(company string) []string {
	var words []string
	for _, field := range strings.FieldsFunc(company, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == '.' || r == '&' || r == '-' || r == '/' || r == '(' || r == ')'
	}) {
		if w := strings.ToLower(emailgen.Transliterate(field)); w != "" {
			words = append(words, w)
		}
	}
	return words
}

// trimLegalSuffixes drops legal-entity words from the end of the name only, so
// "Acme GmbH & Co KG" loses all three while "Software as a Service" keeps "as".
func trimLegalSuffixes(words []string) []string {
	end := len(words)
	for end > 0 {
		if _, legal := legalSuffixes[words[end-1]]; !legal {
			break
		}
		end--
	}
	return words[:end]
}

func fallbackDomain(words []string) string {
	name := strings.Join(trimLegalSuffixes(words), "")
	if len(name) > maxFallbackLabel {
		name = ""
		if len(words) > 0 {
			name = words[0]
		}
		if len(name) > maxFallbackLabel {
			name = name[:maxFallbackLabel]
		}
	}
	if name == "" {
		name = fallbackLabel
	}
	return name + fallbackTLD
}

func fallbackFormat(words []string) core.Format {
	for _, w := range words {
		if w == "gmbh" || w == "ag" {
			return core.FormatFirstDotLast
		}
	}

	joined := strings.Join(words, " ")
	if containsAny(joined, techKeywords) {
		return core.FormatFirst
	}
	if containsAny(joined, professionalKeywords) {
		return core.FormatInitialDotLast
	}
	return core.FormatFirstDotLast
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
