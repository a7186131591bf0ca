package emailgen

import (
	"strings"

	"github.com/mikey/lead-email-generator/internal/core"
)

// Synthesize builds the address for a person at domain using format.
// It returns an empty string when either name or the domain is empty after normalization.
func Synthesize(firstName, lastName, domain string, format core.Format) string {
	first := normalizeName(firstName)
	last := normalizeName(lastName)
	domain = strings.TrimSpace(domain)

	if first == "" || last == "" || domain == "" {
		return ""
	}

	return localPart(first, last, format) + "@" + domain
}

// localPart composes the part before the @ from non-empty normalized names
func localPart(first, last string, format core.Format) string {
	switch format {
	case core.FormatFirst:
		return first
	case core.FormatLast:
		return last
	case core.FormatInitialDotLast:
		return first[:1] + "." + last
	case core.FormatFirstDotInitial:
		return first + "." + last[:1]
	case core.FormatFirstLast:
		return first + last
	case core.FormatLastDotFirst:
		return last + "." + first
	case core.FormatInitials:
		return first[:1] + last[:1]
	case core.FormatFirstUnderscoreLast:
		return first + "_" + last
	default:
		return first + "." + last
	}
}

// normalizeName lower-cases the transliterated name and keeps ASCII letters only
func normalizeName(name string) string {
	token := strings.ToLower(Transliterate(name))
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r
		}
		return -1
	}, token)
}
