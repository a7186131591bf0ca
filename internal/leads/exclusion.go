package leads

import (
	"strings"
)

// ExclusionSet holds company names that are skipped during processing
type ExclusionSet struct {
	names map[string]struct{}
}

// NewExclusionSet builds a set from company names. Names are trimmed but otherwise
// compared exactly, matching how companies are keyed when grouping.
func NewExclusionSet(companies []string) ExclusionSet {
	names := make(map[string]struct{}, len(companies))
	for _, company := range companies {
		if company = strings.TrimSpace(company); company != "" {
			names[company] = struct{}{}
		}
	}
	return ExclusionSet{names: names}
}

// Contains reports whether company is excluded
func (s ExclusionSet) Contains(company string) bool {
	if len(s.names) == 0 {
		return false
	}
	_, ok := s.names[company]
	return ok
}

// Len returns the number of excluded companies
func (s ExclusionSet) Len() int {
	return len(s.names)
}
