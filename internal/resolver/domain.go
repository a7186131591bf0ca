package resolver

import (
	"regexp"
	"strings"
)

var (
	domainShape   = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?(\.[a-z0-9]([a-z0-9-]*[a-z0-9])?)+$`)
	domainInvalid = regexp.MustCompile(`[^a-z0-9.-]+`)
)

// NormalizeDomain lower-cases a domain reported by a model and strips scheme,
// www prefix, path and port. When the result does not look like a host name,
// invalid characters are removed and .com is appended if no dot remains.
// An empty return value means the input was unusable.
func NormalizeDomain(raw string) string {
	d := strings.ToLower(strings.TrimSpace(raw))
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimPrefix(d, "www.")
	if i := strings.IndexByte(d, '/'); i >= 0 {
		d = d[:i]
	}
	if i := strings.LastIndexByte(d, '@'); i >= 0 {
		d = d[i+1:]
	}
	if i := strings.IndexByte(d, ':'); i >= 0 {
		d = d[:i]
	}
	d = strings.TrimSuffix(d, ".")

	if domainShape.MatchString(d) {
		return d
	}

	d = domainInvalid.ReplaceAllString(d, "")
	d = strings.Trim(d, ".-")
	if d == "" {
		return ""
	}
	if !strings.Contains(d, ".") {
		d += ".com"
	}
	return d
}
