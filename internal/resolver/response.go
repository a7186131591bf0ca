package resolver

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/mikey/lead-email-generator/internal/core"
)

const defaultRemoteConfidence = 70

// ErrMalformedResponse is returned when model output carries no usable domain
var ErrMalformedResponse = eris.New("malformed model response")

// ParseResponse extracts a domain mapping from raw model text. The JSON object may be
// surrounded by other text. A missing format defaults to firstname.lastname and a
// missing confidence to 70; confidence is clamped to [0,100].
func ParseResponse(text string) (core.DomainMapping, error) {
	fields, err := extractObject(text)
	if err != nil {
		return core.DomainMapping{}, err
	}

	rawDomain, ok := fields["domain"].(string)
	if !ok {
		return core.DomainMapping{}, eris.Wrap(ErrMalformedResponse, "domain is missing or not a string")
	}
	domain := NormalizeDomain(rawDomain)
	if domain == "" {
		return core.DomainMapping{}, eris.Wrapf(ErrMalformedResponse, "unusable domain %q", rawDomain)
	}

	format := core.DefaultFormat
	if tag, ok := fields["format"].(string); ok {
		format, _ = core.ParseFormat(strings.ToLower(strings.TrimSpace(tag)))
	}

	return core.DomainMapping{
		Domain:     domain,
		Format:     format,
		Confidence: confidenceOf(fields["confidence"]),
		Source:     core.SourceRemote,
	}, nil
}

// extractObject decodes the JSON object spanning the first '{' to the last '}'
func extractObject(text string) (map[string]any, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(text), &fields); err == nil && fields != nil {
		return fields, nil
	}

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return nil, eris.Wrap(ErrMalformedResponse, "no JSON object in response")
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &fields); err != nil || fields == nil {
		return nil, eris.Wrap(ErrMalformedResponse, "invalid JSON object in response")
	}
	return fields, nil
}

func confidenceOf(v any) int {
	var f float64
	switch c := v.(type) {
	case float64:
		f = c
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(c), "%"), 64)
		if err != nil {
			return defaultRemoteConfidence
		}
		f = parsed
	default:
		return defaultRemoteConfidence
	}
	if math.IsNaN(f) {
		return defaultRemoteConfidence
	}
	return int(math.Round(math.Max(0, math.Min(100, f))))
}

func clampConfidence(c int) int {
	return max(0, min(100, c))
}
