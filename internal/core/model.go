package core

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Format is an email local-part layout
type Format string

const (
	FormatFirstDotLast        Format = "firstname.lastname"
	FormatFirst               Format = "firstname"
	FormatLast                Format = "lastname"
	FormatInitialDotLast      Format = "f.lastname"
	FormatFirstDotInitial     Format = "firstname.l"
	FormatFirstLast           Format = "firstnamelastname"
	FormatLastDotFirst        Format = "lastname.firstname"
	FormatInitials            Format = "fl"
	FormatFirstUnderscoreLast Format = "firstname_lastname"

	// DefaultFormat is used whenever a format tag is missing or unknown
	DefaultFormat = FormatFirstDotLast
)

// Formats lists every supported format tag
var Formats = []Format{
	FormatFirstDotLast,
	FormatFirst,
	FormatLast,
	FormatInitialDotLast,
	FormatFirstDotInitial,
	FormatFirstLast,
	FormatLastDotFirst,
	FormatInitials,
	FormatFirstUnderscoreLast,
}

// ParseFormat returns the format for tag and whether the tag is one of the supported formats.
// Unknown tags yield DefaultFormat.
func ParseFormat(tag string) (Format, bool) {
	for _, f := range Formats {
		if string(f) == tag {
			return f, true
		}
	}
	return DefaultFormat, false
}

// Source tells which resolver tier produced a mapping
type Source string

const (
	SourceRemote   Source = "remote"
	SourceCache    Source = "cache"
	SourceFallback Source = "fallback"
)

// RawLead is one CSV row keyed by header name
type RawLead map[string]string

// CompanyGroup holds the leads of one company in input order
type CompanyGroup struct {
	Name  string    `json:"name"`
	Leads []RawLead `json:"leads"`
}

// DomainMapping is the resolved domain and naming convention for a company
type DomainMapping struct {
	Domain     string `json:"domain"`
	Format     Format `json:"format"`
	Confidence int    `json:"confidence"`
	Source     Source `json:"source"`
}

// MappingInput is the caller-supplied mapping for one company before processing
type MappingInput struct {
	Domain string `json:"domain"`
	Format string `json:"format"`
}

// ProcessedLead is one output row
type ProcessedLead struct {
	FirstName string `json:"firstName" csv:"First Name"`
	LastName  string `json:"lastName" csv:"Last Name"`
	Company   string `json:"company" csv:"Company"`
	Email     string `json:"email" csv:"Email"`
}

// ResultSnapshot is the complete output of one processing run for a session
type ResultSnapshot struct {
	SessionID string          `json:"session_id"`
	CreatedAt time.Time       `json:"created_at"`
	Leads     []ProcessedLead `json:"leads"`
}

// CompanyCount is a company name with the number of leads grouped under it
type CompanyCount struct {
	Name      string `json:"name"`
	LeadCount int    `json:"lead_count"`
}

// Stats summarizes a parsed upload
type Stats struct {
	TotalLeads      int            `json:"total_leads"`
	UniqueCompanies int            `json:"unique_companies"`
	Companies       []CompanyCount `json:"companies"`
}

// Attempt describes a single call to a remote inference endpoint
type Attempt struct {
	Company    string
	Endpoint   string
	StatusCode int
	Err        error
	Duration   time.Duration
}

// Succeeded reports whether the attempt produced a usable response
func (a Attempt) Succeeded() bool {
	return a.Err == nil
}

// CompanyKey is the storage key for a company name: the hex SHA-256 of the exact string
func CompanyKey(company string) string {
	sum := sha256.Sum256([]byte(company))
	return hex.EncodeToString(sum[:])
}
