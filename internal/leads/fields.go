// Package leads parses uploaded lead lists, groups them by company and turns them into
// processed leads with synthesized email addresses.
package leads

import (
	"strings"

	"github.com/mikey/lead-email-generator/internal/core"
)

// Role selects which canonical field to extract from a raw lead
type Role int

const (
	RoleCompany Role = iota
	RoleFirstName
	RoleLastName
)

// candidateColumns lists header spellings per role in priority order
var candidateColumns = map[Role][]string{
	RoleCompany: {
		"company_name", "Company", "company", "CompanyName", "Company Name", "companyName",
		"Organization", "organization", "Organisation", "organisation", "Employer", "employer",
	},
	RoleFirstName: {
		"firstName", "FirstName", "first_name", "fname", "First Name", "First", "first",
		"given_name", "GivenName",
	},
	RoleLastName: {
		"lastName", "LastName", "last_name", "lname", "Last Name", "Last", "last",
		"surname", "Surname", "family_name", "FamilyName",
	},
}

// ResolveField returns the first non-empty trimmed value among the role's candidate columns
func ResolveField(lead core.RawLead, role Role) (string, bool) {
	for _, column := range candidateColumns[role] {
		if value := strings.TrimSpace(lead[column]); value != "" {
			return value, true
		}
	}
	return "", false
}

// CompanyName returns the lead's company, if any
func CompanyName(lead core.RawLead) (string, bool) {
	return ResolveField(lead, RoleCompany)
}

// PersonName returns the lead's first and last names, empty when not found
func PersonName(lead core.RawLead) (first, last string) {
	first, _ = ResolveField(lead, RoleFirstName)
	last, _ = ResolveField(lead, RoleLastName)
	return first, last
}
