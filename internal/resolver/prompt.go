package resolver

import (
	"fmt"

	"github.com/mikey/lead-email-generator/internal/utils"
)

const maxPromptCompanyLength = 200

const promptFormat = `For the company '%s', determine:
1. The official website domain (format: example.com, no http/www)
2. Their typical employee email format

Return ONLY this JSON:
{"domain": "example.com", "format": "firstname.lastname", "confidence": 85}

Format options: firstname.lastname, firstname, f.lastname, firstname.l, firstnamelastname, lastname.firstname, lastname, fl, firstname_lastname
Set confidence 90-100 if certain, 70-89 if confident, 50-69 if guessing, 30-49 if unsure.`

// PromptBuilder renders the domain lookup prompt for a company
type PromptBuilder struct {
	text *utils.TextProcessor
}

// NewPromptBuilder creates a PromptBuilder
func NewPromptBuilder(text *utils.TextProcessor) *PromptBuilder {
	return &PromptBuilder{text: text}
}

// Build returns the prompt for company
func (b *PromptBuilder) Build(company string) string {
	return fmt.Sprintf(promptFormat, b.text.SanitizeName(company, maxPromptCompanyLength))
}
