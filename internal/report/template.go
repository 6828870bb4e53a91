package report

import (
	"strings"

	"assessment-service/internal/domain"
)

// Fixed tokens available to every template alongside the per-question ones.
const (
	tokenFirstName   = "FIRST_NAME"
	tokenCompanyName = "COMPANY_NAME"
	tokenRole        = "SELECTED_ROLE"
	tokenCompanySize = "COMPANY_SIZE"
	tokenIndustry    = "INDUSTRY"
)

// Fill substitutes [TOKEN] placeholders in the template with the given
// values. Replacement is literal whole-token, so a key that happens to be a
// prefix of another never clobbers it. Unresolved tokens are replaced with
// the empty string rather than leaking template syntax downstream.
func Fill(template string, values map[string]string) string {
	var b strings.Builder
	rest := template
	for {
		open := strings.Index(rest, "[")
		if open < 0 {
			b.WriteString(rest)
			return b.String()
		}
		close := strings.Index(rest[open:], "]")
		if close < 0 {
			b.WriteString(rest)
			return b.String()
		}
		token := rest[open+1 : open+close]
		b.WriteString(rest[:open])
		if isToken(token) {
			b.WriteString(values[token]) // empty for unresolved tokens
			rest = rest[open+close+1:]
		} else {
			// Not a placeholder, keep the bracket and rescan after it.
			b.WriteByte('[')
			rest = rest[open+1:]
		}
	}
}

// isToken matches upper snake-case identifiers; anything else inside
// brackets is ordinary prose.
func isToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_' {
			return false
		}
	}
	return true
}

// PromptValues builds the substitution map from the contact record and the
// finalized answers. Question keys are upper snake-cased; multi-select
// answers are joined with ", ".
func PromptValues(contact domain.Contact, answers domain.AnswerSet) map[string]string {
	values := map[string]string{
		tokenFirstName:   contact.FirstName,
		tokenCompanyName: contact.Company,
	}
	for key, v := range answers {
		values[tokenKey(key)] = v.Display()
	}
	// Conventional keys double as fixed tokens when present.
	if v, ok := answers["role"]; ok {
		values[tokenRole] = v.Display()
	}
	if v, ok := answers["company_size"]; ok {
		values[tokenCompanySize] = v.Display()
	}
	if v, ok := answers["industry"]; ok {
		values[tokenIndustry] = v.Display()
	}
	return values
}

func tokenKey(questionKey string) string {
	return strings.ToUpper(strings.ReplaceAll(questionKey, "-", "_"))
}
