package outreach

import "strings"

// Personalize substitutes {token} placeholders in a template with values from
// the field map. Unknown placeholders are left unresolved. The substitution is
// literal, so the operation is idempotent as long as field values do not
// themselves contain placeholders.
func Personalize(template string, fields map[string]string) string {
	if len(fields) == 0 || !strings.Contains(template, "{") {
		return template
	}
	pairs := make([]string, 0, len(fields)*2)
	for token, value := range fields {
		pairs = append(pairs, "{"+token+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
