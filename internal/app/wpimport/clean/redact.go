package clean

import "regexp"

var (
	// Label first so "M: 9876543210" goes as one unit.
	contactLabelRe = regexp.MustCompile(`(?i)\b(?:mobile|contact|m)[:\s]*\d+`)
	phoneRe        = regexp.MustCompile(`\b(?:\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)
)

// RedactContacts removes phone numbers and labelled contact numbers
// ("M: …", "mobile …", "contact …"). Input is expected to be markup-free.
func RedactContacts(s string) string {
	if s == "" {
		return ""
	}
	s = contactLabelRe.ReplaceAllString(s, "")
	s = phoneRe.ReplaceAllString(s, "")
	return CollapseSpace(s)
}
