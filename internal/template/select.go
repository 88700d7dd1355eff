// Package template maps position titles to resume template keys.
// Selection is an ordered keyword-subset lookup: the table lists the most
// specific keyword sets first, and the first entry fully contained in the
// title's tokens wins. A title nothing matches still gets the default key,
// so downstream consumers can always pre-select a template.
package template

import (
	"strings"
	"unicode"
)

// Key identifies one of the fixed resume base-content templates.
type Key string

// The closed set of template keys.
const (
	KeyEngineeringManager       Key = "engineering_manager"
	KeySeniorEngineeringManager Key = "senior_engineering_manager"
	KeyDataEngineeringManager   Key = "data_engineering_manager"
	KeySeniorSoftwareEngineer   Key = "senior_software_engineer"
	KeySoftwareEngineer         Key = "software_engineer"
	KeyLeadDataEngineer         Key = "lead_data_engineer"
	KeyDataEngineer             Key = "data_engineer"
)

// DefaultKey is returned when no table entry matches. Every downstream
// consumer relies on a non-null key, so this must never be empty.
const DefaultKey = KeyEngineeringManager

// Source records whether a key came from a keyword match or the fallback.
type Source string

// Source values.
const (
	SourceAutoDetected Source = "auto-detected"
	SourceDefault      Source = "default"
)

type rule struct {
	keywords []string
	key      Key
}

// rules is ordered most-specific first. Ties between entries whose keyword
// sets both match resolve by position in this table; the ordering is a
// configuration concern, not a computed one.
var rules = []rule{
	{[]string{"data", "engineering", "manager"}, KeyDataEngineeringManager},
	{[]string{"senior", "engineering", "manager"}, KeySeniorEngineeringManager},
	{[]string{"director", "engineering"}, KeySeniorEngineeringManager},
	{[]string{"head", "engineering"}, KeySeniorEngineeringManager},
	{[]string{"vp", "engineering"}, KeySeniorEngineeringManager},
	{[]string{"engineering", "manager"}, KeyEngineeringManager},
	{[]string{"development", "manager"}, KeyEngineeringManager},
	{[]string{"team", "lead"}, KeyEngineeringManager},
	{[]string{"lead", "data", "engineer"}, KeyLeadDataEngineer},
	{[]string{"senior", "data", "engineer"}, KeyLeadDataEngineer},
	{[]string{"staff", "data", "engineer"}, KeyLeadDataEngineer},
	{[]string{"principal", "data", "engineer"}, KeyLeadDataEngineer},
	{[]string{"data", "engineer"}, KeyDataEngineer},
	{[]string{"senior", "software", "engineer"}, KeySeniorSoftwareEngineer},
	{[]string{"staff", "engineer"}, KeySeniorSoftwareEngineer},
	{[]string{"principal", "engineer"}, KeySeniorSoftwareEngineer},
	{[]string{"lead", "engineer"}, KeySeniorSoftwareEngineer},
	{[]string{"senior", "engineer"}, KeySeniorSoftwareEngineer},
	{[]string{"senior", "developer"}, KeySeniorSoftwareEngineer},
	{[]string{"software", "engineer"}, KeySoftwareEngineer},
	{[]string{"engineer"}, KeySoftwareEngineer},
	{[]string{"developer"}, KeySoftwareEngineer},
	{[]string{"programmer"}, KeySoftwareEngineer},
}

// Select returns the template key for a position title and whether it was
// auto-detected or the fallback. The returned key is never empty.
func Select(positionTitle string) (Key, Source) {
	tokens := tokenize(positionTitle)
	if len(tokens) == 0 {
		return DefaultKey, SourceDefault
	}

	for _, r := range rules {
		if containsAll(tokens, r.keywords) {
			return r.key, SourceAutoDetected
		}
	}

	return DefaultKey, SourceDefault
}

// Keys returns every template key, default first.
func Keys() []Key {
	return []Key{
		KeyEngineeringManager,
		KeySeniorEngineeringManager,
		KeyDataEngineeringManager,
		KeySeniorSoftwareEngineer,
		KeySoftwareEngineer,
		KeyLeadDataEngineer,
		KeyDataEngineer,
	}
}

// Valid reports whether k is one of the closed template key set.
func Valid(k Key) bool {
	for _, known := range Keys() {
		if k == known {
			return true
		}
	}
	return false
}

// tokenize lower-cases the title and splits it on anything that is not a
// letter or digit.
func tokenize(title string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		tokens[f] = struct{}{}
	}
	return tokens
}

func containsAll(tokens map[string]struct{}, keywords []string) bool {
	for _, kw := range keywords {
		if _, ok := tokens[kw]; !ok {
			return false
		}
	}
	return true
}
