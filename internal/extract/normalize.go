package extract

import (
	"regexp"
	"strings"
)

var (
	boardSuffixRe  = regexp.MustCompile(`(?i)\s*[-|–]\s*(?:LinkedIn|Indeed|Glassdoor|Greenhouse|Lever|Jobs?|Careers?|Hiring)\s*$`)
	legalSuffixRe  = regexp.MustCompile(`(?i)[\s,]+(?:inc|llc|corp|ltd|co)\.?\s*$`)
	leadingArticle = regexp.MustCompile(`(?i)^the\s+`)
	hasLetterRe    = regexp.MustCompile(`[a-zA-Z]`)
	allDigitsRe    = regexp.MustCompile(`^\d+$`)
)

// falsePositives are words the company rules capture that are never
// company names.
var falsePositives = map[string]struct{}{
	"this": {}, "the": {}, "we": {}, "you": {}, "our": {}, "your": {},
	"all": {}, "some": {}, "many": {}, "most": {}, "key": {}, "main": {},
	"primary": {}, "current": {}, "new": {}, "next": {}, "first": {}, "last": {},
	"position": {}, "role": {}, "job": {}, "career": {}, "opportunity": {},
	"team": {}, "company": {}, "organization": {}, "department": {},
	"division": {}, "group": {}, "candidate": {}, "applicant": {},
	"engineering": {}, "software": {}, "technology": {}, "technical": {},
	"senior": {}, "junior": {}, "us": {}, "remote": {}, "onsite": {}, "hybrid": {},
	"full time": {}, "part time": {}, "careers": {}, "jobs": {}, "hiring": {},
	"apply": {}, "engineer": {}, "manager": {}, "developer": {}, "analyst": {},
	"scientist": {}, "director": {}, "lead": {}, "principal": {}, "staff": {},
	"architect": {}, "designer": {}, "intern": {},
}

// StripBoardSuffix removes job-board boilerplate suffixes such as
// " - LinkedIn" or " | Indeed" from a candidate field.
func StripBoardSuffix(s string) string {
	for {
		stripped := boardSuffixRe.ReplaceAllString(s, "")
		if stripped == s {
			return strings.TrimSpace(s)
		}
		s = stripped
	}
}

// CleanCompanyName normalizes a candidate company name and rejects common
// false positives. Returns nil when the candidate is not usable.
func CleanCompanyName(candidate string) *string {
	company := strings.TrimSpace(candidate)
	company = StripBoardSuffix(company)
	company = leadingArticle.ReplaceAllString(company, "")
	company = legalSuffixRe.ReplaceAllString(company, "")
	company = strings.Trim(company, " .,;:-")

	if company == "" {
		return nil
	}
	if allFalsePositiveTokens(company) {
		return nil
	}
	if len(company) < 2 || len(company) > 50 {
		return nil
	}
	if allDigitsRe.MatchString(company) || !hasLetterRe.MatchString(company) {
		return nil
	}

	return &company
}

// allFalsePositiveTokens reports whether every word of the candidate is a
// known non-name ("Our Team", "This Role"), not just the phrase as a whole.
func allFalsePositiveTokens(candidate string) bool {
	if _, bad := falsePositives[strings.ToLower(candidate)]; bad {
		return true
	}
	words := strings.Fields(strings.ToLower(candidate))
	if len(words) == 0 {
		return true
	}
	for _, w := range words {
		if _, bad := falsePositives[w]; !bad {
			return false
		}
	}
	return true
}

// titleCase capitalizes the first letter of each space-separated word.
// Used for company names recovered from URL slugs.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
