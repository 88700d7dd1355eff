// Package extract applies ordered pattern rules to job posting text and
// URLs to identify the company name, position title and salary range.
// Extraction is deterministic: no network calls, no hidden state, and a
// field no rule matches comes back nil, never "".
package extract

import (
	"regexp"
	"strings"
)

// Extraction holds the fields recovered from a posting. nil means no rule
// matched; callers must distinguish unknown from empty.
type Extraction struct {
	Company  *string
	Position *string
	Salary   *string
}

var (
	htmlTagRe      = regexp.MustCompile(`<[^>]+>`)
	horizontalWsRe = regexp.MustCompile(`[ \t\r]+`)
	titleTagRe     = regexp.MustCompile(`(?i)<title[^>]*>([^<]+)`)
)

// companyLeadWindow limits the most aggressive company rules to the start
// of the posting, where self-introductions reliably appear.
const companyLeadWindow = 200

// FromText extracts company, position and salary from posting text.
// Content rules run first; the URL is only consulted for fields the text
// did not yield.
func FromText(text, urlStr string) Extraction {
	titleTag := matchTitleTag(text)

	// Line structure is load-bearing for the label rules ("Company: X"
	// stops at end of line), so only horizontal whitespace is collapsed.
	clean := htmlTagRe.ReplaceAllString(text, " ")
	clean = horizontalWsRe.ReplaceAllString(clean, " ")
	clean = strings.TrimSpace(clean)

	company := extractCompany(clean, titleTag)
	position := extractPosition(clean)
	salary := extractSalary(clean)

	if company == nil && urlStr != "" {
		company = CompanyFromURL(urlStr)
	}

	return Extraction{Company: company, Position: position, Salary: salary}
}

// matchTitleTag pulls the full text of an HTML <title> element.
func matchTitleTag(raw string) string {
	m := titleTagRe.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// knownTitles is checked in order; the more senior and more specific
// variants come first so "Senior Data Engineer" never matches as bare
// "Data Engineer".
var knownTitles = []string{
	"Senior Engineering Manager",
	"Data Engineering Manager",
	"Software Engineering Manager",
	"Engineering Manager",
	"Director of Engineering",
	"VP of Engineering",
	"Lead Data Engineer",
	"Senior Data Engineer",
	"Staff Data Engineer",
	"Principal Data Engineer",
	"Data Engineer",
	"Senior Software Engineer",
	"Lead Software Engineer",
	"Staff Engineer",
	"Principal Engineer",
	"Senior Engineer",
	"Software Engineer",
	"Machine Learning Engineer",
	"Site Reliability Engineer",
	"Platform Engineer",
	"Infrastructure Engineer",
	"DevOps Engineer",
	"Frontend Engineer",
	"Backend Engineer",
	"Full Stack Engineer",
	"Full-Stack Engineer",
	"Senior Data Scientist",
	"Data Scientist",
	"Senior Product Manager",
	"Product Manager",
	"Tech Lead",
	"Technical Lead",
}

var knownTitleRes = compileKnownTitles()

func compileKnownTitles() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(knownTitles))
	for i, title := range knownTitles {
		res[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(title) + `\b`)
	}
	return res
}

// labeledTitleRes match explicit title labels and introduction phrasing.
var labeledTitleRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Position:\s*([^.!?\n]{5,60})`),
	regexp.MustCompile(`(?i)Role:\s*([^.!?\n]{5,60})`),
	regexp.MustCompile(`(?i)Job Title:\s*([^.!?\n]{5,60})`),
	regexp.MustCompile(`(?i)We are looking for (?:a|an)\s+([^.!?\n]{5,60}?(?:Engineer|Manager|Developer|Analyst|Scientist))`),
}

func extractPosition(text string) *string {
	for i, re := range knownTitleRes {
		if re.MatchString(text) {
			title := knownTitles[i]
			return &title
		}
	}

	for _, re := range labeledTitleRes {
		if m := re.FindStringSubmatch(text); m != nil {
			title := StripBoardSuffix(strings.TrimSpace(m[1]))
			if len(title) >= 5 && len(title) <= 60 {
				return &title
			}
		}
	}

	return nil
}

// companyAtRe catches bare "about/join/at <Company>" phrasing. Over a full
// posting body it is far too noisy, so it runs lead-only.
var companyAtRe = regexp.MustCompile(`\b(?i:about|join|at)\s+([A-Z][a-zA-Z0-9&.()'-]*(?:\s+[A-Z][a-zA-Z0-9&.()'-]*){0,3})`)

// companyRes run in order against the lead window first, then against the
// whole posting (minus the noisy last rule).
var companyRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Company: ?([^\n]{2,60})`),
	regexp.MustCompile(`(?i)Organization: ?([^\n]{2,60})`),
	regexp.MustCompile(`([A-Z][a-zA-Z0-9&.()'-]*(?:\s+[A-Z][a-zA-Z0-9&.()'-]*){0,3})\s+is\s+(?i:looking for|seeking|hiring|a leading)`),
	regexp.MustCompile(`\b(?i:work\s+(?:at|with))\s+([A-Z][a-zA-Z0-9&.()'-]*(?:\s+[A-Z][a-zA-Z0-9&.()'-]*){0,3})`),
	regexp.MustCompile(`\b(?i:apply\s+to)\s+([A-Z][a-zA-Z0-9&.()'-]*(?:\s+[A-Z][a-zA-Z0-9&.()'-]*){0,3})`),
	regexp.MustCompile(`\b(?i:career\s+(?:opportunity\s+)?at)\s+([A-Z][a-zA-Z0-9&.()'-]*(?:\s+[A-Z][a-zA-Z0-9&.()'-]*){0,3})`),
	companyAtRe,
}

// titleSegmentRe splits an HTML title into its display segments.
var titleSegmentRe = regexp.MustCompile(`\s*\|\s*|\s+[-–—]\s+`)

// roleWords flag title segments that name a position rather than a company.
var roleWords = map[string]struct{}{
	"engineer": {}, "engineering": {}, "manager": {}, "developer": {},
	"scientist": {}, "analyst": {}, "architect": {}, "designer": {},
	"director": {}, "lead": {}, "intern": {}, "recruiter": {},
}

// companyFromTitleTag recovers a company name from a page title such as
// "Senior Data Engineer - Snowflake | Careers". Segments that name a
// position are skipped so the job title is never mistaken for the company.
func companyFromTitleTag(titleTag string) *string {
	if titleTag == "" {
		return nil
	}
	title := StripBoardSuffix(titleTag)

	if m := companyAtRe.FindStringSubmatch(title); m != nil {
		if company := CleanCompanyName(m[1]); company != nil {
			return company
		}
	}

	for _, seg := range titleSegmentRe.Split(title, -1) {
		if looksLikePosition(seg) {
			continue
		}
		if company := CleanCompanyName(seg); company != nil {
			return company
		}
	}
	return nil
}

func looksLikePosition(s string) bool {
	for _, w := range strings.Fields(strings.ToLower(s)) {
		if _, ok := roleWords[strings.Trim(w, ".,()")]; ok {
			return true
		}
	}
	return false
}

func extractCompany(text, titleTag string) *string {
	if company := companyFromTitleTag(titleTag); company != nil {
		return company
	}

	lead := text
	if len(lead) > companyLeadWindow {
		lead = lead[:companyLeadWindow]
	}

	for _, re := range companyRes {
		for _, m := range re.FindAllStringSubmatch(lead, -1) {
			if company := CleanCompanyName(m[1]); company != nil {
				return company
			}
		}
	}

	for _, re := range companyRes[:len(companyRes)-1] {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if company := CleanCompanyName(m[1]); company != nil {
				return company
			}
		}
	}

	return nil
}
