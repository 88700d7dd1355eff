package extract

import (
	"net/url"
	"regexp"
	"strings"
)

// companyDomains maps well-known career-site hosts straight to a company
// name, skipping pattern matching entirely.
var companyDomains = map[string]string{
	"google.com":     "Google",
	"microsoft.com":  "Microsoft",
	"amazon.com":     "Amazon",
	"meta.com":       "Meta",
	"facebook.com":   "Meta",
	"apple.com":      "Apple",
	"netflix.com":    "Netflix",
	"uber.com":       "Uber",
	"airbnb.com":     "Airbnb",
	"salesforce.com": "Salesforce",
	"oracle.com":     "Oracle",
	"nvidia.com":     "NVIDIA",
	"stripe.com":     "Stripe",
	"github.com":     "GitHub",
	"gitlab.com":     "GitLab",
	"atlassian.com":  "Atlassian",
	"shopify.com":    "Shopify",
	"databricks.com": "Databricks",
	"snowflake.com":  "Snowflake",
	"confluent.io":   "Confluent",
}

// boardPathRes pull the company slug out of job-board URL structures.
var boardPathRes = []*regexp.Regexp{
	regexp.MustCompile(`boards\.greenhouse\.io/([^/?#]+)`),
	regexp.MustCompile(`jobs\.lever\.co/([^/?#]+)`),
	regexp.MustCompile(`([^./]+)\.wd\d+\.myworkdayjobs\.com`),
	regexp.MustCompile(`hire\.jobvite\.com/([^/?#]+)`),
	regexp.MustCompile(`([^./]+)\.bamboohr\.com`),
}

// genericSubdomains never identify a company.
var genericSubdomains = map[string]struct{}{
	"www": {}, "jobs": {}, "careers": {}, "hire": {}, "apply": {}, "boards": {},
}

// CompanyFromURL guesses the company from a posting URL: known corporate
// domains first, then job-board path slugs, then the subdomain. Returns
// nil when nothing recognizable is present.
func CompanyFromURL(urlStr string) *string {
	parsed, err := url.Parse(strings.ToLower(urlStr))
	if err != nil || parsed.Host == "" {
		return nil
	}

	host := strings.TrimPrefix(parsed.Host, "www.")

	if name, ok := companyDomains[host]; ok {
		return &name
	}

	for _, re := range boardPathRes {
		if m := re.FindStringSubmatch(strings.ToLower(urlStr)); m != nil {
			name := titleCase(strings.ReplaceAll(m[1], "-", " "))
			return CleanCompanyName(name)
		}
	}

	if i := strings.Index(host, "."); i > 0 && strings.Count(host, ".") >= 2 {
		sub := host[:i]
		if _, generic := genericSubdomains[sub]; !generic {
			name := titleCase(strings.ReplaceAll(sub, "-", " "))
			return CleanCompanyName(name)
		}
	}

	return nil
}
