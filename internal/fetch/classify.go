package fetch

import (
	"fmt"
	"strings"
)

// FailureKind labels why a posting fetch produced no usable text.
type FailureKind string

const (
	// KindBlocked means the site served an anti-bot wall instead of content.
	KindBlocked FailureKind = "blocked"
	// KindSPA means the page renders its content client-side and the server
	// response carries almost no visible text.
	KindSPA FailureKind = "spa"
	// KindMinimalContent means text was extracted but there is too little of
	// it for downstream extraction to be meaningful.
	KindMinimalContent FailureKind = "minimal_content"
	// KindTimeout means the fetch exceeded its deadline.
	KindTimeout FailureKind = "timeout"
	// KindNetwork covers transport-level failures and invalid URLs.
	KindNetwork FailureKind = "network"
)

// Classification thresholds. Tunable; tests pin the exact boundaries.
const (
	// SPATextThreshold: below this many visible characters a non-trivial
	// document is treated as script-rendered.
	SPATextThreshold = 200
	// MinContentThreshold: below this many visible characters extraction
	// has too little to work with.
	MinContentThreshold = 500
	// nonTrivialHTMLSize separates a genuinely empty response from a SPA
	// shell that is all markup and script.
	nonTrivialHTMLSize = 2048
)

// blockedSignatures are lowercase substrings that identify challenge pages
// served by bot-protection layers even under a 200 status.
var blockedSignatures = []string{
	"are you a human",
	"verify you are human",
	"enable javascript and cookies to continue",
	"checking your browser before accessing",
	"just a moment...",
	"attention required! | cloudflare",
	"access to this page has been denied",
	"request blocked",
	"captcha",
}

// blockedStatus reports whether an HTTP status code is one sites commonly
// use to turn scrapers away.
func blockedStatus(code int) bool {
	switch code {
	case 403, 429, 503:
		return true
	}
	return false
}

// Classify inspects a fetched result, fills in its visible text, and
// returns the failure kind plus a short reason, or ("", "") when the
// result is usable. It is idempotent over the same Result.
func Classify(result *Result) (FailureKind, string) {
	if blockedStatus(result.StatusCode) {
		return KindBlocked, fmt.Sprintf("HTTP %d suggests anti-scraping protection", result.StatusCode)
	}

	lower := strings.ToLower(result.HTML)
	for _, sig := range blockedSignatures {
		if strings.Contains(lower, sig) {
			return KindBlocked, "challenge page detected in response body"
		}
	}

	if result.Text == "" {
		result.Text = visibleText(result.HTML, result.URL)
	}

	if len(result.Text) < SPATextThreshold && len(result.HTML) >= nonTrivialHTMLSize {
		return KindSPA, "page appears to load its content with client-side scripting"
	}
	if len(result.Text) < MinContentThreshold {
		return KindMinimalContent, "insufficient visible text extracted from page"
	}

	return "", ""
}
