// Package detect sequences fetch, extraction and template selection into a
// single job-posting detection pass and labels the outcome with a coarse
// confidence. It never returns an error past its boundary: every outcome,
// including fetch failures, is folded into a structured Result so the
// calling layer decides user messaging.
package detect

import (
	"context"
	"strings"

	"resume-automation/internal/extract"
	"resume-automation/internal/fetch"
	"resume-automation/internal/template"
)

// Query is one detection request. At least one field must be non-empty;
// position title alone is enough for a template-only lookup.
type Query struct {
	JobURL         string
	JobDescription string
	PositionTitle  string
}

// Confidence summarizes how many identifying fields were extracted.
type Confidence string

// Confidence levels. High means both company and position were found,
// low means neither.
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Result is the wire-shaped outcome of a detection pass. Nullable fields
// are pointers so a null survives a JSON round trip instead of collapsing
// to "".
type Result struct {
	Success           bool             `json:"success"`
	CompanyName       *string          `json:"company_name"`
	PositionTitle     *string          `json:"position_title"`
	SuggestedTemplate *template.Key    `json:"suggested_template"`
	TemplateSource    *template.Source `json:"template_source"`
	Confidence        Confidence       `json:"confidence"`
	Message           *string          `json:"message"`
}

// Fetcher retrieves a posting page. Injected so tests can mock the network
// and so the title-only path provably never touches it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Result, error)
}

// HTTPFetcher is the production Fetcher backed by the fetch package.
type HTTPFetcher struct {
	Options *fetch.Options
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*fetch.Result, error) {
	return fetch.Fetch(ctx, url, f.Options)
}

// Detector runs detection passes against an injected Fetcher.
type Detector struct {
	fetcher Fetcher
}

// New returns a Detector. A nil fetcher falls back to plain HTTP fetching
// with default options.
func New(fetcher Fetcher) *Detector {
	if fetcher == nil {
		fetcher = &HTTPFetcher{}
	}
	return &Detector{fetcher: fetcher}
}

// failureMessages translate a fetch failure kind into the message shown to
// the user, who may then be prompted to paste the posting text manually.
var failureMessages = map[fetch.FailureKind]string{
	fetch.KindBlocked:        "scraping failed, likely anti-scraping protection",
	fetch.KindSPA:            "page loads content with client-side scripting",
	fetch.KindMinimalContent: "insufficient content extracted",
	fetch.KindTimeout:        "scraping failed: request timed out while fetching the posting",
	fetch.KindNetwork:        "scraping failed: could not reach the posting URL",
}

// Detect runs the linear detection state machine: resolve input, fetch if
// needed, extract, select a template, assign confidence. No step retries;
// a fetch failure is terminal for the request and comes back as
// Success=false with a kind-specific message.
func (d *Detector) Detect(ctx context.Context, q Query) Result {
	jobURL := strings.TrimSpace(q.JobURL)
	description := strings.TrimSpace(q.JobDescription)
	title := strings.TrimSpace(q.PositionTitle)

	// Title-only lookup: no fetch, no extraction.
	if title != "" && jobURL == "" && description == "" {
		key, source := template.Select(title)
		return Result{
			Success:           true,
			PositionTitle:     &title,
			SuggestedTemplate: &key,
			TemplateSource:    &source,
			Confidence:        ConfidenceMedium,
		}
	}

	if jobURL == "" && description == "" {
		return failure("no input provided")
	}

	text := description
	if text == "" {
		result, err := d.fetcher.Fetch(ctx, jobURL)
		if err != nil {
			if kind, ok := fetch.KindOf(err); ok {
				return failure(failureMessages[kind])
			}
			return failure(failureMessages[fetch.KindNetwork])
		}
		text = result.Text
	}

	extraction := extract.FromText(text, jobURL)

	// Template selection never fails: an unknown or missing title maps to
	// the default key.
	titleForTemplate := title
	if extraction.Position != nil {
		titleForTemplate = *extraction.Position
	}
	key, source := template.Select(titleForTemplate)

	return Result{
		Success:           true,
		CompanyName:       extraction.Company,
		PositionTitle:     extraction.Position,
		SuggestedTemplate: &key,
		TemplateSource:    &source,
		Confidence:        confidence(extraction),
	}
}

func confidence(e extract.Extraction) Confidence {
	switch {
	case e.Company != nil && e.Position != nil:
		return ConfidenceHigh
	case e.Company == nil && e.Position == nil:
		return ConfidenceLow
	default:
		return ConfidenceMedium
	}
}

func failure(message string) Result {
	return Result{
		Success:    false,
		Confidence: ConfidenceLow,
		Message:    &message,
	}
}
