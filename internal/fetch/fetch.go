// Package fetch retrieves job posting pages over HTTP and classifies the
// common ways a scrape can fail (anti-bot walls, script-only pages, thin
// content) so callers can decide on user messaging.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout bounds a single posting fetch. Callers must never block
// past it; an expired deadline is reported as KindTimeout.
const DefaultTimeout = 10 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; ResumeAutomation/1.0)"

// Result holds the raw and processed content from a posting fetch.
type Result struct {
	URL         string
	HTML        string
	Text        string
	ContentType string
	StatusCode  int
}

// Options configures fetch behavior.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	Headers    map[string]string
	UseBrowser bool // render with headless Chrome when the page looks like a SPA
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Fetch retrieves a posting URL, extracts its visible text and classifies
// failure modes. On a classified failure it returns a *Error whose Kind
// tells the caller what went wrong; Text is only populated on success.
func Fetch(ctx context.Context, urlStr string, options *Options) (*Result, error) {
	// Normalize into a local copy; the caller's Options are shared across
	// requests and must not be mutated.
	var opts Options
	if options != nil {
		opts = *options
	} else {
		opts = *DefaultOptions()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{URL: urlStr, Kind: KindNetwork, Message: "invalid URL", Cause: err}
	}

	client := &http.Client{Timeout: opts.Timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Kind: KindNetwork, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", opts.UserAgent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		kind := KindNetwork
		if isTimeout(err) {
			kind = KindTimeout
		}
		return nil, &Error{URL: urlStr, Kind: kind, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: urlStr, Kind: KindNetwork, Message: "failed to read response body", Cause: err}
	}

	result := &Result{
		URL:         urlStr,
		HTML:        string(bodyBytes),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if kind, msg := Classify(result); kind != "" {
		if kind == KindSPA && opts.UseBrowser {
			if rendered, browserErr := renderWithBrowser(ctx, urlStr, opts.Timeout); browserErr == nil {
				result.HTML = rendered
				result.Text = visibleText(rendered, urlStr)
				if kind2, msg2 := Classify(result); kind2 != "" {
					return nil, &Error{URL: urlStr, Kind: kind2, Message: msg2}
				}
				return result, nil
			}
		}
		return nil, &Error{URL: urlStr, Kind: kind, Message: msg}
	}

	return result, nil
}

// visibleText parses HTML and returns the main body text. Platform-specific
// content selectors are tried first; noise elements (navigation, forms,
// legal boilerplate) are stripped before extraction.
func visibleText(html, urlStr string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	platform := DetectPlatform(urlStr)

	doc.Find("nav, footer, header, script, style, noscript, .ad, .advertisement, .sidebar, .cookie-banner, .popup").Remove()
	if noise := PlatformNoiseSelectors(platform); len(noise) > 0 {
		doc.Find(strings.Join(noise, ", ")).Remove()
	}

	var main *goquery.Selection
	for _, selector := range PlatformContentSelectors(platform) {
		if sel := doc.Find(selector); sel.Length() > 0 {
			main = sel.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	return cleanWhitespace(main.Text())
}

// cleanWhitespace collapses blank lines and trims each line.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

// Error represents a classified failure during posting retrieval.
type Error struct {
	URL     string
	Kind    FailureKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s (%s): %s: %v", e.URL, e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s (%s): %s", e.URL, e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf extracts the failure kind from an error returned by Fetch.
func KindOf(err error) (FailureKind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return "", false
}
