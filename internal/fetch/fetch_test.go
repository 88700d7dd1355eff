package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jobPage() string {
	para := strings.Repeat("We are hiring a Senior Software Engineer to build data pipelines. ", 20)
	return "<html><body><main><h1>Senior Software Engineer</h1><p>" + para + "</p></main></body></html>"
}

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(jobPage()))
	}))
	defer server.Close()

	result, err := Fetch(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Contains(t, result.Text, "Senior Software Engineer")
	assert.GreaterOrEqual(t, len(result.Text), MinContentThreshold)
}

func TestFetch_InvalidURL(t *testing.T) {
	_, err := Fetch(context.Background(), "not-a-valid-url", nil)
	require.Error(t, err)

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindNetwork, kind)
}

// Options are shared across requests by callers holding one instance, so
// Fetch must normalize defaults into a local copy instead of writing back.
func TestFetch_DoesNotMutateCallerOptions(t *testing.T) {
	opts := &Options{UserAgent: "test-agent"}

	_, err := Fetch(context.Background(), "not-a-valid-url", opts)
	require.Error(t, err)

	assert.Zero(t, opts.Timeout)
	assert.Equal(t, "test-agent", opts.UserAgent)
}

func TestFetch_BlockedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := Fetch(context.Background(), server.URL, nil)
	require.Error(t, err)

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindBlocked, kind)
	assert.Contains(t, err.Error(), "403")
}

func TestFetch_ChallengePageBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body>Just a moment... Enable JavaScript and cookies to continue</body></html>"))
	}))
	defer server.Close()

	_, err := Fetch(context.Background(), server.URL, nil)
	require.Error(t, err)

	kind, _ := KindOf(err)
	assert.Equal(t, KindBlocked, kind)
}

func TestFetch_SPAShell(t *testing.T) {
	// Large document, almost no visible text: the signature of a
	// client-rendered app shell.
	shell := "<html><head><script>" + strings.Repeat("var x=1;", 1000) + "</script></head><body><div id=\"root\"></div></body></html>"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(shell))
	}))
	defer server.Close()

	_, err := Fetch(context.Background(), server.URL, nil)
	require.Error(t, err)

	kind, _ := KindOf(err)
	assert.Equal(t, KindSPA, kind)
}

func TestFetch_MinimalContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>Short posting.</p></body></html>"))
	}))
	defer server.Close()

	_, err := Fetch(context.Background(), server.URL, nil)
	require.Error(t, err)

	kind, _ := KindOf(err)
	assert.Equal(t, KindMinimalContent, kind)
}

func TestVisibleText_StripsNoise(t *testing.T) {
	html := `
	<html>
		<body>
			<nav>Navigation</nav>
			<main>
				<h1>Main Content</h1>
				<p>This is the important text.</p>
			</main>
			<footer>Footer</footer>
		</body>
	</html>`

	text := visibleText(html, "https://example.com/jobs/1")
	assert.Contains(t, text, "Main Content")
	assert.Contains(t, text, "important text")
	assert.NotContains(t, text, "Navigation")
	assert.NotContains(t, text, "Footer")
}

func TestVisibleText_JobDescriptionSelector(t *testing.T) {
	html := `
	<html>
		<body>
			<div class="sidebar">Sidebar junk</div>
			<div class="job-description">
				<h2>Requirements</h2>
				<p>5 years experience in Go</p>
			</div>
		</body>
	</html>`

	text := visibleText(html, "https://example.com/jobs/1")
	assert.Contains(t, text, "Requirements")
	assert.Contains(t, text, "5 years experience")
	assert.NotContains(t, text, "Sidebar junk")
}
