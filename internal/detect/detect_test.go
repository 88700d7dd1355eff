package detect

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-automation/internal/fetch"
	"resume-automation/internal/template"
)

// fakeFetcher records calls and returns a canned result or classified error.
type fakeFetcher struct {
	calls  int
	result *fetch.Result
	err    error
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (*fetch.Result, error) {
	f.calls++
	return f.result, f.err
}

func TestDetect_TitleOnlySkipsFetch(t *testing.T) {
	fetcher := &fakeFetcher{}
	d := New(fetcher)

	result := d.Detect(context.Background(), Query{PositionTitle: "Staff Software Engineer"})

	assert.True(t, result.Success)
	assert.Equal(t, 0, fetcher.calls, "title-only lookup must not touch the network")
	require.NotNil(t, result.SuggestedTemplate)
	assert.Equal(t, template.KeySeniorSoftwareEngineer, *result.SuggestedTemplate)
	require.NotNil(t, result.TemplateSource)
	assert.Equal(t, template.SourceAutoDetected, *result.TemplateSource)
	require.NotNil(t, result.PositionTitle)
	assert.Equal(t, "Staff Software Engineer", *result.PositionTitle)
	assert.Nil(t, result.CompanyName)
}

func TestDetect_NoInput(t *testing.T) {
	d := New(&fakeFetcher{})

	result := d.Detect(context.Background(), Query{})

	assert.False(t, result.Success)
	require.NotNil(t, result.Message)
	assert.Equal(t, "no input provided", *result.Message)
	assert.Nil(t, result.SuggestedTemplate)
}

func TestDetect_FetchFailureMessages(t *testing.T) {
	tests := []struct {
		kind     fetch.FailureKind
		contains []string
	}{
		{fetch.KindBlocked, []string{"scrap", "anti-scraping protection"}},
		{fetch.KindSPA, []string{"client-side scripting"}},
		{fetch.KindMinimalContent, []string{"insufficient content"}},
		// Timeout and network failures are still scraping failures to the
		// user, so both messages lead with that.
		{fetch.KindTimeout, []string{"scrap", "timed out"}},
		{fetch.KindNetwork, []string{"scrap", "could not reach"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			fetcher := &fakeFetcher{err: &fetch.Error{URL: "https://example.com/job", Kind: tt.kind, Message: "x"}}
			d := New(fetcher)

			result := d.Detect(context.Background(), Query{JobURL: "https://example.com/job"})

			assert.False(t, result.Success)
			assert.Equal(t, ConfidenceLow, result.Confidence)
			require.NotNil(t, result.Message)
			for _, want := range tt.contains {
				assert.Contains(t, *result.Message, want)
			}
			assert.Nil(t, result.SuggestedTemplate, "no template on fetch failure")
			assert.Equal(t, 1, fetcher.calls)
		})
	}
}

func TestDetect_DescriptionBypassesFetch(t *testing.T) {
	fetcher := &fakeFetcher{}
	d := New(fetcher)

	result := d.Detect(context.Background(), Query{
		JobDescription: "Company: Stripe\nPosition: Senior Software Engineer\nBuild payments infrastructure.",
	})

	assert.True(t, result.Success)
	assert.Equal(t, 0, fetcher.calls)
	require.NotNil(t, result.CompanyName)
	assert.Equal(t, "Stripe", *result.CompanyName)
	assert.Equal(t, ConfidenceHigh, result.Confidence)
}

func TestDetect_FetchedTextIsExtracted(t *testing.T) {
	fetcher := &fakeFetcher{result: &fetch.Result{
		URL:        "https://example.com/job",
		Text:       "Snowflake is hiring a Senior Data Engineer to build the storage layer.",
		StatusCode: 200,
	}}
	d := New(fetcher)

	result := d.Detect(context.Background(), Query{JobURL: "https://example.com/job"})

	assert.True(t, result.Success)
	require.NotNil(t, result.CompanyName)
	assert.Equal(t, "Snowflake", *result.CompanyName)
	require.NotNil(t, result.PositionTitle)
	assert.Equal(t, "Senior Data Engineer", *result.PositionTitle)
	require.NotNil(t, result.SuggestedTemplate)
	assert.Equal(t, template.KeyLeadDataEngineer, *result.SuggestedTemplate)
	assert.Equal(t, ConfidenceHigh, result.Confidence)
}

// Confidence is high iff both fields were found, low iff neither, medium
// otherwise.
func TestDetect_ConfidenceMonotonicity(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        Confidence
	}{
		{"both found", "Company: Stripe\nPosition: Senior Software Engineer", ConfidenceHigh},
		{"only position", "We need a Senior Software Engineer for this role.", ConfidenceMedium},
		{"only company", "Company: Stripe\nSome vague responsibilities here.", ConfidenceMedium},
		{"neither found", "lorem ipsum dolor sit amet and nothing else useful", ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(&fakeFetcher{})
			result := d.Detect(context.Background(), Query{JobDescription: tt.description})

			assert.True(t, result.Success, "extraction misses are not failures")
			assert.Equal(t, tt.want, result.Confidence)
			require.NotNil(t, result.SuggestedTemplate, "template default still returned")
		})
	}
}

func TestDetect_ExtractionMissStillSucceedsWithDefault(t *testing.T) {
	d := New(&fakeFetcher{})

	result := d.Detect(context.Background(), Query{JobDescription: "qwerty gibberish zxcvb"})

	assert.True(t, result.Success)
	assert.Nil(t, result.CompanyName)
	assert.Nil(t, result.PositionTitle)
	require.NotNil(t, result.SuggestedTemplate)
	assert.Equal(t, template.DefaultKey, *result.SuggestedTemplate)
	require.NotNil(t, result.TemplateSource)
	assert.Equal(t, template.SourceDefault, *result.TemplateSource)
	assert.Equal(t, ConfidenceLow, result.Confidence)
}

// Serializing then parsing a Result must preserve nulls, not coerce them to
// empty strings.
func TestResult_JSONRoundTripPreservesNulls(t *testing.T) {
	company := "Stripe"
	key := template.KeySoftwareEngineer
	source := template.SourceAutoDetected
	original := Result{
		Success:           true,
		CompanyName:       &company,
		PositionTitle:     nil,
		SuggestedTemplate: &key,
		TemplateSource:    &source,
		Confidence:        ConfidenceMedium,
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"position_title":null`)
	assert.Contains(t, string(data), `"message":null`)

	var decoded Result
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}
