package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func TestFromText_FullPosting(t *testing.T) {
	text := `Company: Stripe
Position: Senior Software Engineer

Stripe is looking for an experienced engineer to join the payments
infrastructure team. Compensation: $160,000 - $210,000 plus equity.`

	result := FromText(text, "")
	require.NotNil(t, result.Company)
	require.NotNil(t, result.Position)
	require.NotNil(t, result.Salary)
	assert.Equal(t, "Stripe", *result.Company)
	assert.Equal(t, "Senior Software Engineer", *result.Position)
	assert.Equal(t, "$160,000 - $210,000", *result.Salary)
}

func TestFromText_Deterministic(t *testing.T) {
	text := "Join Databricks as a Senior Data Engineer. Salary range: $150K - $200K."
	first := FromText(text, "")
	second := FromText(text, "")
	assert.Equal(t, strOrEmpty(first.Company), strOrEmpty(second.Company))
	assert.Equal(t, strOrEmpty(first.Position), strOrEmpty(second.Position))
	assert.Equal(t, strOrEmpty(first.Salary), strOrEmpty(second.Salary))
}

func TestExtractCompany_Rules(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"explicit label", "Company: Stripe\nLocation: Remote", "Stripe"},
		{"organization label", "Organization: Confluent\nAbout the role", "Confluent"},
		{"is hiring phrasing", "Acme is hiring a Staff Engineer to build tooling.", "Acme"},
		{"join phrasing", "Join Databricks as a Senior Software Engineer.", "Databricks"},
		{"work at phrasing", "Come work at Snowflake on the storage team.", "Snowflake"},
		{"legal suffix stripped", "Company: Initech Inc.\n", "Initech"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractCompany(tt.text, "")
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestExtractCompany_TitleTagWins(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			"company first",
			"<html><title>Snowflake - Senior Data Engineer | Careers</title><body>Generic text</body></html>",
			"Snowflake",
		},
		{
			"position first",
			"<html><title>Senior Software Engineer - Hooli | LinkedIn</title><body>Generic text</body></html>",
			"Hooli",
		},
		{
			"careers at phrasing",
			"<html><title>Careers at Vandelay Industries</title><body>Generic text</body></html>",
			"Vandelay Industries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FromText(tt.raw, "")
			require.NotNil(t, result.Company)
			assert.Equal(t, tt.want, *result.Company)
		})
	}
}

func TestExtractCompany_TitleTagPositionOnlyIsSkipped(t *testing.T) {
	// A title that only names the position must not be reported as company.
	assert.Nil(t, companyFromTitleTag("Senior Software Engineer - Jobs"))
}

func TestExtractCompany_NoMatchIsNil(t *testing.T) {
	assert.Nil(t, extractCompany("lorem ipsum dolor sit amet", ""))
	// Generic words captured by the phrasing rules must be rejected.
	assert.Nil(t, extractCompany("Our Team is hiring great people.", ""))
}

func TestExtractPosition_KnownTitles(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"We are hiring a Senior Data Engineer for the platform team.", "Senior Data Engineer"},
		{"Opening: Engineering Manager, Payments", "Engineering Manager"},
		{"This Senior Software Engineer role is remote.", "Senior Software Engineer"},
		{"Data Engineering Manager wanted.", "Data Engineering Manager"},
	}

	for _, tt := range tests {
		got := extractPosition(tt.text)
		require.NotNil(t, got, tt.text)
		assert.Equal(t, tt.want, *got)
	}
}

func TestExtractPosition_SpecificBeforeGeneric(t *testing.T) {
	// "Senior Data Engineer" must not be reported as bare "Data Engineer".
	got := extractPosition("Role overview for a Senior Data Engineer position.")
	require.NotNil(t, got)
	assert.Equal(t, "Senior Data Engineer", *got)
}

func TestExtractPosition_LabeledFallback(t *testing.T) {
	got := extractPosition("Position: Staff Robotics Lead\nWe build robots.")
	require.NotNil(t, got)
	assert.Equal(t, "Staff Robotics Lead", *got)
}

func TestExtractPosition_NoMatchIsNil(t *testing.T) {
	assert.Nil(t, extractPosition("nothing resembling a title here"))
}

func TestFromText_URLFallbackForCompany(t *testing.T) {
	result := FromText("short text with no identifiers", "https://boards.greenhouse.io/acme-robotics/jobs/123")
	require.NotNil(t, result.Company)
	assert.Equal(t, "Acme Robotics", *result.Company)
	assert.Nil(t, result.Position)
}

// The URL is consulted for the company whenever the text missed it, even
// when the text did yield a position.
func TestFromText_URLFallbackWithPositionFromText(t *testing.T) {
	result := FromText(
		"We are looking for a Senior Software Engineer to join the team.",
		"https://boards.greenhouse.io/acme-robotics/jobs/123",
	)
	require.NotNil(t, result.Company)
	assert.Equal(t, "Acme Robotics", *result.Company)
	require.NotNil(t, result.Position)
	assert.Equal(t, "Senior Software Engineer", *result.Position)
}

func TestFromText_NilNotEmpty(t *testing.T) {
	result := FromText("gibberish qwerty", "")
	assert.Nil(t, result.Company)
	assert.Nil(t, result.Position)
	assert.Nil(t, result.Salary)
}
