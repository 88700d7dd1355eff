package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripBoardSuffix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme Software Engineer - LinkedIn", "Acme Software Engineer"},
		{"Data Engineer | Indeed", "Data Engineer"},
		{"Platform Engineer - Careers - LinkedIn", "Platform Engineer"},
		{"Plain Title", "Plain Title"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StripBoardSuffix(tt.in))
	}
}

func TestCleanCompanyName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"leading article", "the Acme", "Acme"},
		{"legal suffix", "Initech, Inc.", "Initech"},
		{"trailing punctuation", "Hooli: ", "Hooli"},
		{"ampersand kept", "Johnson & Johnson", "Johnson & Johnson"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanCompanyName(tt.in)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestCleanCompanyName_Rejections(t *testing.T) {
	for _, in := range []string{
		"", "x", "12345", "team", "Our Team", "This Role",
		"a string that is way too long to plausibly be a real company name anywhere",
	} {
		assert.Nil(t, CleanCompanyName(in), "%q should be rejected", in)
	}
}
