package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
  "type": "object",
  "required": ["name", "count"],
  "properties": {
    "name": {"type": "string"},
    "count": {"type": "integer"}
  }
}`

func TestValidateString_Valid(t *testing.T) {
	err := ValidateString("test", testSchema, `{"name": "acme", "count": 3}`)
	assert.NoError(t, err)
}

func TestValidateString_MissingField(t *testing.T) {
	err := ValidateString("test", testSchema, `{"name": "acme"}`)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
	assert.Contains(t, err.Error(), "count")
}

func TestValidateString_WrongType(t *testing.T) {
	err := ValidateString("test", testSchema, `{"name": "acme", "count": "three"}`)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateString_MalformedDocument(t *testing.T) {
	err := ValidateString("test", testSchema, `{"name": `)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func validPrep() string {
	return `{
	  "questions": [
	    {"question": "q1", "suggested_answer": "a1"},
	    {"question": "q2", "suggested_answer": "a2"},
	    {"question": "q3", "suggested_answer": "a3"},
	    {"question": "q4", "suggested_answer": "a4"},
	    {"question": "q5", "suggested_answer": "a5"}
	  ],
	  "talking_points": ["shipped the pipeline rewrite"],
	  "questions_to_ask": ["what does success look like in 90 days?"]
	}`
}

func TestValidateInterviewPrep_Valid(t *testing.T) {
	assert.NoError(t, ValidateInterviewPrep(validPrep()))
}

func TestValidateInterviewPrep_Rejections(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"too few questions", `{"questions": [{"question": "q", "suggested_answer": "a"}], "talking_points": []}`},
		{"missing talking points", `{"questions": []}`},
		{"unknown field", `{"questions": [], "talking_points": [], "bonus": true}`},
		{"empty answer", `{"questions": [{"question": "q", "suggested_answer": ""}], "talking_points": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ValidateInterviewPrep(tt.doc))
		})
	}
}
