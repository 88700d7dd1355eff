package schemas

// interviewPrepSchema pins the shape of the interview-prep JSON the model
// returns: at least five question/answer pairs plus talking points.
const interviewPrepSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "InterviewPrep",
  "type": "object",
  "required": ["questions", "talking_points"],
  "additionalProperties": false,
  "properties": {
    "questions": {
      "type": "array",
      "minItems": 5,
      "items": {
        "type": "object",
        "required": ["question", "suggested_answer"],
        "additionalProperties": false,
        "properties": {
          "question": {"type": "string", "minLength": 1},
          "suggested_answer": {"type": "string", "minLength": 1}
        }
      }
    },
    "talking_points": {
      "type": "array",
      "items": {"type": "string", "minLength": 1}
    },
    "questions_to_ask": {
      "type": "array",
      "items": {"type": "string", "minLength": 1}
    }
  }
}`

// ValidateInterviewPrep validates interview-prep JSON returned by the model.
func ValidateInterviewPrep(jsonContent string) error {
	return ValidateString("InterviewPrep", interviewPrepSchema, jsonContent)
}
