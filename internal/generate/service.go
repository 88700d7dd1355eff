// Package generate runs the material generation chain: tailor the resume to
// the posting, optimize it, then produce a cover letter and interview prep
// from the tailored result. Each step feeds the previous step's output
// forward; a step failure aborts the chain.
package generate

import (
	"context"
	"encoding/json"
	"fmt"

	"resume-automation/internal/llm"
	"resume-automation/internal/prompts"
	"resume-automation/internal/schemas"
)

// Request carries everything the chain needs. Company and Position may be
// empty when detection missed them; JobText and ResumeText are required.
type Request struct {
	Company    string
	Position   string
	JobText    string
	ResumeText string
}

// Materials is the output of a full chain run.
type Materials struct {
	ResumeText    string        `json:"resume_text"`
	CoverLetter   string        `json:"cover_letter"`
	InterviewPrep InterviewPrep `json:"interview_prep"`
}

// InterviewPrep is the structured prep document, schema-validated before
// being trusted.
type InterviewPrep struct {
	Questions      []QA     `json:"questions"`
	TalkingPoints  []string `json:"talking_points"`
	QuestionsToAsk []string `json:"questions_to_ask,omitempty"`
}

// QA is one likely interview question with a suggested answer.
type QA struct {
	Question        string `json:"question"`
	SuggestedAnswer string `json:"suggested_answer"`
}

// Service runs the chain against an injected LLM client.
type Service struct {
	client llm.Client
}

// NewService returns a Service backed by the given client.
func NewService(client llm.Client) *Service {
	return &Service{client: client}
}

// Generate runs the four-step chain. No retries: the model layer is
// expensive and a failed step surfaces immediately with the step name.
func (s *Service) Generate(ctx context.Context, req Request) (*Materials, error) {
	if req.JobText == "" {
		return nil, fmt.Errorf("generate: job text is required")
	}
	if req.ResumeText == "" {
		return nil, fmt.Errorf("generate: resume text is required")
	}

	tailored, err := s.client.GenerateContent(ctx, s.prompt("tailor", req, req.ResumeText), llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("tailor step: %w", err)
	}

	optimized, err := s.client.GenerateContent(ctx, s.prompt("optimize", req, tailored), llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("optimize step: %w", err)
	}

	coverLetter, err := s.client.GenerateContent(ctx, s.prompt("cover_letter", req, optimized), llm.TierAdvanced)
	if err != nil {
		return nil, fmt.Errorf("cover letter step: %w", err)
	}

	prepJSON, err := s.client.GenerateJSON(ctx, s.prompt("interview_prep", req, optimized), llm.TierAdvanced)
	if err != nil {
		return nil, fmt.Errorf("interview prep step: %w", err)
	}
	if err := schemas.ValidateInterviewPrep(prepJSON); err != nil {
		return nil, fmt.Errorf("interview prep step: %w", err)
	}

	var prep InterviewPrep
	if err := json.Unmarshal([]byte(prepJSON), &prep); err != nil {
		return nil, fmt.Errorf("interview prep step: failed to parse response: %w", err)
	}

	return &Materials{
		ResumeText:    optimized,
		CoverLetter:   coverLetter,
		InterviewPrep: prep,
	}, nil
}

// prompt renders one of the generation prompt templates with the request
// fields and the resume text current at that step of the chain.
func (s *Service) prompt(key string, req Request, resume string) string {
	template := prompts.MustGet("generation.json", key)
	return prompts.Format(template, map[string]string{
		"Company":  orUnknown(req.Company),
		"Position": orUnknown(req.Position),
		"JobText":  req.JobText,
		"Resume":   resume,
	})
}

func orUnknown(s string) string {
	if s == "" {
		return "(not specified)"
	}
	return s
}
