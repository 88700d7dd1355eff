package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"resume-automation/internal/auth"
	"resume-automation/internal/config"
	"resume-automation/internal/detect"
	"resume-automation/internal/drive"
	"resume-automation/internal/fetch"
	"resume-automation/internal/generate"
	"resume-automation/internal/template"
	"resume-automation/internal/tracker"
)

// ParseJobRequest is the request body for /api/parse-job. Either field may
// be an empty string; position_title alone triggers a template-only lookup.
type ParseJobRequest struct {
	JobURL         string `json:"job_url"`
	JobDescription string `json:"job_description,omitempty"`
	PositionTitle  string `json:"position_title,omitempty"`
}

// handleParseJob runs one detection pass and returns the structured result.
// Detection failures are part of the result body, not HTTP errors: the
// client decides whether to prompt for a manual paste.
func (s *Server) handleParseJob(w http.ResponseWriter, r *http.Request) {
	var req ParseJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result := s.deps.Detector.Detect(r.Context(), detect.Query{
		JobURL:         req.JobURL,
		JobDescription: req.JobDescription,
		PositionTitle:  req.PositionTitle,
	})

	s.jsonResponse(w, http.StatusOK, result)
}

// GenerateRequest is the request body for /api/generate.
type GenerateRequest struct {
	JobURL         string `json:"job_url" validate:"omitempty,url"`
	JobDescription string `json:"job_description" validate:"required_without=JobURL"`
	PositionTitle  string `json:"position_title"`
	CompanyName    string `json:"company_name"`
	ResumeText     string `json:"resume_text" validate:"required"`
	Track          bool   `json:"track"`
	FileToDrive    bool   `json:"file_to_drive"`
}

// GenerateResponse is the response body for /api/generate.
type GenerateResponse struct {
	Detection detect.Result       `json:"detection"`
	Materials *generate.Materials `json:"materials"`
	FolderID  string              `json:"folder_id,omitempty"`
	TrackedID string              `json:"tracked_id,omitempty"`
}

// handleGenerate runs the full flow: detect, duplicate check, generation
// chain, then optional drive filing and tracker record.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if s.deps.Generator == nil {
		err := &ErrFeatureDisabled{Feature: "generation"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	ctx := r.Context()

	// Resolve the posting text up front so detection and the chain share it.
	jobText := req.JobDescription
	if jobText == "" {
		fetched, err := s.deps.Fetcher.Fetch(ctx, req.JobURL)
		if err != nil {
			msg := "could not retrieve the posting; paste the description instead"
			if kind, ok := fetch.KindOf(err); ok {
				msg = string(kind) + ": " + msg
			}
			s.errorResponse(w, http.StatusUnprocessableEntity, msg)
			return
		}
		jobText = fetched.Text
	}

	detection := s.deps.Detector.Detect(ctx, detect.Query{
		JobURL:         req.JobURL,
		JobDescription: jobText,
		PositionTitle:  req.PositionTitle,
	})

	company := firstNonEmpty(req.CompanyName, deref(detection.CompanyName))
	position := firstNonEmpty(req.PositionTitle, deref(detection.PositionTitle))

	if req.Track && s.deps.Store != nil && company != "" && position != "" {
		if s.deps.Store.IsDuplicate(ctx, company, position, req.JobURL) {
			err := &ErrDuplicateApplication{Company: company, Role: position}
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
	}

	materials, err := s.deps.Generator.Generate(ctx, generate.Request{
		Company:    company,
		Position:   position,
		JobText:    jobText,
		ResumeText: req.ResumeText,
	})
	if err != nil {
		log.Printf("Generation failed: %v", err)
		s.errorResponse(w, http.StatusBadGateway, "Generation failed: "+err.Error())
		return
	}

	resp := GenerateResponse{Detection: detection, Materials: materials}

	if req.FileToDrive && s.deps.Filer != nil {
		prepJSON, _ := json.MarshalIndent(materials.InterviewPrep, "", "  ")
		folderID, err := s.deps.Filer.FileMaterials(ctx, company, position, []drive.Document{
			{Name: "Resume.txt", MIMEType: "text/plain", Content: materials.ResumeText},
			{Name: "Cover Letter.txt", MIMEType: "text/plain", Content: materials.CoverLetter},
			{Name: "Interview Prep.json", MIMEType: "application/json", Content: string(prepJSON)},
		})
		if err != nil {
			// Filing is best-effort: the materials were generated and are
			// returned either way.
			log.Printf("Drive filing failed: %v", err)
		} else {
			resp.FolderID = folderID
		}
	}

	if req.Track && s.deps.Store != nil && company != "" && position != "" {
		id, err := s.deps.Store.Add(ctx, tracker.Application{
			Company:         company,
			Role:            position,
			ApplicationPage: req.JobURL,
		})
		if err != nil {
			log.Printf("Tracker record failed: %v", err)
		} else {
			resp.TrackedID = id.String()
		}
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// TemplateInfo describes one selectable resume template.
type TemplateInfo struct {
	Key     template.Key `json:"key"`
	Default bool         `json:"default"`
}

// handleListTemplates returns the closed template key set.
func (s *Server) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	keys := template.Keys()
	infos := make([]TemplateInfo, 0, len(keys))
	for _, key := range keys {
		infos = append(infos, TemplateInfo{Key: key, Default: key == template.DefaultKey})
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"templates": infos})
}

// handleGetSettings returns the mutable settings subset. Secrets (API keys,
// credentials, password hashes) are never exposed here.
func (s *Server) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.currentConfig().Settings())
}

// handlePutSettings replaces the mutable settings subset.
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var settings config.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	updated, err := s.currentConfig().ApplySettings(settings)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	s.setConfig(updated)
	s.jsonResponse(w, http.StatusOK, updated.Settings())
}

// LoginRequest is the request body for /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}

// handleLogin verifies operator credentials and issues a token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.deps.Auth == nil {
		err := &ErrFeatureDisabled{Feature: "authentication"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	token, err := s.deps.Auth.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.errorResponse(w, http.StatusUnauthorized, err.Error())
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Login failed")
		return
	}

	s.jsonResponse(w, http.StatusOK, LoginResponse{Token: token})
}

// handleApplicationStats returns tracker summary counts.
func (s *Server) handleApplicationStats(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		err := &ErrFeatureDisabled{Feature: "application tracking"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	stats, err := s.deps.Store.Stats(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to compute stats: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, stats)
}

// CheckDuplicateRequest is the request body for
// /api/applications/check-duplicate.
type CheckDuplicateRequest struct {
	Company string `json:"company" validate:"required"`
	Role    string `json:"role" validate:"required"`
	JobURL  string `json:"job_url"`
}

// handleCheckDuplicate reports whether this posting was already applied to.
// The check is advisory; tracker errors surface as non-duplicate.
func (s *Server) handleCheckDuplicate(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		err := &ErrFeatureDisabled{Feature: "application tracking"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var req CheckDuplicateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	duplicate := s.deps.Store.IsDuplicate(r.Context(), req.Company, req.Role, req.JobURL)
	s.jsonResponse(w, http.StatusOK, map[string]bool{"duplicate": duplicate})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
