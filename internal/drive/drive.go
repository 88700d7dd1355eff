// Package drive files generated materials into Google Drive: one folder per
// application named "<Company> - <Position>", with the documents uploaded
// concurrently.
package drive

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"resume-automation/internal/config"
)

const folderMIMEType = "application/vnd.google-apps.folder"

// maxUploadAttempts bounds rate-limit retries per file.
const maxUploadAttempts = 5

// Document is one material to upload.
type Document struct {
	Name     string
	MIMEType string
	Content  string
}

// File is a Drive file reference returned by listings.
type File struct {
	ID   string
	Name string
}

// Service wraps the Drive API for material filing.
type Service struct {
	api               *gdrive.Service
	outputFolderID    string
	templatesFolderID string
}

// NewService authenticates with a service-account credentials file.
func NewService(ctx context.Context, cfg config.DriveConfig) (*Service, error) {
	api, err := gdrive.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(gdrive.DriveScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &Service{
		api:               api,
		outputFolderID:    cfg.OutputFolderID,
		templatesFolderID: cfg.TemplatesFolderID,
	}, nil
}

// FileMaterials finds or creates the application folder and uploads the
// documents into it concurrently. Returns the folder ID.
func (s *Service) FileMaterials(ctx context.Context, company, position string, docs []Document) (string, error) {
	folderID, err := s.findOrCreateFolder(ctx, FolderName(company, position), s.outputFolderID)
	if err != nil {
		return "", err
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, doc := range docs {
		doc := doc
		g.Go(func() error {
			return s.upload(ctx, folderID, doc)
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}
	return folderID, nil
}

// ListTemplates returns the files in the configured templates folder.
func (s *Service) ListTemplates(ctx context.Context) ([]File, error) {
	if s.templatesFolderID == "" {
		return nil, fmt.Errorf("templates folder is not configured")
	}

	query := fmt.Sprintf("'%s' in parents and trashed = false", s.templatesFolderID)
	list, err := s.api.Files.List().Q(query).Fields("files(id, name)").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	files := make([]File, 0, len(list.Files))
	for _, f := range list.Files {
		files = append(files, File{ID: f.Id, Name: f.Name})
	}
	return files, nil
}

// findOrCreateFolder returns the ID of the named folder under parentID,
// creating it if absent. An existing folder is reused so re-running a
// generation never forks a second folder for the same application.
func (s *Service) findOrCreateFolder(ctx context.Context, name, parentID string) (string, error) {
	query := fmt.Sprintf(
		"name = '%s' and '%s' in parents and mimeType = '%s' and trashed = false",
		escapeQuery(name), parentID, folderMIMEType,
	)
	list, err := s.api.Files.List().Q(query).Fields("files(id)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to search for folder %q: %w", name, err)
	}
	if len(list.Files) > 0 {
		return list.Files[0].Id, nil
	}

	folder, err := s.api.Files.Create(&gdrive.File{
		Name:     name,
		MimeType: folderMIMEType,
		Parents:  []string{parentID},
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create folder %q: %w", name, err)
	}
	return folder.Id, nil
}

func (s *Service) upload(ctx context.Context, folderID string, doc Document) error {
	var lastErr error
	for attempt := 0; attempt < maxUploadAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay(attempt)):
			}
		}

		_, err := s.api.Files.Create(&gdrive.File{
			Name:    doc.Name,
			Parents: []string{folderID},
		}).Media(strings.NewReader(doc.Content), googleapi.ContentType(doc.MIMEType)).
			Fields("id").Context(ctx).Do()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isRateLimited(err) {
			break
		}
	}
	return fmt.Errorf("failed to upload %q: %w", doc.Name, lastErr)
}

// FolderName builds the application folder name, tolerating missing fields.
func FolderName(company, position string) string {
	company = strings.TrimSpace(company)
	position = strings.TrimSpace(position)
	switch {
	case company == "" && position == "":
		return "Unknown Application"
	case company == "":
		return position
	case position == "":
		return company
	default:
		return company + " - " + position
	}
}

// retryDelay is exponential from one second: 1s, 2s, 4s, 8s...
func retryDelay(attempt int) time.Duration {
	return time.Second << (attempt - 1)
}

// isRateLimited reports whether the API rejected the call for quota reasons.
func isRateLimited(err error) bool {
	apiErr, ok := err.(*googleapi.Error)
	if !ok {
		return false
	}
	if apiErr.Code == 429 {
		return true
	}
	if apiErr.Code == 403 {
		for _, e := range apiErr.Errors {
			if e.Reason == "rateLimitExceeded" || e.Reason == "userRateLimitExceeded" {
				return true
			}
		}
	}
	return false
}

// escapeQuery escapes single quotes for Drive query strings.
func escapeQuery(s string) string {
	return strings.ReplaceAll(s, `'`, `\'`)
}
