// Package tracker records submitted applications in PostgreSQL and answers
// duplicate and summary queries over them.
package tracker

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Application is one tracked submission.
type Application struct {
	ID              uuid.UUID `json:"id"`
	Company         string    `json:"company"`
	Department      string    `json:"department,omitempty"`
	Role            string    `json:"role"`
	Salary          string    `json:"salary,omitempty"`
	AppliedOn       time.Time `json:"applied_on"`
	ApplicationPage string    `json:"application_page,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Stats summarizes the tracked applications.
type Stats struct {
	Total             int `json:"total"`
	DistinctCompanies int `json:"distinct_companies"`
	DistinctRoles     int `json:"distinct_roles"`
	ThisMonth         int `json:"this_month"`
}

// Tracker wraps a PostgreSQL connection pool.
type Tracker struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*Tracker, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Tracker{pool: pool}, nil
}

// Close closes the connection pool.
func (t *Tracker) Close() {
	if t.pool != nil {
		t.pool.Close()
	}
}

// EnsureSchema creates the applications table if it does not exist.
func (t *Tracker) EnsureSchema(ctx context.Context) error {
	_, err := t.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS applications (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			company TEXT NOT NULL,
			department TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL,
			salary TEXT NOT NULL DEFAULT '',
			applied_on DATE NOT NULL DEFAULT CURRENT_DATE,
			application_page TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create applications table: %w", err)
	}
	return nil
}

// Add records an application and returns its ID. A zero AppliedOn defaults
// to today.
func (t *Tracker) Add(ctx context.Context, app Application) (uuid.UUID, error) {
	if strings.TrimSpace(app.Company) == "" {
		return uuid.Nil, fmt.Errorf("company is required")
	}
	if strings.TrimSpace(app.Role) == "" {
		return uuid.Nil, fmt.Errorf("role is required")
	}

	appliedOn := app.AppliedOn
	if appliedOn.IsZero() {
		appliedOn = time.Now()
	}

	var id uuid.UUID
	err := t.pool.QueryRow(ctx,
		`INSERT INTO applications (company, department, role, salary, applied_on, application_page)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		app.Company, app.Department, app.Role, app.Salary, appliedOn, app.ApplicationPage,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to record application: %w", err)
	}
	return id, nil
}

// IsDuplicate reports whether the same company+role was ever submitted to
// this URL, or submitted anywhere today. The check is advisory: on a
// database error it logs and reports non-duplicate rather than blocking
// the submission.
func (t *Tracker) IsDuplicate(ctx context.Context, company, role, url string) bool {
	var exists bool
	err := t.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM applications
			WHERE lower(company) = lower($1)
			  AND lower(role) = lower($2)
			  AND (($3 <> '' AND application_page = $3) OR applied_on = CURRENT_DATE)
		)`,
		strings.TrimSpace(company), strings.TrimSpace(role), strings.TrimSpace(url),
	).Scan(&exists)
	if err != nil {
		log.Printf("[tracker] duplicate check failed: %v", err)
		return false
	}
	return exists
}

// Stats returns summary counts over the tracked applications.
func (t *Tracker) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	err := t.pool.QueryRow(ctx,
		`SELECT count(*),
		        count(DISTINCT lower(company)),
		        count(DISTINCT lower(role)),
		        count(*) FILTER (WHERE date_trunc('month', applied_on) = date_trunc('month', CURRENT_DATE))
		 FROM applications`,
	).Scan(&s.Total, &s.DistinctCompanies, &s.DistinctRoles, &s.ThisMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return &s, nil
}

// Recent returns the most recently recorded applications.
func (t *Tracker) Recent(ctx context.Context, limit int) ([]Application, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := t.pool.Query(ctx,
		`SELECT id, company, department, role, salary, applied_on, application_page, created_at
		 FROM applications
		 ORDER BY created_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []Application
	for rows.Next() {
		var a Application
		if err := rows.Scan(&a.ID, &a.Company, &a.Department, &a.Role, &a.Salary,
			&a.AppliedOn, &a.ApplicationPage, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}
