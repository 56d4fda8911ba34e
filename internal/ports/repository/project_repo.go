package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"crewclock.service/internal/core/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ProjectPostgresRepository is the PostgreSQL implementation of ProjectRepository.
// Nested collections live in JSONB columns.
type ProjectPostgresRepository struct {
	DB *sql.DB
}

// NewProjectRepository create new instance
func NewProjectRepository(db *sql.DB) ProjectRepository {
	return &ProjectPostgresRepository{DB: db}
}

const projectColumns = `id, name, description, supervisors, budget, status, assigned_workers, tasks, progress, images, pdfs, created_at, updated_at`

type projectDocs struct {
	supervisors, assigned, tasks, images, pdfs []byte
}

func encodeProjectDocs(p *model.Project) (projectDocs, error) {
	var d projectDocs
	var err error
	fields := []struct {
		dst *[]byte
		v   any
	}{
		{&d.supervisors, p.Supervisors},
		{&d.assigned, p.AssignedWorkers},
		{&d.tasks, p.Tasks},
		{&d.images, p.Images},
		{&d.pdfs, p.PDFs},
	}
	for _, f := range fields {
		if *f.dst, err = json.Marshal(f.v); err != nil {
			return d, fmt.Errorf("failed to encode project document: %w", err)
		}
	}
	return d, nil
}

func (d projectDocs) decode(p *model.Project) error {
	fields := []struct {
		src []byte
		v   any
	}{
		{d.supervisors, &p.Supervisors},
		{d.assigned, &p.AssignedWorkers},
		{d.tasks, &p.Tasks},
		{d.images, &p.Images},
		{d.pdfs, &p.PDFs},
	}
	for _, f := range fields {
		if len(f.src) == 0 {
			continue
		}
		if err := json.Unmarshal(f.src, f.v); err != nil {
			return fmt.Errorf("failed to decode project document: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*model.Project, error) {
	p := &model.Project{}
	var d projectDocs
	err := row.Scan(&p.ID, &p.Name, &p.Description, &d.supervisors, &p.Budget, &p.Status,
		&d.assigned, &d.tasks, &p.Progress, &d.images, &d.pdfs, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := d.decode(p); err != nil {
		return nil, err
	}
	p.Normalize()
	return p, nil
}

// CreateProject inserts a new project.
func (r *ProjectPostgresRepository) CreateProject(ctx context.Context, p *model.Project) error {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.project_id", p.ID))

	d, err := encodeProjectDocs(p)
	if err != nil {
		return err
	}
	query := `INSERT INTO projects (` + projectColumns + `)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = r.DB.ExecContext(ctx, query, p.ID, p.Name, p.Description, d.supervisors, p.Budget, p.Status,
		d.assigned, d.tasks, p.Progress, d.images, d.pdfs, p.CreatedAt, p.UpdatedAt)
	return err
}

// GetProject fetches a project by id.
func (r *ProjectPostgresRepository) GetProject(ctx context.Context, id string) (*model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	p, err := scanProject(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

// ListProjects returns all projects, oldest first.
func (r *ProjectPostgresRepository) ListProjects(ctx context.Context) ([]model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at, id`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// UpdateProject replaces every mutable field of a project.
func (r *ProjectPostgresRepository) UpdateProject(ctx context.Context, p *model.Project) error {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.project_id", p.ID))

	d, err := encodeProjectDocs(p)
	if err != nil {
		return err
	}
	query := `UPDATE projects
              SET name = $2, description = $3, supervisors = $4, budget = $5, status = $6,
                  assigned_workers = $7, tasks = $8, progress = $9, images = $10, pdfs = $11,
                  updated_at = $12
              WHERE id = $1`

	res, err := r.DB.ExecContext(ctx, query, p.ID, p.Name, p.Description, d.supervisors, p.Budget, p.Status,
		d.assigned, d.tasks, p.Progress, d.images, d.pdfs, p.UpdatedAt)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// DeleteProject removes a project.
func (r *ProjectPostgresRepository) DeleteProject(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
