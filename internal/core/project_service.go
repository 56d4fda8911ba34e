package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"crewclock.service/internal/core/model"
	"crewclock.service/internal/ports/repository"
)

type ProjectService struct {
	repo repository.ProjectRepository
	now  func() time.Time
}

func NewProjectService(repo repository.ProjectRepository) *ProjectService {
	return &ProjectService{repo: repo, now: time.Now}
}

// Create validates and stores a new project, assigning its id and timestamps.
func (s *ProjectService) Create(ctx context.Context, p model.Project) (*model.Project, error) {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	p.ID = uuid.NewString()
	p.CreatedAt = s.now().UTC()
	p.UpdatedAt = p.CreatedAt

	if err := s.repo.CreateProject(ctx, &p); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return &p, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*model.Project, error) {
	p, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", id, err)
	}
	return p, nil
}

func (s *ProjectService) List(ctx context.Context) ([]model.Project, error) {
	projects, err := s.repo.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Update replaces the project's fields with p, keeping id and creation time.
func (s *ProjectService) Update(ctx context.Context, id string, p model.Project) (*model.Project, error) {
	existing, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", id, err)
	}

	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateProject(ctx, &p); err != nil {
		return nil, fmt.Errorf("failed to update project %s: %w", id, err)
	}
	return &p, nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}
	return nil
}
