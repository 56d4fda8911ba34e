package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"crewclock.service/internal/core/model"
	"crewclock.service/internal/ports/repository"
)

type WorkerService struct {
	repo repository.WorkerRepository
	now  func() time.Time
}

func NewWorkerService(repo repository.WorkerRepository) *WorkerService {
	return &WorkerService{repo: repo, now: time.Now}
}

func (s *WorkerService) Create(ctx context.Context, w model.Worker) (*model.Worker, error) {
	w.Normalize()
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	w.ID = uuid.NewString()
	w.CreatedAt = s.now().UTC()
	w.UpdatedAt = w.CreatedAt

	if err := s.repo.CreateWorker(ctx, &w); err != nil {
		return nil, fmt.Errorf("failed to create worker: %w", err)
	}
	return &w, nil
}

func (s *WorkerService) Get(ctx context.Context, id string) (*model.Worker, error) {
	w, err := s.repo.GetWorker(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get worker %s: %w", id, err)
	}
	return w, nil
}

func (s *WorkerService) List(ctx context.Context) ([]model.Worker, error) {
	workers, err := s.repo.ListWorkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	return workers, nil
}

func (s *WorkerService) Update(ctx context.Context, id string, w model.Worker) (*model.Worker, error) {
	existing, err := s.repo.GetWorker(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get worker %s: %w", id, err)
	}

	w.Normalize()
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	w.ID = existing.ID
	w.CreatedAt = existing.CreatedAt
	w.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateWorker(ctx, &w); err != nil {
		return nil, fmt.Errorf("failed to update worker %s: %w", id, err)
	}
	return &w, nil
}

func (s *WorkerService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteWorker(ctx, id); err != nil {
		return fmt.Errorf("failed to delete worker %s: %w", id, err)
	}
	return nil
}
