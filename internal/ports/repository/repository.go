package repository

import (
	"context"
	"errors"
	"time"

	"crewclock.service/internal/core/model"
)

// ErrNotFound is returned when no record matches the given id.
var ErrNotFound = errors.New("record not found")

// ProjectRepository contract
type ProjectRepository interface {
	CreateProject(ctx context.Context, p *model.Project) error
	GetProject(ctx context.Context, id string) (*model.Project, error)
	ListProjects(ctx context.Context) ([]model.Project, error)
	UpdateProject(ctx context.Context, p *model.Project) error
	DeleteProject(ctx context.Context, id string) error
}

// WorkerRepository contract
type WorkerRepository interface {
	CreateWorker(ctx context.Context, w *model.Worker) error
	GetWorker(ctx context.Context, id string) (*model.Worker, error)
	ListWorkers(ctx context.Context) ([]model.Worker, error)
	UpdateWorker(ctx context.Context, w *model.Worker) error
	DeleteWorker(ctx context.Context, id string) error
}

// ClockEntryRepository stores clock events in insertion order.
type ClockEntryRepository interface {
	// CreateClockEntry reports false when an entry with the same id already exists.
	CreateClockEntry(ctx context.Context, e *model.ClockEvent) (bool, error)
	GetClockEntry(ctx context.Context, id string) (*model.ClockEvent, error)
	ListClockEntries(ctx context.Context) ([]model.ClockEvent, error)
	ListUnsynced(ctx context.Context, ownerToken string) ([]model.ClockEvent, error)
	MarkSynced(ctx context.Context, id string) error
	// RecordSyncFailure bumps the retry counter and returns the new value.
	RecordSyncFailure(ctx context.Context, id string) (int, error)
	MarkSummarySent(ctx context.Context, id string) error
	// LastClockIn finds the latest clock-in for worker and project strictly before t.
	LastClockIn(ctx context.Context, worker, project string, before time.Time) (*model.ClockEvent, error)
}
