// Package memory keeps every collection in process memory. It backs the API
// when STORAGE_DRIVER=memory and doubles as the repository fake in tests.
package memory

import (
	"context"
	"sync"
	"time"

	"crewclock.service/internal/core/model"
	"crewclock.service/internal/ports/repository"
)

type Store struct {
	mu       sync.RWMutex
	projects []model.Project
	workers  []model.Worker
	entries  []model.ClockEvent
}

var (
	_ repository.ProjectRepository    = (*Store)(nil)
	_ repository.WorkerRepository     = (*Store)(nil)
	_ repository.ClockEntryRepository = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{}
}

func cloneProject(p model.Project) model.Project {
	p.Supervisors = append([]string(nil), p.Supervisors...)
	p.AssignedWorkers = append([]model.AssignedWorker(nil), p.AssignedWorkers...)
	tasks := make([]model.Task, len(p.Tasks))
	for i, t := range p.Tasks {
		t.Milestones = append([]model.Milestone(nil), t.Milestones...)
		tasks[i] = t
	}
	p.Tasks = tasks
	p.Images = append([]string(nil), p.Images...)
	p.PDFs = append([]string(nil), p.PDFs...)
	p.Normalize()
	return p
}

func (s *Store) CreateProject(_ context.Context, p *model.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = append(s.projects, cloneProject(*p))
	return nil
}

func (s *Store) GetProject(_ context.Context, id string) (*model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.projects {
		if p.ID == id {
			c := cloneProject(p)
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) ListProjects(_ context.Context) ([]model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, cloneProject(p))
	}
	return out, nil
}

func (s *Store) UpdateProject(_ context.Context, p *model.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID == p.ID {
			updated := cloneProject(*p)
			updated.CreatedAt = s.projects[i].CreatedAt
			s.projects[i] = updated
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *Store) DeleteProject(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID == id {
			s.projects = append(s.projects[:i], s.projects[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *Store) CreateWorker(_ context.Context, w *model.Worker) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workers = append(s.workers, *w)
	return nil
}

func (s *Store) GetWorker(_ context.Context, id string) (*model.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, w := range s.workers {
		if w.ID == id {
			return &w, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) ListWorkers(_ context.Context) ([]model.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Worker{}, s.workers...), nil
}

func (s *Store) UpdateWorker(_ context.Context, w *model.Worker) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.workers {
		if s.workers[i].ID == w.ID {
			updated := *w
			updated.CreatedAt = s.workers[i].CreatedAt
			s.workers[i] = updated
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *Store) DeleteWorker(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.workers {
		if s.workers[i].ID == id {
			s.workers = append(s.workers[:i], s.workers[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *Store) CreateClockEntry(_ context.Context, e *model.ClockEvent) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.entries {
		if existing.ID == e.ID {
			return false, nil
		}
	}
	s.entries = append(s.entries, *e)
	return true, nil
}

func (s *Store) GetClockEntry(_ context.Context, id string) (*model.ClockEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.entryIndex(id); i >= 0 {
		e := s.entries[i]
		return &e, nil
	}
	return nil, repository.ErrNotFound
}

func (s *Store) ListClockEntries(_ context.Context) ([]model.ClockEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.ClockEvent{}, s.entries...), nil
}

func (s *Store) ListUnsynced(_ context.Context, ownerToken string) ([]model.ClockEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.ClockEvent{}
	for _, e := range s.entries {
		if !e.Synced && e.OwnerToken == ownerToken {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) MarkSynced(_ context.Context, id string) error {
	return s.updateEntry(id, func(e *model.ClockEvent) {
		e.Synced = true
		e.SyncAttempts = 0
	})
}

func (s *Store) RecordSyncFailure(_ context.Context, id string) (int, error) {
	var attempts int
	err := s.updateEntry(id, func(e *model.ClockEvent) {
		e.SyncAttempts++
		attempts = e.SyncAttempts
	})
	return attempts, err
}

func (s *Store) MarkSummarySent(_ context.Context, id string) error {
	return s.updateEntry(id, func(e *model.ClockEvent) { e.SummarySent = true })
}

func (s *Store) LastClockIn(_ context.Context, worker, project string, before time.Time) (*model.ClockEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *model.ClockEvent
	for i := range s.entries {
		e := s.entries[i]
		if e.Worker != worker || e.Project != project || e.Type != model.ClockIn || !e.Time.Before(before) {
			continue
		}
		if found == nil || !e.Time.Before(found.Time) {
			found = &e
		}
	}
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (s *Store) entryIndex(id string) int {
	for i := range s.entries {
		if s.entries[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) updateEntry(id string, fn func(*model.ClockEvent)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.entryIndex(id)
	if i < 0 {
		return repository.ErrNotFound
	}
	fn(&s.entries[i])
	return nil
}
