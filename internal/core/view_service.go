package core

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"crewclock.service/internal/core/attendance"
	"crewclock.service/internal/core/dashboard"
	"crewclock.service/internal/core/identity"
	"crewclock.service/internal/core/model"
	"crewclock.service/internal/ports/repository"
)

// ViewService builds the dashboard view-models from a fresh snapshot on every call.
type ViewService struct {
	projects repository.ProjectRepository
	workers  repository.WorkerRepository
	entries  repository.ClockEntryRepository
	loc      *time.Location
}

func NewViewService(projects repository.ProjectRepository, workers repository.WorkerRepository, entries repository.ClockEntryRepository, loc *time.Location) *ViewService {
	if loc == nil {
		loc = time.UTC
	}
	return &ViewService{projects: projects, workers: workers, entries: entries, loc: loc}
}

// Location is the zone used for day boundaries and displayed times.
func (s *ViewService) Location() *time.Location {
	return s.loc
}

// Snapshot loads the three collections concurrently.
func (s *ViewService) Snapshot(ctx context.Context) (model.Snapshot, error) {
	var snap model.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Projects, err = s.projects.ListProjects(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Workers, err = s.workers.ListWorkers(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.ClockEntries, err = s.entries.ListClockEntries(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return snap, nil
}

type AttendanceQuery struct {
	Date   time.Time
	Search string
	Online bool
	Caller identity.Caller
}

type AttendanceView struct {
	Date           string                    `json:"date"`
	Identity       string                    `json:"identity"`
	Online         bool                      `json:"online"`
	ShowSyncPrompt bool                      `json:"showSyncPrompt"`
	Stats          attendance.Stats          `json:"stats"`
	Rows           []attendance.Row          `json:"rows"`
	Workers        []attendance.WorkerAction `json:"workers"`
	Projects       []string                  `json:"projects"`
}

// Attendance assembles the time clock page for the requested day.
func (s *ViewService) Attendance(ctx context.Context, q AttendanceQuery) (*AttendanceView, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	projects := make([]string, 0, len(snap.Projects))
	for _, p := range snap.Projects {
		projects = append(projects, p.Name)
	}

	return &AttendanceView{
		Date:           q.Date.In(s.loc).Format(attendance.DateLayout),
		Identity:       q.Caller.Name,
		Online:         q.Online,
		ShowSyncPrompt: attendance.ShowSyncPrompt(snap.ClockEntries, q.Caller.Fingerprint, q.Online),
		Stats:          attendance.ComputeStats(snap.Workers, snap.ClockEntries),
		Rows:           attendance.Reconcile(snap.ClockEntries, q.Date, s.loc),
		Workers:        attendance.WorkerActions(snap, q.Search, q.Caller.Name, s.loc),
		Projects:       projects,
	}, nil
}

// Dashboard computes the overview counters.
func (s *ViewService) Dashboard(ctx context.Context) (*dashboard.Summary, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	summary := dashboard.Summarize(snap)
	return &summary, nil
}
