package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"crewclock.service/internal/core/attendance"
	"crewclock.service/internal/core/identity"
	"crewclock.service/internal/core/model"
	"crewclock.service/internal/ports/messaging"
	"crewclock.service/internal/ports/repository"
)

// ClockRequest is a clock action submitted by the dashboard. ID and Time
// are optional; clients replaying an offline queue send both.
type ClockRequest struct {
	ID      string          `json:"id,omitempty"`
	Worker  string          `json:"worker"`
	Project string          `json:"project,omitempty"`
	Type    model.ClockType `json:"type"`
	Time    *time.Time      `json:"time,omitempty"`
}

type ClockService struct {
	entries  repository.ClockEntryRepository
	projects repository.ProjectRepository
	producer messaging.QueueProducer
	// enforceSelf restricts callers to clocking themselves in and out.
	enforceSelf bool
	now         func() time.Time
}

// NewClockService wires the clock entry store, the project store used for
// the default project, and the sync queue producer.
func NewClockService(entries repository.ClockEntryRepository, projects repository.ProjectRepository, p messaging.QueueProducer, enforceSelf bool) *ClockService {
	return &ClockService{
		entries:     entries,
		projects:    projects,
		producer:    p,
		enforceSelf: enforceSelf,
		now:         time.Now,
	}
}

// CreateClockEntry records a clock action as unsynced and queues it for the
// sync worker. A failed publish leaves the entry pending; the caller can
// resubmit it with SyncClockEntries.
func (s *ClockService) CreateClockEntry(ctx context.Context, caller identity.Caller, req ClockRequest) (*model.ClockEvent, error) {
	req.Worker = strings.TrimSpace(req.Worker)
	req.Project = strings.TrimSpace(req.Project)

	var problems []error
	if req.Worker == "" {
		problems = append(problems, errors.New("worker is required"))
	}
	if !req.Type.Valid() {
		problems = append(problems, fmt.Errorf("type must be clock-in or clock-out; got %q", req.Type))
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrValidation, errors.Join(problems...))
	}

	if s.enforceSelf && !strings.EqualFold(caller.Name, req.Worker) {
		return nil, fmt.Errorf("%w: %q may not clock for %q", ErrForbidden, caller.Name, req.Worker)
	}

	if req.Project == "" {
		projects, err := s.projects.ListProjects(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve default project: %w", err)
		}
		req.Project = attendance.DefaultProject(projects)
	}

	entry := model.ClockEvent{
		ID:         req.ID,
		Worker:     req.Worker,
		Project:    req.Project,
		Type:       req.Type,
		Time:       s.now().UTC(),
		OwnerToken: caller.Fingerprint,
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	} else if _, err := uuid.Parse(entry.ID); err != nil {
		return nil, fmt.Errorf("%w: id must be a UUID", ErrValidation)
	}
	if req.Time != nil {
		entry.Time = req.Time.UTC()
	}

	inserted, err := s.entries.CreateClockEntry(ctx, &entry)
	if err != nil {
		return nil, fmt.Errorf("failed to create clock entry: %w", err)
	}
	if !inserted {
		// Replay of an entry we already hold.
		return s.entries.GetClockEntry(ctx, entry.ID)
	}

	if err := s.producer.PublishSync(ctx, messaging.NewClockEntryEvent(entry)); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("entry_id", entry.ID).Msg("Clock entry stored but not queued; it stays pending")
	}
	return &entry, nil
}

// SyncClockEntries re-queues every pending entry the caller submitted and
// returns how many were queued.
func (s *ClockService) SyncClockEntries(ctx context.Context, caller identity.Caller) (int, error) {
	if caller.Fingerprint == "" {
		return 0, nil
	}
	pending, err := s.entries.ListUnsynced(ctx, caller.Fingerprint)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending clock entries: %w", err)
	}

	queued := 0
	for _, e := range pending {
		if err := s.producer.PublishSync(ctx, messaging.NewClockEntryEvent(e)); err != nil {
			return queued, fmt.Errorf("failed to queue clock entry %s: %w", e.ID, err)
		}
		queued++
	}
	log.Ctx(ctx).Info().Int("queued", queued).Msg("Pending clock entries queued for sync")
	return queued, nil
}

func (s *ClockService) ListClockEntries(ctx context.Context) ([]model.ClockEvent, error) {
	entries, err := s.entries.ListClockEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clock entries: %w", err)
	}
	return entries, nil
}
