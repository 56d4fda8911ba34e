package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewclock.service/internal/core/attendance"
	"crewclock.service/internal/core/identity"
	"crewclock.service/internal/core/model"
	"crewclock.service/internal/ports/messaging"
	"crewclock.service/internal/ports/repository/memory"
)

type fakeProducer struct {
	mu     sync.Mutex
	synced []messaging.ClockEntryEvent
	emails []messaging.ShiftSummaryEvent
	err    error
}

func (f *fakeProducer) PublishSync(_ context.Context, body any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.synced = append(f.synced, body.(messaging.ClockEntryEvent))
	return nil
}

func (f *fakeProducer) PublishEmail(_ context.Context, body any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.emails = append(f.emails, body.(messaging.ShiftSummaryEvent))
	return nil
}

var (
	alice = identity.Caller{Name: "alice", Fingerprint: "fp-alice"}
	fixed = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
)

func newClockService(t *testing.T, enforce bool) (*ClockService, *memory.Store, *fakeProducer) {
	t.Helper()
	store := memory.NewStore()
	producer := &fakeProducer{}
	svc := NewClockService(store, store, producer, enforce)
	svc.now = func() time.Time { return fixed }
	return svc, store, producer
}

func TestClockService_CreateQueuesUnsyncedEntry(t *testing.T) {
	ctx := context.Background()
	svc, store, producer := newClockService(t, true)
	require.NoError(t, store.CreateProject(ctx, &model.Project{ID: "p1", Name: "Bridge"}))

	entry, err := svc.CreateClockEntry(ctx, alice, ClockRequest{Worker: "Alice", Type: model.ClockIn})
	require.NoError(t, err)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "Bridge", entry.Project, "defaults to the first project")
	assert.False(t, entry.Synced)
	assert.Equal(t, "fp-alice", entry.OwnerToken)
	assert.True(t, entry.Time.Equal(fixed))

	require.Len(t, producer.synced, 1)
	assert.Equal(t, entry.ID, producer.synced[0].EntryID)
}

func TestClockService_DefaultProjectWithoutProjects(t *testing.T) {
	svc, _, _ := newClockService(t, false)

	entry, err := svc.CreateClockEntry(context.Background(), identity.Caller{}, ClockRequest{Worker: "Bob", Type: model.ClockOut})
	require.NoError(t, err)
	assert.Equal(t, attendance.NotApplicable, entry.Project)
}

func TestClockService_Validation(t *testing.T) {
	svc, _, _ := newClockService(t, false)
	ctx := context.Background()

	_, err := svc.CreateClockEntry(ctx, alice, ClockRequest{Type: model.ClockIn})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateClockEntry(ctx, alice, ClockRequest{Worker: "Alice", Type: "lunch"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateClockEntry(ctx, alice, ClockRequest{ID: "not-a-uuid", Worker: "Alice", Type: model.ClockIn})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestClockService_EnforcesSelfClocking(t *testing.T) {
	svc, _, producer := newClockService(t, true)

	_, err := svc.CreateClockEntry(context.Background(), alice, ClockRequest{Worker: "Bob", Type: model.ClockIn})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, producer.synced)
}

func TestClockService_ReplayIsIdempotent(t *testing.T) {
	svc, store, producer := newClockService(t, true)
	ctx := context.Background()
	at := fixed.Add(-time.Hour)
	req := ClockRequest{ID: "0b9c3f7e-5d1a-4c2b-9e8f-1a2b3c4d5e6f", Worker: "alice", Project: "P1", Type: model.ClockIn, Time: &at}

	first, err := svc.CreateClockEntry(ctx, alice, req)
	require.NoError(t, err)
	second, err := svc.CreateClockEntry(ctx, alice, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Time.Equal(at))
	all, _ := store.ListClockEntries(ctx)
	assert.Len(t, all, 1)
	assert.Len(t, producer.synced, 1)
}

func TestClockService_PublishFailureKeepsEntryPending(t *testing.T) {
	svc, store, producer := newClockService(t, true)
	producer.err = errors.New("queue down")
	ctx := context.Background()

	entry, err := svc.CreateClockEntry(ctx, alice, ClockRequest{Worker: "Alice", Project: "P1", Type: model.ClockIn})
	require.NoError(t, err)

	pending, _ := store.ListUnsynced(ctx, alice.Fingerprint)
	require.Len(t, pending, 1)
	assert.Equal(t, entry.ID, pending[0].ID)
}

func TestClockService_SyncRequeuesCallersPendingEntries(t *testing.T) {
	svc, store, producer := newClockService(t, false)
	ctx := context.Background()
	bob := identity.Caller{Name: "bob", Fingerprint: "fp-bob"}

	a1, _ := svc.CreateClockEntry(ctx, alice, ClockRequest{Worker: "Alice", Project: "P1", Type: model.ClockIn})
	_, _ = svc.CreateClockEntry(ctx, alice, ClockRequest{Worker: "Alice", Project: "P1", Type: model.ClockOut})
	_, _ = svc.CreateClockEntry(ctx, bob, ClockRequest{Worker: "Bob", Project: "P1", Type: model.ClockIn})
	require.NoError(t, store.MarkSynced(ctx, a1.ID))
	producer.synced = nil

	n, err := svc.SyncClockEntries(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, producer.synced, 1)
	assert.Equal(t, model.ClockOut, producer.synced[0].Type)

	n, err = svc.SyncClockEntries(ctx, identity.Caller{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProjectService_CRUD(t *testing.T) {
	ctx := context.Background()
	svc := NewProjectService(memory.NewStore())

	_, err := svc.Create(ctx, model.Project{Name: "  "})
	assert.ErrorIs(t, err, ErrValidation)

	created, err := svc.Create(ctx, model.Project{
		Name:        "  Bridge ",
		Supervisors: []string{" Sue "},
		Tasks:       []model.Task{{Title: "Pour", Milestones: []model.Milestone{{Title: "Rebar"}}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Bridge", created.Name)
	assert.Equal(t, model.StatusActive, created.Status)
	assert.Equal(t, []string{"Sue"}, created.Supervisors)

	created.Status = model.StatusHold
	created.Progress = 40
	updated, err := svc.Update(ctx, created.ID, *created)
	require.NoError(t, err)
	assert.Equal(t, model.StatusHold, updated.Status)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	_, err = svc.Update(ctx, created.ID, model.Project{Name: "x", Progress: 140})
	assert.ErrorIs(t, err, ErrValidation)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 40.0, list[0].Progress)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrNotFound)
}

func TestWorkerService_CRUD(t *testing.T) {
	ctx := context.Background()
	svc := NewWorkerService(memory.NewStore())

	_, err := svc.Create(ctx, model.Worker{Name: "Alice", Role: "Mason", WorkerType: "Astronaut"})
	assert.ErrorIs(t, err, ErrValidation)

	w, err := svc.Create(ctx, model.Worker{Name: " Alice ", Role: "Mason", WorkerType: "worker"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", w.Name)
	assert.Equal(t, model.WorkerTypeWorker, w.WorkerType)

	w.Role = "Foreman"
	w.WorkerType = model.WorkerTypeSupervisor
	updated, err := svc.Update(ctx, w.ID, *w)
	require.NoError(t, err)
	assert.Equal(t, "Foreman", updated.Role)

	got, err := svc.Get(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, model.WorkerTypeSupervisor, got.WorkerType)

	_, err = svc.Update(ctx, "missing", *w)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, svc.Delete(ctx, w.ID))
}

func TestViewService_Attendance(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.CreateProject(ctx, &model.Project{ID: "p1", Name: "P1", Status: model.StatusActive}))
	require.NoError(t, store.CreateWorker(ctx, &model.Worker{ID: "w1", Name: "Alice", WorkerType: model.WorkerTypeWorker}))
	require.NoError(t, store.CreateWorker(ctx, &model.Worker{ID: "w2", Name: "Bob", WorkerType: model.WorkerTypeWorker}))
	for _, e := range []model.ClockEvent{
		{ID: "e1", Worker: "Alice", Project: "P1", Type: model.ClockIn, Time: fixed, Synced: true, OwnerToken: "fp-alice"},
		{ID: "e2", Worker: "Alice", Project: "P1", Type: model.ClockOut, Time: fixed.Add(8 * time.Hour), OwnerToken: "fp-alice"},
	} {
		_, err := store.CreateClockEntry(ctx, &e)
		require.NoError(t, err)
	}

	views := NewViewService(store, store, store, nil)
	day, _ := attendance.ParseDate("2025-03-14", time.UTC)

	view, err := views.Attendance(ctx, AttendanceQuery{Date: day, Online: true, Caller: alice})
	require.NoError(t, err)

	assert.Equal(t, "2025-03-14", view.Date)
	assert.Equal(t, "alice", view.Identity)
	assert.True(t, view.ShowSyncPrompt)
	assert.Equal(t, 50, view.Stats.AttendanceRate)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "09:00", view.Rows[0].ClockIn)
	assert.Equal(t, attendance.Waiting, view.Rows[0].ClockOut)
	require.Len(t, view.Workers, 2)
	assert.True(t, view.Workers[0].CanAct)
	assert.Equal(t, []string{"P1"}, view.Projects)

	offline, err := views.Attendance(ctx, AttendanceQuery{Date: day, Online: false, Caller: alice})
	require.NoError(t, err)
	assert.False(t, offline.ShowSyncPrompt)

	summary, err := views.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ActiveProjects)
	assert.Equal(t, 2, summary.TeamMembers)
	assert.Equal(t, "Alice", summary.RecentActivity.Worker)
}
