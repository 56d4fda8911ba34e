package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"crewclock.service/internal/core/model"
)

func assigned(names ...string) []model.AssignedWorker {
	out := make([]model.AssignedWorker, 0, len(names))
	for _, n := range names {
		out = append(out, model.AssignedWorker{Name: n})
	}
	return out
}

func TestSummarize(t *testing.T) {
	snap := model.Snapshot{
		Projects: []model.Project{
			{Name: "Bridge", Status: model.StatusActive, AssignedWorkers: assigned("Alice", "Bob")},
			{Name: "Tower", Status: model.StatusActive, AssignedWorkers: assigned("Bob", "Carol", "")},
			{Name: "Depot", Status: model.StatusHold, AssignedWorkers: assigned("Dan")},
			{Name: "Mall", Status: model.StatusCompleted, AssignedWorkers: assigned("Eve")},
		},
		Workers: []model.Worker{
			{Name: "Alice", WorkerType: model.WorkerTypeWorker},
			{Name: "Bob", WorkerType: model.WorkerTypeWorker},
			{Name: "Sue", WorkerType: model.WorkerTypeSupervisor},
		},
		ClockEntries: []model.ClockEvent{
			{Worker: "Alice", Project: "Bridge", Type: model.ClockIn, Time: time.Now()},
			{Worker: "Bob", Project: "Tower", Type: model.ClockOut, Time: time.Now().Add(-time.Hour)},
		},
	}

	got := Summarize(snap)

	assert.Equal(t, Summary{
		TotalProjects:  4,
		ActiveProjects: 2,
		TeamMembers:    2,
		ActiveWorkers:  3,
		RecentActivity: Activity{Worker: "Bob", Type: model.ClockOut, Project: "Tower"},
	}, got)
}

func TestSummarize_Empty(t *testing.T) {
	got := Summarize(model.Snapshot{})

	assert.Zero(t, got.TotalProjects)
	assert.Zero(t, got.ActiveProjects)
	assert.Zero(t, got.TeamMembers)
	assert.Zero(t, got.ActiveWorkers)
	assert.Equal(t, NoRecentActivity, got.RecentActivity.Worker)
}
