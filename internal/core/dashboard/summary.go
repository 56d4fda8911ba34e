package dashboard

import "crewclock.service/internal/core/model"

// NoRecentActivity is reported as the worker when there are no clock events.
const NoRecentActivity = "No recent activity"

type Activity struct {
	Worker  string          `json:"worker"`
	Type    model.ClockType `json:"type,omitempty"`
	Project string          `json:"project,omitempty"`
}

type Summary struct {
	TotalProjects  int      `json:"totalProjects"`
	ActiveProjects int      `json:"activeProjects"`
	TeamMembers    int      `json:"teamMembers"`
	ActiveWorkers  int      `json:"activeWorkers"`
	RecentActivity Activity `json:"recentActivity"`
}

// Summarize computes the dashboard counters from a snapshot.
func Summarize(snap model.Snapshot) Summary {
	s := Summary{
		TotalProjects: len(snap.Projects),
		TeamMembers:   len(model.WorkersOfType(snap.Workers, model.WorkerTypeWorker)),
		ActiveWorkers: ActiveWorkers(snap.Projects),
		RecentActivity: Activity{
			Worker: NoRecentActivity,
		},
	}
	for _, p := range snap.Projects {
		if p.Status == model.StatusActive {
			s.ActiveProjects++
		}
	}
	if n := len(snap.ClockEntries); n > 0 {
		last := snap.ClockEntries[n-1]
		s.RecentActivity = Activity{Worker: last.Worker, Type: last.Type, Project: last.Project}
	}
	return s
}

// ActiveWorkers counts the distinct worker names assigned to active projects.
func ActiveWorkers(projects []model.Project) int {
	busy := make(map[string]struct{})
	for _, p := range projects {
		if p.Status != model.StatusActive {
			continue
		}
		for _, w := range p.AssignedWorkers {
			if w.Name == "" {
				continue
			}
			busy[w.Name] = struct{}{}
		}
	}
	return len(busy)
}
