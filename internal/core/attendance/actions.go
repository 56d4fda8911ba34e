package attendance

import (
	"sort"
	"strings"
	"time"

	"crewclock.service/internal/core/model"
)

// NotApplicable is shown when a worker's last event names no known project.
const NotApplicable = "N/A"

// WorkerAction is one line of the worker action panel.
type WorkerAction struct {
	Worker      string          `json:"worker"`
	Available   bool            `json:"available"`
	ClockedIn   bool            `json:"clockedIn"`
	Project     string          `json:"project,omitempty"`
	ClockedInAt string          `json:"clockedInAt,omitempty"`
	CanAct      bool            `json:"canAct"`
	NextAction  model.ClockType `json:"nextAction"`
	NextProject string          `json:"nextProject"`
}

// LastEntry finds the latest event, in collection order, for worker.
// Names are compared case-insensitively.
func LastEntry(events []model.ClockEvent, worker string) (model.ClockEvent, bool) {
	for i := len(events) - 1; i >= 0; i-- {
		if strings.EqualFold(events[i].Worker, worker) {
			return events[i], true
		}
	}
	return model.ClockEvent{}, false
}

// DefaultProject is the project a new clock-in is booked against when the
// caller does not name one.
func DefaultProject(projects []model.Project) string {
	if len(projects) == 0 {
		return NotApplicable
	}
	return projects[0].Name
}

func findProject(projects []model.Project, name string) (model.Project, bool) {
	for _, p := range projects {
		if p.Name == name {
			return p, true
		}
	}
	return model.Project{}, false
}

// WorkerActions lists the Worker-category workers matching search, sorted by
// name, with their clock state. identityName enables actions for the
// caller's own line only.
func WorkerActions(snap model.Snapshot, search, identityName string, loc *time.Location) []WorkerAction {
	if loc == nil {
		loc = time.UTC
	}
	search = strings.ToLower(strings.TrimSpace(search))

	workers := model.WorkersOfType(snap.Workers, model.WorkerTypeWorker)
	filtered := workers[:0]
	for _, w := range workers {
		if strings.Contains(strings.ToLower(w.Name), search) {
			filtered = append(filtered, w)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return strings.ToLower(filtered[i].Name) < strings.ToLower(filtered[j].Name)
	})

	defaultProject := DefaultProject(snap.Projects)
	out := make([]WorkerAction, 0, len(filtered))
	for _, w := range filtered {
		a := WorkerAction{
			Worker:      w.Name,
			CanAct:      identityName != "" && strings.EqualFold(w.Name, identityName),
			NextAction:  model.ClockIn,
			NextProject: defaultProject,
		}

		last, ok := LastEntry(snap.ClockEntries, w.Name)
		if !ok {
			a.Available = true
			out = append(out, a)
			continue
		}

		if last.Type == model.ClockIn {
			a.ClockedIn = true
			a.NextAction = model.ClockOut
			a.ClockedInAt = last.Time.In(loc).Format(timeLayout)
			a.Project = NotApplicable
			if p, found := findProject(snap.Projects, last.Project); found {
				a.Project = p.Name
				a.NextProject = p.Name
			}
		}
		out = append(out, a)
	}
	return out
}
