package attendance

import (
	"math"

	"crewclock.service/internal/core/model"
)

type Stats struct {
	TotalWorkers    int `json:"totalWorkers"`
	TotalClockIns   int `json:"totalClockIns"`
	UniqueClockedIn int `json:"uniqueClockedIn"`
	AttendanceRate  int `json:"attendanceRate"`
}

// ComputeStats counts clock-ins over all events and relates the number of
// distinct clocked-in workers to the Worker headcount.
func ComputeStats(workers []model.Worker, events []model.ClockEvent) Stats {
	s := Stats{TotalWorkers: len(model.WorkersOfType(workers, model.WorkerTypeWorker))}

	seen := make(map[string]struct{})
	for _, e := range events {
		if e.Type != model.ClockIn {
			continue
		}
		s.TotalClockIns++
		seen[e.Worker] = struct{}{}
	}
	s.UniqueClockedIn = len(seen)
	s.AttendanceRate = rate(s.UniqueClockedIn, s.TotalWorkers)
	return s
}

// rate returns part/total as a whole percentage in [0,100].
func rate(part, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Floor(float64(part)/float64(total)*100 + 0.5))
	return min(max(pct, 0), 100)
}

// ShowSyncPrompt reports whether the caller should be offered a manual sync:
// they own at least one unsynced entry and are online.
func ShowSyncPrompt(events []model.ClockEvent, ownerToken string, online bool) bool {
	if !online || ownerToken == "" {
		return false
	}
	for _, e := range events {
		if !e.Synced && e.OwnerToken == ownerToken {
			return true
		}
	}
	return false
}
