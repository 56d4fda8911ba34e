// Package attendance derives the attendance views of the dashboard from a
// snapshot of clock events and workers. Everything here is a pure function
// over its inputs.
package attendance

import (
	"fmt"
	"sort"
	"time"

	"crewclock.service/internal/core/model"
)

const (
	// Unset marks a side of a row that has no clock event.
	Unset = "-"
	// Waiting is shown for events still held in the pending queue.
	Waiting = "Waiting"

	DateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Row pairs a clock-in with the clock-out that closed it.
type Row struct {
	Worker         string `json:"worker"`
	Project        string `json:"project"`
	ClockIn        string `json:"clockIn"`
	ClockInSynced  bool   `json:"clockInSynced"`
	ClockOut       string `json:"clockOut"`
	ClockOutSynced bool   `json:"clockOutSynced"`
}

// ParseDate parses a YYYY-MM-DD date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// DisplayTime renders an event's time for the table, or Waiting if the
// event has not been synced yet.
func DisplayTime(e model.ClockEvent, loc *time.Location) string {
	if !e.Synced {
		return Waiting
	}
	return e.Time.In(loc).Format(timeLayout)
}

// Reconcile pairs the clock events of the given day into table rows.
// A clock-out closes the most recent open row for the same worker and
// project; without one it becomes a row of its own. The input is not modified.
func Reconcile(events []model.ClockEvent, date time.Time, loc *time.Location) []Row {
	if loc == nil {
		loc = time.UTC
	}

	day := make([]model.ClockEvent, 0, len(events))
	for _, e := range events {
		if SameDay(e.Time, date, loc) {
			day = append(day, e)
		}
	}
	sort.SliceStable(day, func(i, j int) bool {
		return day[i].Time.Before(day[j].Time)
	})

	rows := make([]Row, 0, len(day))
	open := make([]bool, 0, len(day))

	for _, e := range day {
		switch e.Type {
		case model.ClockIn:
			rows = append(rows, Row{
				Worker:         e.Worker,
				Project:        e.Project,
				ClockIn:        DisplayTime(e, loc),
				ClockInSynced:  e.Synced,
				ClockOut:       Unset,
				ClockOutSynced: true,
			})
			open = append(open, true)

		case model.ClockOut:
			idx := -1
			for i := len(rows) - 1; i >= 0; i-- {
				if open[i] && rows[i].Worker == e.Worker && rows[i].Project == e.Project {
					idx = i
					break
				}
			}
			if idx >= 0 {
				rows[idx].ClockOut = DisplayTime(e, loc)
				rows[idx].ClockOutSynced = e.Synced
				open[idx] = false
				continue
			}
			rows = append(rows, Row{
				Worker:         e.Worker,
				Project:        e.Project,
				ClockIn:        Unset,
				ClockInSynced:  true,
				ClockOut:       DisplayTime(e, loc),
				ClockOutSynced: e.Synced,
			})
			open = append(open, false)
		}
	}

	return rows
}
