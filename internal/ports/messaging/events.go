package messaging

import (
	"time"

	"crewclock.service/internal/core/model"
)

// ClockEntryEvent is the JSON payload sent via SQS for the sync queue.
type ClockEntryEvent struct {
	EntryID string          `json:"entryId"`
	Worker  string          `json:"worker"`
	Project string          `json:"project"`
	Type    model.ClockType `json:"type"`
	Time    time.Time       `json:"time"`
}

// NewClockEntryEvent builds the sync payload for a stored entry.
func NewClockEntryEvent(e model.ClockEvent) ClockEntryEvent {
	return ClockEntryEvent{
		EntryID: e.ID,
		Worker:  e.Worker,
		Project: e.Project,
		Type:    e.Type,
		Time:    e.Time,
	}
}

// ShiftSummaryEvent is the JSON payload sent via SQS for the email queue.
type ShiftSummaryEvent struct {
	EntryID     string    `json:"entryId"`
	Worker      string    `json:"worker"`
	Project     string    `json:"project"`
	ClockIn     time.Time `json:"clockIn"`
	ClockOut    time.Time `json:"clockOut"`
	HoursWorked float64   `json:"hoursWorked"`
	OccurredAt  time.Time `json:"occurredAt"`
}
