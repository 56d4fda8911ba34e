package clocksync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"crewclock.service/internal/core/model"
	"crewclock.service/internal/ports/messaging"
	"crewclock.service/internal/ports/repository"
	"crewclock.service/internal/worker"
	"crewclock.service/internal/worker/payroll"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// Processor confirms queued clock entries: it forwards each one to the
// payroll API and marks it synced. A circuit breaker keeps a struggling
// payroll system from being hammered.
type Processor struct {
	Repo     repository.ClockEntryRepository
	payroll  payroll.Client
	producer messaging.QueueProducer
	cb       *gobreaker.CircuitBreaker
	now      func() time.Time
}

// NewProcessor creates a new processor for the sync queue.
func NewProcessor(r repository.ClockEntryRepository, client payroll.Client, p messaging.QueueProducer) *Processor {
	settings := gobreaker.Settings{
		Name:        "Payroll-API",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip if the failure rate is at least 50% after 10 requests
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
		},
	}

	return &Processor{
		Repo:     r,
		payroll:  client,
		producer: p,
		cb:       gobreaker.NewCircuitBreaker(settings),
		now:      time.Now,
	}
}

// Process handles one message from the sync queue.
func (p *Processor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	if msg.Body == nil {
		return false, 0, errors.New("empty sync message")
	}
	var event messaging.ClockEntryEvent
	if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal clock entry event")
		return false, 0, err // Do not retry on malformed message
	}

	entry, err := p.Repo.GetClockEntry(ctx, event.EntryID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, 0, fmt.Errorf("clock entry %s no longer exists: %w", event.EntryID, err)
	}
	if err != nil {
		return true, 10, fmt.Errorf("failed to get clock entry from db: %w", err)
	}

	if entry.Synced {
		log.Ctx(ctx).Info().Str("entry_id", entry.ID).Msg("Clock entry already synced. Skipping.")
		return false, 0, nil
	}

	_, err = p.cb.Execute(func() (interface{}, error) {
		return nil, p.payroll.RecordClockEntry(ctx, *entry)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			log.Ctx(ctx).Warn().Msg("Circuit breaker is open; skipping payroll API call")
		}
		attempts, rerr := p.Repo.RecordSyncFailure(ctx, entry.ID)
		if rerr != nil {
			log.Ctx(ctx).Error().Err(rerr).Str("entry_id", entry.ID).Msg("Failed to record sync attempt")
			attempts = entry.SyncAttempts + 1
		}
		return true, worker.CalculateBackoff(attempts), err
	}

	if err := p.Repo.MarkSynced(ctx, entry.ID); err != nil {
		return true, 10, fmt.Errorf("failed to mark clock entry synced: %w", err)
	}

	if entry.Type == model.ClockOut {
		p.publishShiftSummary(ctx, *entry)
	}
	return false, 0, nil
}

// publishShiftSummary queues the summary email for a confirmed clock-out.
// Without a matching clock-in on the same day there is nothing to summarise.
func (p *Processor) publishShiftSummary(ctx context.Context, out model.ClockEvent) {
	in, err := p.Repo.LastClockIn(ctx, out.Worker, out.Project, out.Time)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Ctx(ctx).Error().Err(err).Str("entry_id", out.ID).Msg("Failed to look up clock-in for summary")
		}
		return
	}
	y1, m1, d1 := in.Time.UTC().Date()
	y2, m2, d2 := out.Time.UTC().Date()
	if y1 != y2 || m1 != m2 || d1 != d2 {
		return
	}

	summary := messaging.ShiftSummaryEvent{
		EntryID:     out.ID,
		Worker:      out.Worker,
		Project:     out.Project,
		ClockIn:     in.Time,
		ClockOut:    out.Time,
		HoursWorked: out.Time.Sub(in.Time).Hours(),
		OccurredAt:  p.now().UTC(),
	}
	if err := p.producer.PublishEmail(ctx, summary); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("entry_id", out.ID).Msg("Failed to queue shift summary")
	}
}
