package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"crewclock.service/internal/core/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ClockEntryPostgresRepository is the PostgreSQL implementation of ClockEntryRepository.
// The seq column keeps insertion order, which is the collection order the
// dashboard relies on.
type ClockEntryPostgresRepository struct {
	DB *sql.DB
}

func NewClockEntryRepository(db *sql.DB) ClockEntryRepository {
	return &ClockEntryPostgresRepository{DB: db}
}

const clockColumns = `id, worker, project, entry_type, entry_time, synced, owner_token, sync_attempts, summary_sent`

func scanClockEntry(row rowScanner) (*model.ClockEvent, error) {
	e := &model.ClockEvent{}
	err := row.Scan(&e.ID, &e.Worker, &e.Project, &e.Type, &e.Time, &e.Synced, &e.OwnerToken, &e.SyncAttempts, &e.SummarySent)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *ClockEntryPostgresRepository) queryEntries(ctx context.Context, query string, args ...any) ([]model.ClockEvent, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.ClockEvent{}
	for rows.Next() {
		e, err := scanClockEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// CreateClockEntry create clock entry, ignoring replays of an id already stored.
func (r *ClockEntryPostgresRepository) CreateClockEntry(ctx context.Context, e *model.ClockEvent) (bool, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.worker", e.Worker))

	query := `INSERT INTO clock_entries (id, worker, project, entry_type, entry_time, synced, owner_token, sync_attempts, summary_sent)
              VALUES ($1, $2, $3, $4, $5, $6, $7, 0, FALSE)
              ON CONFLICT (id) DO NOTHING`

	res, err := r.DB.ExecContext(ctx, query, e.ID, e.Worker, e.Project, e.Type, e.Time, e.Synced, e.OwnerToken)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *ClockEntryPostgresRepository) GetClockEntry(ctx context.Context, id string) (*model.ClockEvent, error) {
	query := `SELECT ` + clockColumns + ` FROM clock_entries WHERE id = $1`

	e, err := scanClockEntry(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

func (r *ClockEntryPostgresRepository) ListClockEntries(ctx context.Context) ([]model.ClockEvent, error) {
	return r.queryEntries(ctx, `SELECT `+clockColumns+` FROM clock_entries ORDER BY seq`)
}

// ListUnsynced returns the pending entries submitted with the given owner token.
func (r *ClockEntryPostgresRepository) ListUnsynced(ctx context.Context, ownerToken string) ([]model.ClockEvent, error) {
	return r.queryEntries(ctx, `SELECT `+clockColumns+` FROM clock_entries
              WHERE synced = FALSE AND owner_token = $1
              ORDER BY seq`, ownerToken)
}

func (r *ClockEntryPostgresRepository) MarkSynced(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE clock_entries SET synced = TRUE, sync_attempts = 0 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *ClockEntryPostgresRepository) RecordSyncFailure(ctx context.Context, id string) (int, error) {
	var attempts int
	err := r.DB.QueryRowContext(ctx, `UPDATE clock_entries
              SET sync_attempts = sync_attempts + 1
              WHERE id = $1
              RETURNING sync_attempts`, id).Scan(&attempts)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return attempts, err
}

func (r *ClockEntryPostgresRepository) MarkSummarySent(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE clock_entries SET summary_sent = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// LastClockIn get last clock-in for a worker on a project before the given time.
func (r *ClockEntryPostgresRepository) LastClockIn(ctx context.Context, worker, project string, before time.Time) (*model.ClockEvent, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.worker", worker))

	query := `SELECT ` + clockColumns + ` FROM clock_entries
              WHERE worker = $1 AND project = $2 AND entry_type = $3 AND entry_time < $4
              ORDER BY entry_time DESC, seq DESC
              LIMIT 1`

	e, err := scanClockEntry(r.DB.QueryRowContext(ctx, query, worker, project, model.ClockIn, before))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}
