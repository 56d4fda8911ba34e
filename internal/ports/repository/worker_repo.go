package repository

import (
	"context"
	"database/sql"
	"errors"

	"crewclock.service/internal/core/model"
)

// WorkerPostgresRepository is the PostgreSQL implementation of WorkerRepository.
type WorkerPostgresRepository struct {
	DB *sql.DB
}

func NewWorkerRepository(db *sql.DB) WorkerRepository {
	return &WorkerPostgresRepository{DB: db}
}

func (r *WorkerPostgresRepository) CreateWorker(ctx context.Context, w *model.Worker) error {
	query := `INSERT INTO workers (id, name, role, worker_type, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query, w.ID, w.Name, w.Role, w.WorkerType, w.CreatedAt, w.UpdatedAt)
	return err
}

func (r *WorkerPostgresRepository) GetWorker(ctx context.Context, id string) (*model.Worker, error) {
	query := `SELECT id, name, role, worker_type, created_at, updated_at FROM workers WHERE id = $1`

	w := &model.Worker{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&w.ID, &w.Name, &w.Role, &w.WorkerType, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *WorkerPostgresRepository) ListWorkers(ctx context.Context) ([]model.Worker, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, role, worker_type, created_at, updated_at
              FROM workers ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workers := []model.Worker{}
	for rows.Next() {
		var w model.Worker
		if err := rows.Scan(&w.ID, &w.Name, &w.Role, &w.WorkerType, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		workers = append(workers, w)
	}
	return workers, rows.Err()
}

func (r *WorkerPostgresRepository) UpdateWorker(ctx context.Context, w *model.Worker) error {
	query := `UPDATE workers SET name = $2, role = $3, worker_type = $4, updated_at = $5 WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, w.ID, w.Name, w.Role, w.WorkerType, w.UpdatedAt)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *WorkerPostgresRepository) DeleteWorker(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM workers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
