// Package db provides optional PostgreSQL persistence of pipeline run
// metadata: one row per run and one row per resource outcome. The
// pipeline works fully without it; CSV files remain the primary output.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Resource outcome statuses.
const (
	StatusFetched     = "fetched"
	StatusFetchFailed = "fetch_failed"
	StatusWritten     = "written"
	StatusWriteFailed = "write_failed"
)

// Store wraps a PostgreSQL connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Run represents one pipeline invocation.
type Run struct {
	ID          uuid.UUID
	BaseURL     string
	Status      string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// ResourceOutcome records what happened to one resource during a run.
type ResourceOutcome struct {
	RunID        uuid.UUID
	Resource     string
	Status       string
	RowCount     int
	ErrorMessage string
	RecordedAt   time.Time
}

// CreateRun inserts a new run record and returns its ID.
func (s *Store) CreateRun(ctx context.Context, baseURL string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx,
		`INSERT INTO pipeline_runs (base_url, status)
		 VALUES ($1, 'running')
		 RETURNING id`,
		baseURL,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a run as finished with the given status.
func (s *Store) CompleteRun(ctx context.Context, runID uuid.UUID, status string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE pipeline_runs SET status = $1, completed_at = NOW() WHERE id = $2`,
		status, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// RecordResource upserts the outcome for one resource of a run.
func (s *Store) RecordResource(ctx context.Context, runID uuid.UUID, resource, status string, rowCount int, errorMessage string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO resource_outcomes (run_id, resource, status, row_count, error_message)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		 ON CONFLICT (run_id, resource) DO UPDATE
		 SET status = $3, row_count = $4, error_message = NULLIF($5, ''), recorded_at = NOW()`,
		runID, resource, status, rowCount, errorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to record outcome for %s: %w", resource, err)
	}
	return nil
}

// ListOutcomes retrieves the per-resource outcomes of a run in the order
// they were recorded.
func (s *Store) ListOutcomes(ctx context.Context, runID uuid.UUID) ([]ResourceOutcome, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT run_id, resource, status, row_count, COALESCE(error_message, ''), recorded_at
		 FROM resource_outcomes WHERE run_id = $1 ORDER BY recorded_at`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []ResourceOutcome
	for rows.Next() {
		var o ResourceOutcome
		if err := rows.Scan(&o.RunID, &o.Resource, &o.Status, &o.RowCount, &o.ErrorMessage, &o.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, nil
}
