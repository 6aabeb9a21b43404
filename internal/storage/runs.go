// Package storage persists generation runs in PostgreSQL.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonesrussell/llmsgen/internal/domain"
	"github.com/jonesrussell/llmsgen/internal/logger"
)

// RunStore reads and writes the runs table. Expired rows are treated as
// absent on every read, even before the expiry sweep deletes them.
type RunStore struct {
	db  *sql.DB
	log logger.Logger
}

// NewRunStore creates a RunStore backed by the given database handle.
func NewRunStore(db *sql.DB, log logger.Logger) *RunStore {
	return &RunStore{db: db, log: log}
}

// Create persists a new unpaid run with an opaque id and a fixed TTL.
func (s *RunStore) Create(ctx context.Context, content string) (*domain.Run, error) {
	now := time.Now().UTC()
	run := &domain.Run{
		ID:        uuid.NewString(),
		Content:   content,
		CreatedAt: now,
		ExpiresAt: now.Add(domain.RunTTL),
	}

	query := `
		INSERT INTO runs (id, content, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := s.db.ExecContext(ctx, query, run.ID, run.Content, run.CreatedAt, run.ExpiresAt); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	return run, nil
}

// Get returns a run by id. Missing and expired rows both yield ErrNotFound.
func (s *RunStore) Get(ctx context.Context, id string) (*domain.Run, error) {
	query := `
		SELECT id, content, created_at, expires_at, paid_at
		FROM runs
		WHERE id = $1 AND expires_at > $2
	`

	var run domain.Run
	err := s.db.QueryRowContext(ctx, query, id, time.Now().UTC()).Scan(
		&run.ID,
		&run.Content,
		&run.CreatedAt,
		&run.ExpiresAt,
		&run.PaidAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}

	return &run, nil
}

// MarkPaid sets paid_at on an unexpired run. The update is conditional on
// the row still existing and being unexpired, so a retried webhook simply
// re-sets the timestamp. Returns ErrNotFound when no row qualifies.
func (s *RunStore) MarkPaid(ctx context.Context, id string) error {
	now := time.Now().UTC()

	query := `
		UPDATE runs
		SET paid_at = $1
		WHERE id = $2 AND expires_at > $1
	`

	res, err := s.db.ExecContext(ctx, query, now, id)
	if err != nil {
		return fmt.Errorf("mark run paid: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark run paid rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	s.log.Info("Run marked paid", logger.String("run_id", id))
	return nil
}

// DeleteExpired removes every run past its expiry, paid or not, and returns
// the number of rows deleted.
func (s *RunStore) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE expires_at < $1`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired runs: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired rows affected: %w", err)
	}
	return deleted, nil
}
