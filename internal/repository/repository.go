package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/BerylCAtieno/summary-request-api/internal/models"
	"github.com/jmoiron/sqlx"
)

// ErrDuplicateRequest is returned when a request with the same idempotency
// key was already queued.
var ErrDuplicateRequest = errors.New("processing request already queued")

// DuplicateRequestError carries the ID of the request that holds the
// idempotency key. It matches ErrDuplicateRequest with errors.Is.
type DuplicateRequestError struct {
	RequestID string
}

func (e *DuplicateRequestError) Error() string {
	return fmt.Sprintf("%s as %s", ErrDuplicateRequest, e.RequestID)
}

func (e *DuplicateRequestError) Unwrap() error {
	return ErrDuplicateRequest
}

// QueueStore is the write side of the work queue consumed by the
// summarization worker.
type QueueStore interface {
	Insert(ctx context.Context, req *models.ProcessingRequest) error
}

type SQLQueue struct {
	db *sqlx.DB
}

func NewSQLQueue(db *sqlx.DB) *SQLQueue {
	return &SQLQueue{db: db}
}

func (q *SQLQueue) Insert(ctx context.Context, req *models.ProcessingRequest) error {
	query := `
		INSERT INTO processing_requests (id, idempotency_key, task, context, required, email, filename, status, streaming, send_email, created_at)
		VALUES (:id, :idempotency_key, :task, :context, :required, :email, :filename, :status, :streaming, :send_email, :created_at)
		ON CONFLICT (idempotency_key) DO NOTHING
	`

	result, err := q.db.NamedExecContext(ctx, query, req)
	if err != nil {
		return fmt.Errorf("failed to insert processing request: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read insert result: %w", err)
	}
	if affected == 0 {
		var existing string
		err := q.db.GetContext(ctx, &existing, `SELECT id FROM processing_requests WHERE idempotency_key = ?`, req.IdempotencyKey)
		if err != nil {
			return fmt.Errorf("failed to look up queued request: %w", err)
		}
		return &DuplicateRequestError{RequestID: existing}
	}

	return nil
}

func (q *SQLQueue) GetByID(ctx context.Context, id string) (*models.ProcessingRequest, error) {
	var req models.ProcessingRequest

	query := `
		SELECT id, idempotency_key, task, context, required, email, filename,
		       status, streaming, send_email, created_at
		FROM processing_requests
		WHERE id = ?
	`

	err := q.db.GetContext(ctx, &req, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &req, nil
}

// Count returns the number of queued requests.
func (q *SQLQueue) Count(ctx context.Context) (int, error) {
	var n int
	if err := q.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM processing_requests`); err != nil {
		return 0, err
	}
	return n, nil
}
