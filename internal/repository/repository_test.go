package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/BerylCAtieno/summary-request-api/internal/db"
	"github.com/BerylCAtieno/summary-request-api/internal/models"
	"github.com/jmoiron/sqlx"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.NewSQLiteDB(filepath.Join(t.TempDir(), "requests.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := db.RunMigrations(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return database
}

func sampleRequest(id, key string) *models.ProcessingRequest {
	return &models.ProcessingRequest{
		ID:             id,
		IdempotencyKey: key,
		Task:           "\n--- Page 1 ---\nHello",
		Context:        "Summarize.",
		Required:       "<div>",
		Email:          "user@example.com",
		Filename:       "report.pdf",
		Timestamp:      time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSQLQueueInsertAndGet(t *testing.T) {
	q := NewSQLQueue(newTestDB(t))
	ctx := context.Background()

	if err := q.Insert(ctx, sampleRequest("req-1", "key-1")); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}

	got, err := q.GetByID(ctx, "req-1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got == nil {
		t.Fatalf("expected request to be found")
	}
	if got.Task != "\n--- Page 1 ---\nHello" || got.Email != "user@example.com" || got.Filename != "report.pdf" {
		t.Errorf("unexpected request %+v", got)
	}
	if got.Status || got.Streaming || got.SendEmail {
		t.Errorf("expected flags false, got %+v", got)
	}
	if !got.Timestamp.Equal(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected timestamp %s", got.Timestamp)
	}
}

func TestSQLQueueRejectsDuplicateKey(t *testing.T) {
	q := NewSQLQueue(newTestDB(t))
	ctx := context.Background()

	if err := q.Insert(ctx, sampleRequest("req-1", "key-1")); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	err := q.Insert(ctx, sampleRequest("req-2", "key-1"))
	if !errors.Is(err, ErrDuplicateRequest) {
		t.Fatalf("expected ErrDuplicateRequest, got %v", err)
	}
	var dup *DuplicateRequestError
	if !errors.As(err, &dup) || dup.RequestID != "req-1" {
		t.Errorf("expected duplicate to name req-1, got %v", err)
	}

	n, err := q.Count(ctx)
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 queued request, got %d", n)
	}
}

func TestSQLQueueGetMissing(t *testing.T) {
	q := NewSQLQueue(newTestDB(t))

	got, err := q.GetByID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	user := &models.User{
		ID:           "user-1",
		Email:        "user@example.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	dup := *user
	dup.ID = "user-2"
	if err := repo.Create(ctx, &dup); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	got, err := repo.GetByEmail(ctx, "user@example.com")
	if err != nil {
		t.Fatalf("GetByEmail returned error: %v", err)
	}
	if got == nil || got.ID != "user-1" || got.PasswordHash != "hash" {
		t.Errorf("unexpected user %+v", got)
	}

	missing, err := repo.GetByEmail(ctx, "other@example.com")
	if err != nil {
		t.Fatalf("GetByEmail returned error: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown email, got %+v", missing)
	}
}
