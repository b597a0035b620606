package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("submit: %w", NewPersistenceError("Failed to queue request", cause))

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError in chain")
	}
	if appErr.Kind != KindPersistence {
		t.Errorf("expected persistence kind, got %s", appErr.Kind)
	}
	if appErr.StatusCode != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", appErr.StatusCode)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be reachable through errors.Is")
	}
}

func TestGenerateIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
