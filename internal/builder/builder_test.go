package builder

import (
	"testing"
	"time"
)

func TestBuild(t *testing.T) {
	fixed := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	b := New(Instructions{Context: "Summarize it.", Required: "<div> only"}).
		WithClock(func() time.Time { return fixed })

	req := b.Build("\n--- Page 1 ---\nHello", "user@example.com", "report.pdf", "key-1")

	if req.ID == "" {
		t.Errorf("expected generated ID")
	}
	if req.IdempotencyKey != "key-1" {
		t.Errorf("expected idempotency key to be carried, got %q", req.IdempotencyKey)
	}
	if req.Task != "\n--- Page 1 ---\nHello" {
		t.Errorf("unexpected task %q", req.Task)
	}
	if req.Context != "Summarize it." || req.Required != "<div> only" {
		t.Errorf("instructions not applied: %q / %q", req.Context, req.Required)
	}
	if req.Email != "user@example.com" || req.Filename != "report.pdf" {
		t.Errorf("unexpected email/filename %q / %q", req.Email, req.Filename)
	}
	if req.Status || req.Streaming || req.SendEmail {
		t.Errorf("expected all flags false, got status=%v streaming=%v sendEmail=%v", req.Status, req.Streaming, req.SendEmail)
	}
	if !req.Timestamp.Equal(fixed) {
		t.Errorf("expected timestamp %s, got %s", fixed, req.Timestamp)
	}
}

func TestBuildDoesNotRejectEmptyText(t *testing.T) {
	req := New(Instructions{Context: "c", Required: "r"}).Build("", "a@b", "empty.pdf", "k")
	if req.Task != "" {
		t.Errorf("expected empty task, got %q", req.Task)
	}
}

func TestBuildGivesEachRequestItsOwnID(t *testing.T) {
	b := New(Instructions{Context: "c", Required: "r"})
	first := b.Build("t", "a@b", "f.pdf", "k1")
	second := b.Build("t", "a@b", "f.pdf", "k2")
	if first.ID == second.ID {
		t.Errorf("expected distinct IDs, both were %s", first.ID)
	}
}
