package builder

import (
	"time"

	"github.com/BerylCAtieno/summary-request-api/internal/models"
	"github.com/BerylCAtieno/summary-request-api/internal/utils"
)

// Instructions is the fixed payload every request carries so the worker
// knows what to produce.
type Instructions struct {
	Context  string
	Required string
}

type Builder struct {
	instructions Instructions
	now          func() time.Time
}

func New(instructions Instructions) *Builder {
	return &Builder{
		instructions: instructions,
		now:          time.Now,
	}
}

// WithClock replaces the timestamp source.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build assembles a pending processing request. It does not check that text
// is non-empty.
func (b *Builder) Build(text, email, filename, idempotencyKey string) models.ProcessingRequest {
	return models.ProcessingRequest{
		ID:             utils.GenerateID(),
		IdempotencyKey: idempotencyKey,
		Task:           text,
		Context:        b.instructions.Context,
		Required:       b.instructions.Required,
		Email:          email,
		Filename:       filename,
		Status:         false,
		Streaming:      false,
		SendEmail:      false,
		Timestamp:      b.now().UTC(),
	}
}
