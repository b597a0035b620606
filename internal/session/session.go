package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/BerylCAtieno/summary-request-api/internal/models"
)

type State string

const (
	StateIdle                 State = "idle"
	StateAwaitingUpload       State = "awaiting_upload"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateExtracting           State = "extracting"
	StatePersisting           State = "persisting"
	StateCompleted            State = "completed"
	StateFailed               State = "failed"
)

var ErrIllegalTransition = errors.New("illegal submission state transition")

var transitions = map[State][]State{
	StateIdle:                 {StateAwaitingUpload},
	StateAwaitingUpload:       {StateAwaitingConfirmation, StateIdle},
	StateAwaitingConfirmation: {StateExtracting, StateIdle},
	StateExtracting:           {StatePersisting, StateFailed},
	StatePersisting:           {StateCompleted, StateFailed},
	StateCompleted:            {StateIdle},
	StateFailed:               {StateAwaitingConfirmation, StateIdle},
}

// Upload is a document waiting for the user's confirmation.
type Upload struct {
	Data           []byte
	Filename       string
	IdempotencyKey string
	UploadedAt     time.Time
}

func (u *Upload) SizeKB() float64 {
	return float64(len(u.Data)) / 1024
}

// Session is the per-login state of the submission flow. Callers hold Lock
// across a whole flow step.
type Session struct {
	sync.Mutex

	ID        string
	UserEmail string
	ExpiresAt time.Time

	state     State
	upload    *Upload
	ledger    []models.LedgerEntry
	lastError string
}

func New(id, userEmail string, expiresAt time.Time) *Session {
	return &Session{
		ID:        id,
		UserEmail: userEmail,
		ExpiresAt: expiresAt,
		state:     StateIdle,
	}
}

func (s *Session) State() State {
	return s.state
}

// Transition moves the flow to next, rejecting edges the flow does not have.
func (s *Session) Transition(next State) error {
	for _, allowed := range transitions[s.state] {
		if allowed == next {
			s.state = next
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.state, next)
}

// AttachUpload stores a received document and opens confirmation. The flow
// must be idle.
func (s *Session) AttachUpload(upload *Upload) error {
	if err := s.Transition(StateAwaitingUpload); err != nil {
		return err
	}
	s.upload = upload
	s.lastError = ""
	return s.Transition(StateAwaitingConfirmation)
}

func (s *Session) Upload() *Upload {
	return s.upload
}

// ClearUpload drops the transient document.
func (s *Session) ClearUpload() {
	s.upload = nil
}

// Fail records a diagnostic and returns the flow to confirmation with the
// upload kept for a retry.
func (s *Session) Fail(diagnostic string) error {
	if err := s.Transition(StateFailed); err != nil {
		return err
	}
	s.lastError = diagnostic
	return s.Transition(StateAwaitingConfirmation)
}

// Complete records the persisted request, drops the upload and resets the
// flow to idle.
func (s *Session) Complete(entry models.LedgerEntry) error {
	if err := s.Transition(StateCompleted); err != nil {
		return err
	}
	s.ClearUpload()
	s.lastError = ""
	s.ledger = append(s.ledger, entry)
	return s.Transition(StateIdle)
}

// Abandon discards a pending upload without creating any record.
func (s *Session) Abandon() error {
	switch s.state {
	case StateIdle:
		return nil
	case StateAwaitingUpload, StateAwaitingConfirmation:
		s.ClearUpload()
		s.lastError = ""
		return s.Transition(StateIdle)
	default:
		return fmt.Errorf("%w: cannot abandon while %s", ErrIllegalTransition, s.state)
	}
}

// Release frees everything the session holds in memory.
func (s *Session) Release() {
	s.ClearUpload()
	s.ledger = nil
	s.state = StateIdle
}

func (s *Session) LastError() string {
	return s.lastError
}

// Recent returns up to n ledger entries, newest first.
func (s *Session) Recent(n int) []models.LedgerEntry {
	if n <= 0 || n > len(s.ledger) {
		n = len(s.ledger)
	}
	recent := make([]models.LedgerEntry, 0, n)
	for i := len(s.ledger) - 1; i >= len(s.ledger)-n; i-- {
		recent = append(recent, s.ledger[i])
	}
	return recent
}
