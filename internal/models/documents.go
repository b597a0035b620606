package models

import (
	"time"
)

// ProcessingRequest is the record handed to the summarization worker through
// the queue store. Field names are the worker's wire contract.
type ProcessingRequest struct {
	ID             string    `json:"id" db:"id"`
	IdempotencyKey string    `json:"idempotency_key" db:"idempotency_key"`
	Task           string    `json:"task" db:"task"`
	Context        string    `json:"context" db:"context"`
	Required       string    `json:"required" db:"required"`
	Email          string    `json:"email" db:"email"`
	Filename       string    `json:"filename" db:"filename"`
	Status         bool      `json:"status" db:"status"`
	Streaming      bool      `json:"streaming" db:"streaming"`
	SendEmail      bool      `json:"sendEmail" db:"send_email"`
	Timestamp      time.Time `json:"timestamp" db:"created_at"`
}

type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type UploadResponse struct {
	Filename string  `json:"filename"`
	SizeKB   float64 `json:"size_kb"`
	State    string  `json:"state"`
	Message  string  `json:"message"`
}

type ConfirmRequest struct {
	Email string `json:"email"`
}

type ConfirmResponse struct {
	RequestID string    `json:"request_id"`
	Email     string    `json:"email"`
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"created_at"`
	Message   string    `json:"message"`
}

type LedgerEntry struct {
	Filename    string    `json:"filename"`
	Email       string    `json:"email"`
	SizeKB      float64   `json:"size_kb"`
	RequestID   string    `json:"request_id"`
	ProcessedAt time.Time `json:"processed_at"`
}

type SessionStatus struct {
	State           string        `json:"state"`
	PendingFilename string        `json:"pending_filename,omitempty"`
	LastError       string        `json:"last_error,omitempty"`
	Recent          []LedgerEntry `json:"recent"`
}
