package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BerylCAtieno/summary-request-api/internal/builder"
	"github.com/BerylCAtieno/summary-request-api/internal/extractor"
	"github.com/BerylCAtieno/summary-request-api/internal/models"
	"github.com/BerylCAtieno/summary-request-api/internal/repository"
	"github.com/BerylCAtieno/summary-request-api/internal/session"
	"github.com/BerylCAtieno/summary-request-api/internal/storage"
	"github.com/BerylCAtieno/summary-request-api/internal/utils"
)

type SubmissionService interface {
	Upload(ctx context.Context, sess *session.Session, filename string, data []byte) (*models.UploadResponse, error)
	Confirm(ctx context.Context, sess *session.Session, email string) (*models.ConfirmResponse, error)
	Abandon(ctx context.Context, sess *session.Session) error
	Status(sess *session.Session) *models.SessionStatus
}

type submissionService struct {
	queue       repository.QueueStore
	builder     *builder.Builder
	archive     storage.Storage
	extract     func([]byte) (string, error)
	logger      *utils.Logger
	recentLimit int
}

// NewSubmissionService wires the confirmation flow. archive may be nil.
func NewSubmissionService(queue repository.QueueStore, b *builder.Builder, archive storage.Storage, recentLimit int, logger *utils.Logger) SubmissionService {
	return &submissionService{
		queue:       queue,
		builder:     b,
		archive:     archive,
		extract:     extractor.ExtractPDF,
		logger:      logger,
		recentLimit: recentLimit,
	}
}

func (s *submissionService) Upload(ctx context.Context, sess *session.Session, filename string, data []byte) (*models.UploadResponse, error) {
	if len(data) == 0 {
		return nil, utils.NewBadRequestError("Uploaded file is empty")
	}

	sess.Lock()
	defer sess.Unlock()

	switch sess.State() {
	case session.StateIdle:
	case session.StateAwaitingConfirmation:
		return nil, utils.NewConflictError("A document is already awaiting confirmation. Confirm or discard it first")
	default:
		return nil, utils.NewConflictError("A submission is already in progress")
	}

	upload := &session.Upload{
		Data:           data,
		Filename:       filename,
		IdempotencyKey: utils.GenerateID(),
		UploadedAt:     time.Now().UTC(),
	}
	if err := sess.AttachUpload(upload); err != nil {
		s.logger.Error("Failed to attach upload", "error", err, "session_id", sess.ID)
		return nil, utils.NewInternalError("Failed to hold uploaded document")
	}

	s.logger.Info("Document received",
		"session_id", sess.ID,
		"filename", filename,
		"size_bytes", len(data))

	return &models.UploadResponse{
		Filename: filename,
		SizeKB:   upload.SizeKB(),
		State:    string(sess.State()),
		Message:  fmt.Sprintf("File '%s' uploaded successfully (%.1f KB). Confirm with your email address to request a summary.", filename, upload.SizeKB()),
	}, nil
}

func (s *submissionService) Confirm(ctx context.Context, sess *session.Session, email string) (*models.ConfirmResponse, error) {
	// The session lock spans the whole attempt so a double submit waits and
	// then finds nothing left to confirm.
	sess.Lock()
	defer sess.Unlock()

	log := s.logger.With("session_id", sess.ID)

	upload := sess.Upload()
	if sess.State() != session.StateAwaitingConfirmation || upload == nil {
		return nil, utils.NewConflictError("No document is awaiting confirmation. Upload a PDF first")
	}

	email = strings.TrimSpace(email)
	if !isPlausibleEmail(email) {
		log.Warn("Rejected destination address", "email", email)
		return nil, utils.NewValidationError("Please enter a valid email address")
	}

	if err := ctx.Err(); err != nil {
		return nil, utils.NewBadRequestError("Submission cancelled")
	}

	if err := sess.Transition(session.StateExtracting); err != nil {
		return nil, s.illegalState(sess, err)
	}

	text, err := s.extract(upload.Data)
	if err == nil && text == "" {
		err = errors.New("document has no pages")
	}
	if err != nil {
		diagnostic := fmt.Sprintf("Error reading PDF: %v", err)
		log.Error("Failed to extract text", "error", err, "filename", upload.Filename)
		if ferr := sess.Fail(diagnostic); ferr != nil {
			return nil, s.illegalState(sess, ferr)
		}
		return nil, utils.NewExtractionError(diagnostic, err)
	}

	req := s.builder.Build(text, email, upload.Filename, upload.IdempotencyKey)

	if err := sess.Transition(session.StatePersisting); err != nil {
		return nil, s.illegalState(sess, err)
	}

	if err := ctx.Err(); err != nil {
		if ferr := sess.Fail("Submission cancelled before the request was queued"); ferr != nil {
			return nil, s.illegalState(sess, ferr)
		}
		return nil, utils.NewBadRequestError("Submission cancelled")
	}

	message := fmt.Sprintf("Summary will be sent to %s shortly.", email)
	err = s.queue.Insert(ctx, &req)
	switch {
	case errors.Is(err, repository.ErrDuplicateRequest):
		// An earlier attempt for this upload reached the queue.
		var dup *repository.DuplicateRequestError
		if errors.As(err, &dup) {
			req.ID = dup.RequestID
		}
		log.Info("Processing request already queued", "request_id", req.ID, "idempotency_key", req.IdempotencyKey)
		message = fmt.Sprintf("This document was already queued. Summary will be sent to %s shortly.", email)
	case err != nil:
		log.Error("Failed to queue processing request", "error", err, "filename", upload.Filename)
		if ferr := sess.Fail(fmt.Sprintf("Failed to queue request: %v", err)); ferr != nil {
			return nil, s.illegalState(sess, ferr)
		}
		return nil, utils.NewPersistenceError("Failed to queue summary request. Please try again", err)
	default:
		s.archiveDocument(ctx, log, req.ID, upload)
	}

	entry := models.LedgerEntry{
		Filename:    upload.Filename,
		Email:       email,
		SizeKB:      upload.SizeKB(),
		RequestID:   req.ID,
		ProcessedAt: req.Timestamp,
	}
	if err := sess.Complete(entry); err != nil {
		return nil, s.illegalState(sess, err)
	}

	log.Info("Processing request queued",
		"request_id", req.ID,
		"filename", entry.Filename,
		"text_length", len(text))

	return &models.ConfirmResponse{
		RequestID: req.ID,
		Email:     email,
		Filename:  entry.Filename,
		CreatedAt: req.Timestamp,
		Message:   message,
	}, nil
}

func (s *submissionService) Abandon(ctx context.Context, sess *session.Session) error {
	sess.Lock()
	defer sess.Unlock()

	var filename string
	if upload := sess.Upload(); upload != nil {
		filename = upload.Filename
	}

	if err := sess.Abandon(); err != nil {
		return utils.NewConflictError("A submission is in progress and cannot be discarded")
	}

	if filename != "" {
		s.logger.Info("Upload discarded", "session_id", sess.ID, "filename", filename)
	}
	return nil
}

func (s *submissionService) Status(sess *session.Session) *models.SessionStatus {
	sess.Lock()
	defer sess.Unlock()

	status := &models.SessionStatus{
		State:     string(sess.State()),
		LastError: sess.LastError(),
		Recent:    sess.Recent(s.recentLimit),
	}
	if upload := sess.Upload(); upload != nil {
		status.PendingFilename = upload.Filename
	}
	return status
}

// archiveDocument keeps a copy of the original file. The request is already
// queued, so failures are only logged.
func (s *submissionService) archiveDocument(ctx context.Context, log *utils.Logger, requestID string, upload *session.Upload) {
	if s.archive == nil {
		return
	}

	key := storage.ArchiveKey(requestID, upload.Filename)
	if err := s.archive.Upload(ctx, key, upload.Data, "application/pdf"); err != nil {
		log.Warn("Failed to archive document", "error", err, "request_id", requestID, "s3_key", key)
	}
}

func (s *submissionService) illegalState(sess *session.Session, err error) error {
	s.logger.Error("Submission flow in unexpected state", "error", err, "session_id", sess.ID, "state", sess.State())
	return utils.NewInternalError("Submission flow is in an unexpected state")
}

func isPlausibleEmail(email string) bool {
	return email != "" && strings.Contains(email, "@")
}
