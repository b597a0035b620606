package handlers

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/BerylCAtieno/summary-request-api/internal/middleware"
	"github.com/BerylCAtieno/summary-request-api/internal/models"
	"github.com/BerylCAtieno/summary-request-api/internal/services"
	"github.com/BerylCAtieno/summary-request-api/internal/utils"
)

const pdfContentType = "application/pdf"

// multipartOverhead is the room left on top of the file limit for the
// multipart framing around it. The file bytes themselves are held to the
// exact limit.
const multipartOverhead = 1 << 20

type SubmissionHandler struct {
	service     services.SubmissionService
	maxFileSize int64
	logger      *utils.Logger
}

func NewSubmissionHandler(service services.SubmissionService, maxFileSize int64, logger *utils.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service:     service,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

func (h *SubmissionHandler) Upload(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		respondError(h.logger, w, utils.NewUnauthorizedError("Login required"))
		return
	}

	// Reject oversized requests before reading the body
	maxRequestSize := h.maxFileSize + multipartOverhead
	if r.ContentLength > maxRequestSize {
		respondError(h.logger, w, utils.NewBadRequestError("File size exceeds upload limit"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)

	if err := r.ParseMultipartForm(maxRequestSize); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			respondError(h.logger, w, utils.NewBadRequestError("File size exceeds upload limit"))
			return
		}
		respondError(h.logger, w, utils.NewBadRequestError("Invalid form data"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(h.logger, w, utils.NewBadRequestError("No file provided"))
		return
	}
	defer file.Close()

	reportedType := header.Header.Get("Content-Type")

	h.logger.Info("File upload attempt",
		"session_id", sess.ID,
		"filename", header.Filename,
		"reported_content_type", reportedType)

	if !isPDF(header.Filename, reportedType) {
		respondError(h.logger, w, utils.NewBadRequestError("Only PDF files are allowed"))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		respondError(h.logger, w, utils.NewInternalError("Failed to read file"))
		return
	}
	if int64(len(data)) > h.maxFileSize {
		respondError(h.logger, w, utils.NewBadRequestError("File size exceeds upload limit"))
		return
	}

	resp, err := h.service.Upload(r.Context(), sess, filepath.Base(header.Filename), data)
	if err != nil {
		respondError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusCreated, resp)
}

func (h *SubmissionHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		respondError(h.logger, w, utils.NewUnauthorizedError("Login required"))
		return
	}

	var req models.ConfirmRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 4096)).Decode(&req); err != nil {
		respondError(h.logger, w, utils.NewBadRequestError("Invalid request body"))
		return
	}

	resp, err := h.service.Confirm(r.Context(), sess, req.Email)
	if err != nil {
		respondError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusCreated, resp)
}

func (h *SubmissionHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		respondError(h.logger, w, utils.NewUnauthorizedError("Login required"))
		return
	}

	if err := h.service.Abandon(r.Context(), sess); err != nil {
		respondError(h.logger, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SubmissionHandler) Status(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		respondError(h.logger, w, utils.NewUnauthorizedError("Login required"))
		return
	}

	respondJSON(h.logger, w, http.StatusOK, h.service.Status(sess))
}

// isPDF accepts a .pdf name, or a name without an extension reported as
// application/pdf.
func isPDF(filename, headerContentType string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != "" {
		return ext == ".pdf"
	}
	mediaType, _, err := mime.ParseMediaType(headerContentType)
	return err == nil && mediaType == pdfContentType
}
