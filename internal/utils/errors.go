package utils

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies failures surfaced to API clients.
type ErrorKind string

const (
	KindExtraction   ErrorKind = "extraction_failure"
	KindValidation   ErrorKind = "validation_failure"
	KindPersistence  ErrorKind = "persistence_failure"
	KindConflict     ErrorKind = "conflict"
	KindBadRequest   ErrorKind = "bad_request"
	KindNotFound     ErrorKind = "not_found"
	KindUnauthorized ErrorKind = "unauthorized"
	KindInternal     ErrorKind = "internal"
)

type AppError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewExtractionError(message string, err error) *AppError {
	return &AppError{Kind: KindExtraction, StatusCode: http.StatusUnprocessableEntity, Message: message, Err: err}
}

func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, StatusCode: http.StatusBadRequest, Message: message}
}

func NewPersistenceError(message string, err error) *AppError {
	return &AppError{Kind: KindPersistence, StatusCode: http.StatusBadGateway, Message: message, Err: err}
}

func NewConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, StatusCode: http.StatusConflict, Message: message}
}

func NewBadRequestError(message string) *AppError {
	return &AppError{Kind: KindBadRequest, StatusCode: http.StatusBadRequest, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, StatusCode: http.StatusNotFound, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, StatusCode: http.StatusUnauthorized, Message: message}
}

func NewInternalError(message string) *AppError {
	return &AppError{Kind: KindInternal, StatusCode: http.StatusInternalServerError, Message: message}
}
