package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/BerylCAtieno/summary-request-api/internal/utils"
)

func respondJSON(logger *utils.Logger, w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}

func respondError(logger *utils.Logger, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"
	kind := utils.KindInternal

	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		status = appErr.StatusCode
		message = appErr.Message
		kind = appErr.Kind
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request error", "status", status, "kind", kind, "error", err)
	} else {
		logger.Warn("Request rejected", "status", status, "kind", kind, "error", message)
	}

	respondJSON(logger, w, status, map[string]string{"error": message, "kind": string(kind)})
}
