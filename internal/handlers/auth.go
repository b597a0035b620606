package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/BerylCAtieno/summary-request-api/internal/middleware"
	"github.com/BerylCAtieno/summary-request-api/internal/models"
	"github.com/BerylCAtieno/summary-request-api/internal/services"
	"github.com/BerylCAtieno/summary-request-api/internal/utils"
)

type AuthHandler struct {
	service services.AuthService
	logger  *utils.Logger
}

func NewAuthHandler(service services.AuthService, logger *utils.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := h.service.Signup(r.Context(), creds)
	if err != nil {
		respondError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Login(r.Context(), creds)
	if err != nil {
		respondError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, resp)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.BearerToken(r); token != "" {
		h.service.Logout(token)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) decodeCredentials(w http.ResponseWriter, r *http.Request) (models.Credentials, bool) {
	var creds models.Credentials
	if err := json.NewDecoder(io.LimitReader(r.Body, 4096)).Decode(&creds); err != nil {
		respondError(h.logger, w, utils.NewBadRequestError("Invalid request body"))
		return creds, false
	}
	return creds, true
}
