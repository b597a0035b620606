package router

import (
	"net/http"

	"github.com/BerylCAtieno/summary-request-api/internal/handlers"
	"github.com/BerylCAtieno/summary-request-api/internal/middleware"
	"github.com/BerylCAtieno/summary-request-api/internal/services"
	"github.com/BerylCAtieno/summary-request-api/internal/utils"

	"github.com/gorilla/mux"
)

func NewRouter(authService services.AuthService, submissionService services.SubmissionService, maxFileSize int64, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Recovery(logger))

	authHandler := handlers.NewAuthHandler(authService, logger)
	submissionHandler := handlers.NewSubmissionHandler(submissionService, maxFileSize, logger)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	// Auth endpoints
	api.HandleFunc("/auth/signup", authHandler.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)

	// Submission endpoints
	submissions := api.PathPrefix("/submissions").Subrouter()
	submissions.Use(middleware.RequireSession(authService))
	submissions.HandleFunc("/upload", submissionHandler.Upload).Methods(http.MethodPost)
	submissions.HandleFunc("/upload", submissionHandler.Abandon).Methods(http.MethodDelete)
	submissions.HandleFunc("/confirm", submissionHandler.Confirm).Methods(http.MethodPost)
	submissions.HandleFunc("/session", submissionHandler.Status).Methods(http.MethodGet)

	return r
}
