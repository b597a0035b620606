package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/BerylCAtieno/summary-request-api/internal/models"
	"github.com/BerylCAtieno/summary-request-api/internal/repository"
	"github.com/BerylCAtieno/summary-request-api/internal/session"
	"github.com/BerylCAtieno/summary-request-api/internal/utils"
)

const minPasswordLength = 6

type AuthService interface {
	Signup(ctx context.Context, creds models.Credentials) (*models.User, error)
	Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error)
	Logout(token string)
	Authenticate(token string) (*session.Session, bool)
}

type authService struct {
	users    repository.UserRepository
	sessions *session.Manager
	logger   *utils.Logger
}

func NewAuthService(users repository.UserRepository, sessions *session.Manager, logger *utils.Logger) AuthService {
	return &authService{
		users:    users,
		sessions: sessions,
		logger:   logger,
	}
}

func (s *authService) Signup(ctx context.Context, creds models.Credentials) (*models.User, error) {
	email := normalizeEmail(creds.Email)
	if !isPlausibleEmail(email) {
		return nil, utils.NewValidationError("Please enter a valid email address")
	}
	if len(creds.Password) < minPasswordLength {
		return nil, utils.NewValidationError("Password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Failed to hash password", "error", err)
		return nil, utils.NewInternalError("Failed to create account")
	}

	user := &models.User{
		ID:           utils.GenerateID(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, utils.NewConflictError("An account with this email already exists")
		}
		s.logger.Error("Failed to create user", "error", err, "email", email)
		return nil, utils.NewInternalError("Failed to create account")
	}

	s.logger.Info("Account created", "user_id", user.ID, "email", email)
	return user, nil
}

func (s *authService) Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error) {
	email := normalizeEmail(creds.Email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Failed to look up user", "error", err, "email", email)
		return nil, utils.NewInternalError("Failed to log in")
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
		return nil, utils.NewUnauthorizedError("Invalid email or password")
	}

	sess := s.sessions.Create(user.Email)
	s.logger.Info("User logged in", "user_id", user.ID, "session_id", sess.ID)

	return &models.LoginResponse{
		Token:     sess.ID,
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

func (s *authService) Logout(token string) {
	s.sessions.Delete(token)
}

func (s *authService) Authenticate(token string) (*session.Session, bool) {
	return s.sessions.Get(token)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
