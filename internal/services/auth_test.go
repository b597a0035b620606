package services

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/BerylCAtieno/summary-request-api/internal/models"
	"github.com/BerylCAtieno/summary-request-api/internal/repository"
	"github.com/BerylCAtieno/summary-request-api/internal/session"
	"github.com/BerylCAtieno/summary-request-api/internal/utils"
)

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func (m *memoryUsers) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Email]; ok {
		return repository.ErrEmailTaken
	}
	m.users[user.Email] = user
	return nil
}

func (m *memoryUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[email], nil
}

func newTestAuthService() (AuthService, *session.Manager) {
	logger := utils.NewLoggerWithWriter(io.Discard, "error")
	sessions := session.NewManager(time.Hour, logger)
	users := &memoryUsers{users: make(map[string]*models.User)}
	return NewAuthService(users, sessions, logger), sessions
}

func TestSignupAndLogin(t *testing.T) {
	auth, _ := newTestAuthService()
	ctx := context.Background()

	user, err := auth.Signup(ctx, models.Credentials{Email: " User@Example.com ", Password: "secret1"})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if user.Email != "user@example.com" {
		t.Errorf("expected normalized email, got %q", user.Email)
	}
	if user.PasswordHash == "secret1" {
		t.Errorf("password stored in plain text")
	}

	resp, err := auth.Login(ctx, models.Credentials{Email: "user@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	sess, ok := auth.Authenticate(resp.Token)
	if !ok {
		t.Fatalf("expected token to authenticate")
	}
	if sess.UserEmail != "user@example.com" {
		t.Errorf("unexpected session owner %q", sess.UserEmail)
	}

	auth.Logout(resp.Token)
	if _, ok := auth.Authenticate(resp.Token); ok {
		t.Errorf("expected token to be revoked after logout")
	}
}

func TestSignupValidation(t *testing.T) {
	auth, _ := newTestAuthService()
	ctx := context.Background()

	tests := []struct {
		name  string
		creds models.Credentials
		kind  utils.ErrorKind
	}{
		{"no at sign", models.Credentials{Email: "user.example.com", Password: "secret1"}, utils.KindValidation},
		{"short password", models.Credentials{Email: "user@example.com", Password: "abc"}, utils.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Signup(ctx, tt.creds)
			if kind := appErrorKind(t, err); kind != tt.kind {
				t.Errorf("expected %s, got %s", tt.kind, kind)
			}
		})
	}

	if _, err := auth.Signup(ctx, models.Credentials{Email: "dup@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	_, err := auth.Signup(ctx, models.Credentials{Email: "dup@example.com", Password: "secret2"})
	if kind := appErrorKind(t, err); kind != utils.KindConflict {
		t.Errorf("expected conflict for duplicate email, got %s", kind)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth, sessions := newTestAuthService()
	ctx := context.Background()

	if _, err := auth.Signup(ctx, models.Credentials{Email: "user@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	for _, creds := range []models.Credentials{
		{Email: "user@example.com", Password: "wrong-password"},
		{Email: "nobody@example.com", Password: "secret1"},
	} {
		_, err := auth.Login(ctx, creds)
		if kind := appErrorKind(t, err); kind != utils.KindUnauthorized {
			t.Errorf("expected unauthorized for %s, got %s", creds.Email, kind)
		}
	}

	if sessions.Len() != 0 {
		t.Errorf("expected no sessions after failed logins, got %d", sessions.Len())
	}
}
