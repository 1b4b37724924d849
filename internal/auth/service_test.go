package auth

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/remindd/remindd/internal/model"
	"github.com/remindd/remindd/internal/storage"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "auth-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := storage.MigrateUp(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo, err := storage.NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}

	service := NewService(repo, &PasswordHasher{cost: 4}, newTestManager(time.Hour))
	return service
}

func TestRegisterAndLogin(t *testing.T) {
	service := setupService(t)
	ctx := context.Background()

	user, err := service.Register(ctx, Credentials{Email: "A@Example.com", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == "" || user.Email != "a@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	session, err := service.Login(ctx, Credentials{Email: "a@example.com", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.Token == "" || session.UserID != user.ID {
		t.Fatalf("unexpected session: %+v", session)
	}

	verified, err := service.tokens.Verify(session.Token)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if verified != user.ID {
		t.Fatalf("token resolves to %q, want %q", verified, user.ID)
	}
}

func TestIdentifyChecksSubjectExists(t *testing.T) {
	service := setupService(t)
	ctx := context.Background()

	user, err := service.Register(ctx, Credentials{Email: "a@example.com", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	session, err := service.Login(ctx, Credentials{Email: "a@example.com", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	got, err := service.Identify(ctx, session.Token)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if got != user.ID {
		t.Fatalf("identify resolves to %q, want %q", got, user.ID)
	}

	// A well-signed token whose subject does not exist is invalid.
	ghost, err := service.tokens.Issue("ghost-user", "ghost@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := service.Identify(ctx, ghost); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for missing subject, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service := setupService(t)
	ctx := context.Background()

	if _, err := service.Register(ctx, Credentials{Email: "a@example.com", Password: "hunter2hunter2"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := service.Register(ctx, Credentials{Email: "a@example.com", Password: "hunter2hunter2"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	service := setupService(t)
	ctx := context.Background()

	if _, err := service.Register(ctx, Credentials{Email: "bad", Password: "hunter2hunter2"}); !errors.Is(err, model.ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if _, err := service.Register(ctx, Credentials{Email: "a@example.com", Password: "short"}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	service := setupService(t)
	ctx := context.Background()

	if _, err := service.Register(ctx, Credentials{Email: "a@example.com", Password: "hunter2hunter2"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Unknown email and wrong password produce the same error.
	_, unknownErr := service.Login(ctx, Credentials{Email: "nobody@example.com", Password: "hunter2hunter2"})
	_, wrongErr := service.Login(ctx, Credentials{Email: "a@example.com", Password: "wrong-password"})
	if !errors.Is(unknownErr, ErrInvalidCredentials) || !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v and %v", unknownErr, wrongErr)
	}
}
