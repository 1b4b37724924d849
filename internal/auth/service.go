package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/remindd/remindd/internal/model"
	"github.com/remindd/remindd/internal/storage"
)

var (
	ErrEmailTaken         = errors.New("auth: email already registered")
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	ErrWeakPassword       = errors.New("auth: password too short")
)

const minPasswordLength = 8

// Service handles registration and login. Token verification lives on
// TokenManager; this is the issuance side.
type Service struct {
	repo   storage.Repository
	hasher *PasswordHasher
	tokens *TokenManager
	now    func() time.Time
}

func NewService(repo storage.Repository, hasher *PasswordHasher, tokens *TokenManager) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		now:    time.Now,
	}
}

type Credentials struct {
	Email    string
	Password string
}

type Session struct {
	Token     string
	ExpiresIn int64
	UserID    string
	Email     string
}

func (s *Service) Register(ctx context.Context, creds Credentials) (model.User, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if !model.ValidEmail(email) {
		return model.User{}, model.ErrInvalidEmail
	}
	if len(creds.Password) < minPasswordLength {
		return model.User{}, ErrWeakPassword
	}

	hash, err := s.hasher.Hash(creds.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := user.Validate(); err != nil {
		return model.User{}, err
	}

	err = s.repo.CreateUser(ctx, storage.User{
		ID:           user.ID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	})
	if errors.Is(err, storage.ErrConflict) {
		return model.User{}, ErrEmailTaken
	}
	if err != nil {
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Identify resolves a bearer credential to a user id: the token must
// verify and its subject must still exist. A token issued before its
// account was removed stops working here.
func (s *Service) Identify(ctx context.Context, credential string) (string, error) {
	userID, err := s.tokens.Verify(credential)
	if err != nil {
		return "", err
	}
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("load user: %w", err)
	}
	return userID, nil
}

// Login verifies the password against the stored hash and issues a
// signed token. The same error covers unknown email and wrong password
// so callers learn nothing about which accounts exist.
func (s *Service) Login(ctx context.Context, creds Credentials) (Session, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	user, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("load user: %w", err)
	}
	if !s.hasher.Verify(creds.Password, user.PasswordHash) {
		return Session{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{
		Token:     token,
		ExpiresIn: s.tokens.TokenTTLSeconds(),
		UserID:    user.ID,
		Email:     user.Email,
	}, nil
}
