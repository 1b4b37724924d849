package model

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidEmail = errors.New("model: invalid email")

type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

func (u User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return errors.New("model: user id is required")
	}
	if !ValidEmail(u.Email) {
		return ErrInvalidEmail
	}
	if u.PasswordHash == "" {
		return errors.New("model: user password_hash is required")
	}
	if u.CreatedAt.IsZero() {
		return errors.New("model: user created_at is required")
	}
	return nil
}

// ValidEmail applies the minimal shape check the service needs; real
// verification happens when mail is actually sent, which this system
// never does.
func ValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return !strings.ContainsAny(email, " \t")
}
