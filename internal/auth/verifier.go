package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("auth: invalid token")
	ErrExpiredToken = errors.New("auth: token has expired")
)

// Verifier resolves a bearer credential to a stable user identifier.
// Every authenticated operation goes through this before touching the
// store.
type Verifier interface {
	Verify(credential string) (string, error)
}

type TokenConfig struct {
	SecretKey string
	TokenTTL  time.Duration
	Issuer    string
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HMAC-signed identity tokens.
type TokenManager struct {
	config TokenConfig
}

var _ Verifier = (*TokenManager)(nil)

func NewTokenManager(config TokenConfig) *TokenManager {
	return &TokenManager{config: config}
}

func (m *TokenManager) Issue(userID, email string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.SecretKey))
}

// Verify implements Verifier. The signing method check rejects tokens
// signed with anything other than HMAC before the key is consulted.
func (m *TokenManager) Verify(credential string) (string, error) {
	token, err := jwt.ParseWithClaims(credential, &tokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(m.config.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// TokenTTLSeconds is what login responses report as expires_in.
func (m *TokenManager) TokenTTLSeconds() int64 {
	return int64(m.config.TokenTTL.Seconds())
}
