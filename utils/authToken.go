package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/o1egl/paseto"
)

const TokenType = "bearer"

var (
	ErrInvalidToken      = errors.New("invalid or expired token")
	ErrInsufficientRole  = errors.New("insufficient permissions")
	ErrInvalidSigningKey = errors.New("token symmetric key must be 32 bytes long")
)

// TokenClaims is the payload sealed into every access token.
type TokenClaims struct {
	UserID   string    `json:"sub"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	TokenID  string    `json:"jti"`
	IssuedAt time.Time `json:"iat"`
	Expiry   time.Time `json:"exp"`
}

// TokenMaker issues and verifies PASETO v2 local tokens with one symmetric key.
type TokenMaker struct {
	key    []byte
	ttl    time.Duration
	paseto *paseto.V2
	now    func() time.Time
}

func NewTokenMaker(key string, ttl time.Duration) (*TokenMaker, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidSigningKey, len(key))
	}
	if ttl <= 0 {
		return nil, errors.New("token lifetime must be positive")
	}
	return &TokenMaker{key: []byte(key), ttl: ttl, paseto: paseto.NewV2(), now: time.Now}, nil
}

func (m *TokenMaker) TTL() time.Duration {
	return m.ttl
}

// IssueToken seals the identity of a user into a new token.
func (m *TokenMaker) IssueToken(userID, email, name, role string) (string, *TokenClaims, error) {
	issued := m.now().UTC()
	claims := &TokenClaims{
		UserID:   userID,
		Email:    email,
		Name:     name,
		Role:     role,
		TokenID:  uuid.NewString(),
		IssuedAt: issued,
		Expiry:   issued.Add(m.ttl),
	}
	token, err := m.paseto.Encrypt(m.key, claims, nil)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, claims, nil
}

// VerifyToken opens a token and checks its expiry. Tampered, foreign and
// expired tokens all fail with ErrInvalidToken.
func (m *TokenMaker) VerifyToken(token string) (*TokenClaims, error) {
	var claims TokenClaims
	if err := m.paseto.Decrypt(token, m.key, &claims, nil); err != nil {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" || !m.now().Before(claims.Expiry) {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// RequireRole checks for an exact role match; roles have no hierarchy.
func RequireRole(claims *TokenClaims, role string) error {
	if claims == nil || claims.Role != role {
		return ErrInsufficientRole
	}
	return nil
}
