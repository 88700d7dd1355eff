package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"resume-automation/internal/config"
)

// ErrInvalidCredentials is returned for any login failure. The caller must
// not learn whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Service authenticates the single configured operator.
type Service struct {
	email        string
	passwordHash string
	hasher       *PasswordHasher
	tokens       *TokenService
}

// NewService builds the auth service from configuration. All of email,
// password hash and JWT secret are required.
func NewService(cfg config.AuthConfig) (*Service, error) {
	if cfg.Email == "" {
		return nil, fmt.Errorf("auth: operator email is required")
	}
	if cfg.PasswordHash == "" {
		return nil, fmt.Errorf("auth: operator password hash is required")
	}

	hasher, err := NewPasswordHasher(0, "")
	if err != nil {
		return nil, err
	}
	tokens, err := NewTokenService(cfg.JWTSecret, cfg.ExpirationHours)
	if err != nil {
		return nil, err
	}

	return &Service{
		email:        cfg.Email,
		passwordHash: cfg.PasswordHash,
		hasher:       hasher,
		tokens:       tokens,
	}, nil
}

// Login verifies the credentials and issues a bearer token.
func (s *Service) Login(email, password string) (string, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.email)) == 1
	// Verify the password even on an email mismatch so both failure paths
	// take comparable time.
	passwordOK := s.hasher.Verify(password, s.passwordHash)
	if !emailOK || !passwordOK {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Generate(s.email)
}

// Authenticate validates a bearer token and returns its claims.
func (s *Service) Authenticate(token string) (*Claims, error) {
	return s.tokens.Validate(token)
}
