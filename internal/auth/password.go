// Package auth implements the single-operator login: bcrypt password
// verification and HS256 bearer tokens for the mutating API routes.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt cost bounds. Below 10 is too weak for a password that guards the
// whole API; above 14 makes login noticeably slow.
const (
	MinBcryptCost     = 10
	MaxBcryptCost     = 14
	DefaultBcryptCost = 12
)

// PasswordHasher hashes and verifies passwords with bcrypt and an optional
// global pepper.
type PasswordHasher struct {
	Cost   int
	Pepper string
}

// NewPasswordHasher validates the cost and returns a hasher. A zero cost
// selects the default.
func NewPasswordHasher(cost int, pepper string) (*PasswordHasher, error) {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	if cost < MinBcryptCost || cost > MaxBcryptCost {
		return nil, fmt.Errorf("bcrypt cost out of range: %d (must be %d-%d)", cost, MinBcryptCost, MaxBcryptCost)
	}
	return &PasswordHasher{Cost: cost, Pepper: pepper}, nil
}

// Hash hashes a password using bcrypt (with optional pepper).
func (h *PasswordHasher) Hash(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw+h.Pepper), h.Cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify checks a password against a stored hash (with optional pepper).
func (h *PasswordHasher) Verify(pw, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(pw+h.Pepper)) == nil
}
