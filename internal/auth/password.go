package auth

import (
	"errors"
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/anikasharma/meraki/internal/apperror"
)

// defaultCost is the bcrypt work factor, roughly 250ms per hash on current
// server hardware. Tune so a hash stays in the 200-300ms range.
const defaultCost = 12

// PasswordService provides bcrypt hashing and verification. It's a struct so
// tests can inject a low cost and skip the 250ms-per-hash overhead.
type PasswordService struct {
	cost int
}

func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest creates a PasswordService with a reduced cost.
// Do not use in production.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// CheckStrength enforces the signup password rules: at least 8 characters
// with an uppercase letter, a lowercase letter, and a digit. Returns a
// validation error naming the first unmet rule.
func CheckStrength(plaintext string) error {
	if len(plaintext) < 8 {
		return apperror.ValidationFailed("password", "password must be at least 8 characters")
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range plaintext {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	switch {
	case !hasUpper:
		return apperror.ValidationFailed("password", "password must contain an uppercase letter")
	case !hasLower:
		return apperror.ValidationFailed("password", "password must contain a lowercase letter")
	case !hasDigit:
		return apperror.ValidationFailed("password", "password must contain a digit")
	}

	return nil
}

// Hash hashes a plaintext password with bcrypt. The output embeds salt and
// cost, so it's stored as-is and verified without extra columns.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		// bcrypt silently truncates beyond 72 bytes; reject instead.
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks a plaintext password against a stored hash. Returns nil on
// match. The comparison is constant-time inside bcrypt.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("auth: invalid password")
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
