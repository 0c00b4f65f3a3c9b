package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt cost used for all stored credentials.
const DefaultCost = bcrypt.DefaultCost

// maxLength is bcrypt's hard input limit in bytes.
const maxLength = 72

var ErrInvalidPassword = errors.New("invalid password")

// Hash derives a bcrypt hash from the plain-text password.
func Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}

	if len(password) > maxLength {
		return "", fmt.Errorf("password exceeds %d bytes", maxLength)
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(bytes), nil
}

// Verify reports whether the plain-text password matches the stored hash.
// A mismatch yields ErrInvalidPassword so callers can map it to a 4xx.
func Verify(password, hash string) error {
	if password == "" || hash == "" {
		return ErrInvalidPassword
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPassword
		}

		return fmt.Errorf("failed to verify password: %w", err)
	}

	return nil
}
