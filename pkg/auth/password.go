package auth

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	BcryptCost = 12
	// MaxPasswordLen is counted in characters.
	MaxPasswordLen = 64
	// MaxPasswordBytes is the longest input bcrypt accepts.
	MaxPasswordBytes = 72
)

var (
	// ErrPasswordMismatch is returned by ComparePassword when the password does not match.
	ErrPasswordMismatch = errors.New("password does not match")
	// ErrPasswordTooLong is returned by HashPassword for input over either length limit.
	ErrPasswordTooLong = errors.New("password too long")
)

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	if utf8.RuneCountInString(password) > MaxPasswordLen || len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// ComparePassword checks password against a bcrypt hash. A malformed hash is
// reported as a mismatch.
func ComparePassword(hashedPassword, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err != nil {
		return ErrPasswordMismatch
	}
	return nil
}
