package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/mail"
)

// Password length bounds. bcrypt ignores input beyond 72 bytes.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
	MaxIdentityLength = 100
)

// ValidatePassword checks a plaintext password's length.
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return ErrEmptyPassword
	case len(password) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(password) > MaxPasswordLength:
		return ErrPasswordTooLong
	}
	return nil
}

func validateIdentity(identity string) error {
	if identity == "" {
		return ErrEmptyIdentity
	}
	if len(identity) > MaxIdentityLength {
		return ErrIdentityTooLong
	}
	return nil
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}

// GenerateHash returns a random 64 character hex token used for activation
// and password reset links.
func GenerateHash() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate hash: %w", err)
	}
	return hex.EncodeToString(b), nil
}
