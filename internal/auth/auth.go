// Package auth implements the shared-password login gate.
package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrNotConfigured means no shared password is set, so nobody can log in.
	ErrNotConfigured = errors.New("application password is not configured")

	// ErrIncorrectPassword means the entered password did not match.
	ErrIncorrectPassword = errors.New("incorrect password")
)

// CheckPassword reports whether input exactly equals configured.
func CheckPassword(input, configured string) bool {
	return subtle.ConstantTimeCompare([]byte(input), []byte(configured)) == 1
}

// Gate checks login attempts against the configured shared password.
// Attempts are unlimited.
type Gate struct {
	password string
	hash     []byte
}

// NewGate returns a gate for a plain password. An empty password leaves the
// gate unconfigured.
func NewGate(password string) *Gate {
	return &Gate{password: password}
}

// NewHashedGate returns a gate that checks attempts against a bcrypt hash.
func NewHashedGate(hash string) *Gate {
	return &Gate{hash: []byte(hash)}
}

// Configured reports whether a password or hash is set.
func (g *Gate) Configured() bool {
	return g.password != "" || len(g.hash) > 0
}

// Login checks input. It returns ErrNotConfigured when there is nothing to
// check against and ErrIncorrectPassword on a mismatch.
func (g *Gate) Login(input string) error {
	if !g.Configured() {
		return ErrNotConfigured
	}

	if len(g.hash) > 0 {
		if bcrypt.CompareHashAndPassword(g.hash, []byte(input)) != nil {
			return ErrIncorrectPassword
		}
		return nil
	}

	if !CheckPassword(input, g.password) {
		return ErrIncorrectPassword
	}
	return nil
}

// Message renders a Login error as the text shown on the login screen.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotConfigured):
		return "Application password is not configured. Set the APP_PASSWORD environment variable."
	case errors.Is(err, ErrIncorrectPassword):
		return "Incorrect password. Please try again."
	default:
		return err.Error()
	}
}
