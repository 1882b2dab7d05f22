package session

import (
	"errors"
	"fmt"
)

// ErrInvalidCredential is returned for an empty or rejected API key.
var ErrInvalidCredential = errors.New("invalid API key")

// InvalidCredentialError reports that the model client could not be
// initialized with a key. It matches ErrInvalidCredential with errors.Is.
type InvalidCredentialError struct {
	Err error
}

func (e *InvalidCredentialError) Error() string {
	return fmt.Sprintf("%v: %v", ErrInvalidCredential, e.Err)
}

func (e *InvalidCredentialError) Unwrap() error { return e.Err }

func (e *InvalidCredentialError) Is(target error) bool {
	return target == ErrInvalidCredential
}
