package service

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateEmail is returned when registering with an email that is already taken.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrUserNotFound indicates that the referenced user does not exist.
	ErrUserNotFound = errors.New("user does not exist")
	// ErrInvalidCredentials indicates that the supplied password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccessDenied is returned when a protected request carries no token.
	ErrAccessDenied = errors.New("access denied")
	// ErrInvalidToken is returned when a token fails verification for any reason.
	ErrInvalidToken = errors.New("invalid token")
	// ErrPostNotFound indicates that the referenced post does not exist.
	ErrPostNotFound = errors.New("post not found")
	// ErrPersistence wraps store failures that are not otherwise classified.
	ErrPersistence = errors.New("persistence failure")
	// ErrFeedReload is returned by CreatePost when the post was stored but the
	// feed could not be read back.
	ErrFeedReload = errors.New("post stored, feed unavailable")
	// ErrValidation is returned for malformed input.
	ErrValidation = errors.New("validation failed")
)

func persistenceError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

// ValidationError builds an error matching ErrValidation with a readable reason.
func ValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
