package usecase

import (
	"errors"
	"fmt"

	"user-service/internal/data/repository"
)

// Outcomes the API layer maps to HTTP statuses. Everything returned by the
// user service wraps exactly one of them.
var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrNotFound          = errors.New("user not found")
	ErrValidation        = errors.New("validation failed")
	ErrStoreUnavailable  = errors.New("user store unavailable")
	ErrPublishFailure    = errors.New("event publish failed")
)

// storeError classifies an error coming back from the repository.
func storeError(err error) error {
	switch {
	case errors.Is(err, repository.ErrUsernameTaken):
		return ErrDuplicateUsername
	case errors.Is(err, repository.ErrEmailTaken):
		return ErrDuplicateEmail
	case errors.Is(err, repository.ErrUserNotFound):
		return ErrNotFound
	default:
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
}

func publishError(err error) error {
	return fmt.Errorf("%w: %w", ErrPublishFailure, err)
}
