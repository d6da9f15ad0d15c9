package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrAARNotFound     = fmt.Errorf("%w: aar", ErrNotFound)
	ErrMissionNotFound = fmt.Errorf("%w: mission", ErrNotFound)

	// Validation errors
	ErrInvalidPattern = errors.New("unsupported geometry pattern")
	ErrInvalidRecord  = errors.New("record is not a valid tree")

	// Invariant errors
	ErrPhiInvariant   = errors.New("golden ratio invariant violated")
	ErrNotInitialized = errors.New("engine not initialized")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewPatternError(name string) error {
	return fmt.Errorf("%w: %q", ErrInvalidPattern, name)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvariantError(err error) bool {
	return errors.Is(err, ErrPhiInvariant)
}
