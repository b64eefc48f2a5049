package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks a request rejected before any store access.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound marks an unknown person, organization or opportunity.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable marks a failed or inconsistent store read.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// InvalidArgumentError names the offending request field.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Field, e.Reason)
}

// Is lets errors.Is match ErrInvalidArgument.
func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// InvalidArgument builds an InvalidArgumentError.
func InvalidArgument(field, format string, args ...any) error {
	return &InvalidArgumentError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// NotFound wraps ErrNotFound with the kind and identifier that was missing.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// StoreUnavailable wraps a driver or validation error onto ErrStoreUnavailable.
func StoreUnavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
