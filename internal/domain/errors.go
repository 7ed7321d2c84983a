package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument signals a rejected query parameter.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNoGroupKey signals an entity without an orthology group key.
	ErrNoGroupKey = errors.New("entity has no group key")
	// ErrUnknownNamespace signals an unsupported group key namespace.
	ErrUnknownNamespace = errors.New("unknown group namespace")
	// ErrCorruptDocument signals a stored document that violates the data model.
	ErrCorruptDocument = errors.New("corrupt document")
)

// NotFoundError wraps ErrNotFound with the kind and key that were looked up.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Kind, e.Key, ErrNotFound.Error())
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFound creates a not found error for the given kind and key.
func NewNotFound(kind, key string) error {
	return &NotFoundError{Kind: kind, Key: key}
}

// InvalidArgument wraps ErrInvalidArgument with a formatted reason.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
