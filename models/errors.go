package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNilOrigin is returned by the factories when the backend origin is absent.
	ErrNilOrigin = errors.New("models: nil origin")

	// ErrResolution matches every *ResolutionError.
	ErrResolution = errors.New("models: owning class resolution failed")

	// ErrUnnamedType is returned when a class node is requested for a type with no name.
	ErrUnnamedType = errors.New("models: type has no name")
)

// ResolutionError reports that the owning class of an enum value could not be derived.
type ResolutionError struct {
	Backend Backend
	Subject string // type descriptor (source) or Go type (reflection)
	Err     error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %s owning class of %s: %v", e.Backend, e.Subject, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

func (e *ResolutionError) Is(target error) bool {
	return target == ErrResolution
}
