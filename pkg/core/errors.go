package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrInvalidField is returned when a field is not readable on the items
	// being filtered or ordered. Its message is part of the public contract.
	ErrInvalidField = errors.New("Property not defined.")
	// ErrOutOfRange is returned by Get for an index outside [0, Count()).
	ErrOutOfRange = errors.New("index out of range")
	// ErrInvalidDirection is returned by ParseDirection.
	ErrInvalidDirection = errors.New("invalid sort direction")
)

// FieldError reports which operation probed a missing field.
// Error() yields the ErrInvalidField message unchanged so callers can match on it.
type FieldError struct {
	Op    string
	Field string
}

func (e *FieldError) Error() string { return ErrInvalidField.Error() }

func (e *FieldError) Unwrap() error { return ErrInvalidField }

// IndexError carries the offending index.
type IndexError struct {
	Index int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: %d (count %d)", ErrOutOfRange, e.Index, e.Count)
}

func (e *IndexError) Unwrap() error { return ErrOutOfRange }
