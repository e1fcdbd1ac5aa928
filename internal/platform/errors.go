package platform

import "errors"

// Common errors.
var (
	ErrInvalidQuery = errors.New("invalid query")
	ErrNotFound     = errors.New("query file not found")
)
