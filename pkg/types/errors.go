package types

import "errors"

// Domain errors shared across the pipeline
var (
	ErrUnsafeSymbolID = errors.New("symbol id contains section marker syntax")
	ErrEmptyContent   = errors.New("content cannot be empty")
	ErrNotFound       = errors.New("not found")
)
