package csvimport

import "errors"

// Sentinel kinds for import errors.
var (
	// ErrParseFailure reports input that could not be read or tokenized.
	ErrParseFailure = errors.New("parse failed")
	// ErrEmptyResultSet reports input where no row survived filtering.
	ErrEmptyResultSet = errors.New("no valid records")
)
