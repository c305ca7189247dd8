package session

import "errors"

// Sentinel kinds for session errors.
var (
	ErrInvalidScoreValue = errors.New("invalid score value")
	ErrInvalidChoice     = errors.New("invalid rubric choice")
	ErrEmptyRoster       = errors.New("roster is empty")
	ErrExportSink        = errors.New("export sink failed")
	ErrStudentNotFound   = errors.New("student not in roster")
)
