package session

import (
	"time"

	"github.com/okian/gradebook/internal/domain/csvimport"
)

// Option applies a configuration option to a Session.
type Option func(*Session)

// WithRosterDelimiter sets the field separator for roster imports.
func WithRosterDelimiter(d rune) Option {
	return func(s *Session) {
		if d != 0 {
			s.rosterDelimiter = d
		}
	}
}

// WithRubricDelimiter sets the field separator for rubric imports.
func WithRubricDelimiter(d rune) Option {
	return func(s *Session) {
		if d != 0 {
			s.rubricDelimiter = d
		}
	}
}

// WithClock sets the time source used to name exports.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

func defaults(s *Session) {
	s.rosterDelimiter = csvimport.RosterDelimiter
	s.rubricDelimiter = csvimport.RubricDelimiter
	s.now = time.Now
}
