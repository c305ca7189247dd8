package service

import (
	"time"

	"github.com/okian/gradebook/internal/adapters/repository"
	"github.com/okian/gradebook/internal/domain/session"
	"github.com/okian/gradebook/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxSessions bounds the number of live sessions.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithExportDir sets the directory used by the default export sink.
func WithExportDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.exportDir = dir
		}
	}
}

// WithSink replaces the export sink.
func WithSink(sink session.Sink) Option {
	return func(s *Service) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithDelimiters sets the roster and rubric CSV delimiters of new sessions.
func WithDelimiters(roster, rubric rune) Option {
	return func(s *Service) {
		s.sessionOpts = append(s.sessionOpts,
			session.WithRosterDelimiter(roster),
			session.WithRubricDelimiter(rubric),
		)
	}
}

// WithClock sets the time source used to date exports.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.sessionOpts = append(s.sessionOpts, session.WithClock(now))
		}
	}
}

// WithStore replaces the session store. The service closes it on Stop.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}
