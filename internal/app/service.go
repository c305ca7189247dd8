// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/okian/gradebook/internal/adapters/repository"
	"github.com/okian/gradebook/internal/adapters/sink"
	"github.com/okian/gradebook/internal/domain/csvimport"
	"github.com/okian/gradebook/internal/domain/grading"
	"github.com/okian/gradebook/internal/domain/model"
	"github.com/okian/gradebook/internal/domain/session"
	"github.com/okian/gradebook/internal/domain/types"
	"github.com/okian/gradebook/pkg/logger"
	"github.com/okian/gradebook/pkg/metrics"
)

const (
	defaultMaxSessions = 256
	defaultExportDir   = "exports"
)

// Service hosts grading sessions for the HTTP API.
type Service struct {
	mu sync.RWMutex

	store repository.Store
	sink  session.Sink

	maxSessions int
	exportDir   string
	sessionOpts []session.Option

	started bool
	logger  logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		maxSessions: defaultMaxSessions,
		exportDir:   defaultExportDir,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the session store and export sink.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting gradebook service...")

	if s.store == nil {
		s.store = repository.NewMemoryStore(repository.WithMaxSessions(s.maxSessions))
	}
	if s.sink == nil {
		s.sink = sink.NewDirSink(s.exportDir)
	}
	metrics.UpdateActiveSessions(0)

	s.started = true
	s.logger.Info(ctx, "gradebook service started",
		logger.Int("maxSessions", s.maxSessions),
		logger.String("exportDir", s.exportDir),
	)
	return nil
}

// Stop drops every session.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping gradebook service...")
	if s.store != nil {
		_ = s.store.Close()
		s.store = nil
	}
	metrics.UpdateActiveSessions(0)
	s.started = false
	s.logger.Info(context.Background(), "gradebook service stopped")
}

func (s *Service) sessions() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

func (s *Service) update(ctx context.Context, id string, fn func(*session.Session) error) error {
	store, err := s.sessions()
	if err != nil {
		return err
	}
	return store.Update(ctx, id, fn)
}

func (s *Service) view(ctx context.Context, id string, fn func(*session.Session) error) error {
	store, err := s.sessions()
	if err != nil {
		return err
	}
	return store.View(ctx, id, fn)
}

func sessionView(id string, sess *session.Session) types.SessionView {
	v := types.SessionView{
		ID:             id,
		Roster:         sess.Roster(),
		Rubric:         sess.Rubric(),
		Choice:         string(sess.Choice()),
		CustomImported: sess.CustomImported(),
		Graded:         sess.Evaluation().Count(),
		Summary:        sess.Summary(),
	}
	if sess.CustomImported() {
		v.CustomRubric = sess.CustomRubric()
	}
	return v
}

func gradeRow(sess *session.Session, student string) types.GradeRow {
	grade := sess.Grade(student)
	scores := sess.Scores(student)
	row := types.GradeRow{
		Student: student,
		Grade:   grade,
		Display: grading.Format(grade),
		Scores:  make(map[string]int, len(scores)),
	}
	for comp, score := range scores {
		row.Scores[comp] = int(score)
	}
	return row
}

// CreateSession opens a new, empty session.
func (s *Service) CreateSession(ctx context.Context) (types.SessionView, error) {
	store, err := s.sessions()
	if err != nil {
		return types.SessionView{}, err
	}
	sess := session.New(s.sessionOpts...)
	id, evicted, err := store.Create(ctx, sess)
	if err != nil {
		metrics.RecordErrorByComponent("service", "create_session")
		return types.SessionView{}, err
	}
	metrics.RecordSessionCreated()
	if evicted != "" {
		metrics.RecordSessionEvicted()
		s.logger.Warn(ctx, "session evicted", logger.String("session_id", evicted))
	}
	metrics.UpdateActiveSessions(store.Count(ctx))
	s.logger.Info(ctx, "session created", logger.String("session_id", id))
	return sessionView(id, sess), nil
}

// Session returns a view of the session.
func (s *Service) Session(ctx context.Context, id string) (types.SessionView, error) {
	var v types.SessionView
	err := s.view(ctx, id, func(sess *session.Session) error {
		v = sessionView(id, sess)
		return nil
	})
	return v, err
}

// DeleteSession discards the session.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	store, err := s.sessions()
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, id); err != nil {
		return err
	}
	metrics.UpdateActiveSessions(store.Count(ctx))
	s.logger.Info(ctx, "session deleted", logger.String("session_id", id))
	return nil
}

// ResetSession clears roster, custom rubric, choice and scores.
func (s *Service) ResetSession(ctx context.Context, id string) (types.SessionView, error) {
	var v types.SessionView
	err := s.update(ctx, id, func(sess *session.Session) error {
		sess.Reset()
		v = sessionView(id, sess)
		return nil
	})
	if err == nil {
		s.logger.Info(ctx, "session reset", logger.String("session_id", id))
	}
	return v, err
}

// ImportRoster replaces the roster of the session with the students in r.
func (s *Service) ImportRoster(ctx context.Context, id string, r io.Reader) (types.ImportResult, error) {
	var res types.ImportResult
	err := s.update(ctx, id, func(sess *session.Session) error {
		n, err := sess.ImportRoster(r)
		if err != nil {
			return err
		}
		res = types.ImportResult{Kind: csvimport.KindStudent.String(), Records: n, Summary: sess.Summary()}
		return nil
	})
	s.logImport(ctx, id, csvimport.KindStudent, res.Records, err)
	return res, err
}

// ImportRubric stores the competencies in r as the custom rubric.
func (s *Service) ImportRubric(ctx context.Context, id string, r io.Reader) (types.ImportResult, error) {
	var res types.ImportResult
	err := s.update(ctx, id, func(sess *session.Session) error {
		n, err := sess.ImportRubric(r)
		if err != nil {
			return err
		}
		res = types.ImportResult{Kind: csvimport.KindCompetency.String(), Records: n}
		return nil
	})
	s.logImport(ctx, id, csvimport.KindCompetency, res.Records, err)
	return res, err
}

func (s *Service) logImport(ctx context.Context, id string, kind csvimport.Kind, n int, err error) {
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, ErrNotStarted) {
		return
	}
	metrics.RecordImport(kind.String(), n, err == nil)
	if err != nil {
		metrics.RecordErrorByComponent("import", kind.String())
		s.logger.Warn(ctx, "import rejected",
			logger.String("session_id", id),
			logger.String("kind", kind.String()),
			logger.Error(err),
		)
		return
	}
	s.logger.Info(ctx, "import accepted",
		logger.String("session_id", id),
		logger.String("kind", kind.String()),
		logger.Int("records", n),
	)
}

// SelectRubric switches between the default and custom rubric.
func (s *Service) SelectRubric(ctx context.Context, id, choice string) (types.SessionView, error) {
	var v types.SessionView
	err := s.update(ctx, id, func(sess *session.Session) error {
		parsed, ok := model.ParseRubricChoice(choice)
		if !ok {
			parsed = model.RubricChoice(choice)
		}
		if err := sess.SelectRubric(parsed); err != nil {
			return err
		}
		v = sessionView(id, sess)
		return nil
	})
	return v, err
}

// RecordScore sets one score and returns the student's updated row.
func (s *Service) RecordScore(ctx context.Context, id, student, competency string, score int) (types.GradeRow, error) {
	var row types.GradeRow
	err := s.update(ctx, id, func(sess *session.Session) error {
		if err := sess.RecordScore(student, competency, model.Score(score)); err != nil {
			return err
		}
		row = gradeRow(sess, student)
		return nil
	})
	switch {
	case err == nil:
		metrics.RecordScore()
	case errors.Is(err, session.ErrInvalidScoreValue):
		metrics.RecordScoreRejected()
		s.logger.Warn(ctx, "score rejected",
			logger.String("session_id", id),
			logger.String("student", student),
			logger.String("competency", competency),
			logger.Int("score", score),
		)
	}
	return row, err
}

// Grades returns every student's row in roster order.
func (s *Service) Grades(ctx context.Context, id string) ([]types.GradeRow, error) {
	var rows []types.GradeRow
	err := s.view(ctx, id, func(sess *session.Session) error {
		roster := sess.Roster()
		rows = make([]types.GradeRow, 0, len(roster))
		for _, st := range roster {
			rows = append(rows, gradeRow(sess, st.Name))
		}
		return nil
	})
	return rows, err
}

// Student returns the row of one student of the roster.
func (s *Service) Student(ctx context.Context, id, name string) (types.GradeRow, error) {
	var row types.GradeRow
	err := s.view(ctx, id, func(sess *session.Session) error {
		if !sess.HasStudent(name) {
			return session.ErrStudentNotFound
		}
		row = gradeRow(sess, name)
		return nil
	})
	return row, err
}

// ExportCSV renders the export file without delivering it.
func (s *Service) ExportCSV(ctx context.Context, id string) (session.Artifact, error) {
	var art session.Artifact
	err := s.view(ctx, id, func(sess *session.Session) error {
		var err error
		art, err = sess.Render()
		if err == nil {
			observeGrades(sess)
		}
		return err
	})
	s.logExport(ctx, id, art.Name, len(art.Data), err)
	return art, err
}

// ExportToSink renders the export file and writes it through the sink.
func (s *Service) ExportToSink(ctx context.Context, id string) (types.ExportResult, error) {
	var res types.ExportResult
	err := s.view(ctx, id, func(sess *session.Session) error {
		cs := &countingSink{next: s.sink}
		location, err := sess.Export(ctx, cs)
		if err != nil {
			return err
		}
		observeGrades(sess)
		res = types.ExportResult{Name: cs.name, Location: location, Bytes: cs.bytes}
		return nil
	})
	s.logExport(ctx, id, res.Location, res.Bytes, err)
	return res, err
}

func observeGrades(sess *session.Session) {
	for _, st := range sess.Roster() {
		metrics.ObserveGrade(sess.Grade(st.Name))
	}
}

func (s *Service) logExport(ctx context.Context, id, target string, n int, err error) {
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, ErrNotStarted) {
		return
	}
	metrics.RecordExport(n, err == nil)
	if err != nil {
		metrics.RecordErrorByComponent("export", "render")
		if errors.Is(err, session.ErrExportSink) {
			s.logger.Error(ctx, "export sink failed", logger.String("session_id", id), logger.Error(err))
			return
		}
		s.logger.Warn(ctx, "export refused", logger.String("session_id", id), logger.Error(err))
		return
	}
	s.logger.Info(ctx, "export written",
		logger.String("session_id", id),
		logger.String("target", target),
		logger.Int("bytes", n),
	)
}

// countingSink records what passes through to the wrapped sink.
type countingSink struct {
	next  session.Sink
	name  string
	bytes int
}

func (c *countingSink) Write(ctx context.Context, name string, data []byte) (string, error) {
	c.name = name
	c.bytes = len(data)
	return c.next.Write(ctx, name, data)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"maxSessions": s.maxSessions,
		"exportDir":   s.exportDir,
	}
	if s.started {
		n := s.store.Count(context.Background())
		stats["activeSessions"] = n
		metrics.UpdateActiveSessions(n)
	}
	return stats
}
