// Package session holds the state of one grading session: the roster, the
// default and custom rubrics with the current choice, and the evaluation.
//
// A Session is not safe for concurrent use; callers serialize access.
package session

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/okian/gradebook/internal/domain/csvexport"
	"github.com/okian/gradebook/internal/domain/csvimport"
	"github.com/okian/gradebook/internal/domain/grading"
	"github.com/okian/gradebook/internal/domain/model"
)

// Sink delivers an exported file and returns where it went.
type Sink interface {
	Write(ctx context.Context, name string, data []byte) (string, error)
}

// Artifact is a rendered export.
type Artifact struct {
	Name string
	Data []byte
}

// Session is the per-session application state.
type Session struct {
	roster         []model.Student
	custom         []model.Competency
	customImported bool
	choice         model.RubricChoice
	eval           model.Evaluation

	rosterDelimiter rune
	rubricDelimiter rune
	now             func() time.Time
}

// New creates an empty session using the default rubric.
func New(opts ...Option) *Session {
	s := &Session{
		choice: model.RubricDefault,
		eval:   make(model.Evaluation),
	}
	defaults(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ImportRoster replaces the roster with the students read from r. On any
// error the previous roster stays in place.
func (s *Session) ImportRoster(r io.Reader) (int, error) {
	students, err := csvimport.ParseRoster(r, csvimport.WithDelimiter(s.rosterDelimiter))
	if err != nil {
		return 0, err
	}
	s.roster = students
	return len(students), nil
}

// ImportRubric replaces the custom rubric with the competencies read from r.
// The rubric choice is left unchanged. On any error the previous custom
// rubric stays in place.
func (s *Session) ImportRubric(r io.Reader) (int, error) {
	rubric, err := csvimport.ParseRubric(r, csvimport.WithDelimiter(s.rubricDelimiter))
	if err != nil {
		return 0, err
	}
	s.custom = rubric
	s.customImported = true
	return len(rubric), nil
}

// SelectRubric switches between the default and the custom rubric. The
// imported custom set survives a switch back to default.
func (s *Session) SelectRubric(choice model.RubricChoice) error {
	switch choice {
	case model.RubricDefault, model.RubricCustom:
		s.choice = choice
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidChoice, choice)
}

// Choice returns the selected rubric kind.
func (s *Session) Choice() model.RubricChoice { return s.choice }

// CustomImported reports whether a custom rubric was imported.
func (s *Session) CustomImported() bool { return s.customImported }

// Roster returns a copy of the roster.
func (s *Session) Roster() []model.Student {
	return append([]model.Student(nil), s.roster...)
}

// CustomRubric returns a copy of the imported custom rubric.
func (s *Session) CustomRubric() []model.Competency {
	return append([]model.Competency(nil), s.custom...)
}

// Rubric returns a copy of the active rubric: the custom set when it is
// selected and imported, the default set otherwise.
func (s *Session) Rubric() []model.Competency {
	if s.choice == model.RubricCustom && s.customImported {
		return s.CustomRubric()
	}
	return model.DefaultCompetencies()
}

// RecordScore sets the score of one (student, competency) cell. Scores outside
// the 1..4 scale are rejected and leave the evaluation untouched.
func (s *Session) RecordScore(student, competency string, score model.Score) error {
	if !score.Valid() {
		return fmt.Errorf("%w: %d not in [%d,%d]", ErrInvalidScoreValue, score, model.MinScore, model.MaxScore)
	}
	if len(s.roster) == 0 {
		return ErrEmptyRoster
	}
	s.eval.Set(student, competency, score)
	return nil
}

// HasStudent reports whether name is on the roster.
func (s *Session) HasStudent(name string) bool {
	for _, st := range s.roster {
		if st.Name == name {
			return true
		}
	}
	return false
}

// Scores returns a copy of the scores recorded for student.
func (s *Session) Scores(student string) model.StudentScores {
	return s.eval.Scores(student).Clone()
}

// Evaluation returns a copy of every recorded score.
func (s *Session) Evaluation() model.Evaluation {
	return s.eval.Clone()
}

// Grade returns the grade of student against the active rubric.
func (s *Session) Grade(student string) float64 {
	return grading.ComputeGrade(s.eval.Scores(student), s.Rubric())
}

// Render produces the export file for the current state.
func (s *Session) Render() (Artifact, error) {
	if len(s.roster) == 0 {
		return Artifact{}, ErrEmptyRoster
	}
	text := csvexport.Export(s.roster, s.Rubric(), s.eval)
	return Artifact{Name: csvexport.FileName(s.now()), Data: []byte(text)}, nil
}

// Export renders the current state and hands it to sink. Export never
// mutates the session, so a failed delivery can be retried.
func (s *Session) Export(ctx context.Context, sink Sink) (string, error) {
	art, err := s.Render()
	if err != nil {
		return "", err
	}
	location, err := sink.Write(ctx, art.Name, art.Data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExportSink, err)
	}
	return location, nil
}

// Reset discards roster, custom rubric, choice and evaluation.
func (s *Session) Reset() {
	s.roster = nil
	s.custom = nil
	s.customImported = false
	s.choice = model.RubricDefault
	s.eval = make(model.Evaluation)
}

// Summary describes the roster size for display.
func (s *Session) Summary() string {
	if len(s.roster) == 0 {
		return "Aucun élève importé"
	}
	return fmt.Sprintf("%d élève(s) importé(s)", len(s.roster))
}
