// Package csvimport turns delimited text into typed roster and rubric records.
//
// The first row is always a header and is discarded. Rows whose first column
// is blank are dropped. Competency rows additionally need a second column,
// whose leading number becomes the coefficient (1 when absent or unusable).
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/okian/gradebook/internal/domain/model"
)

// Kind selects the record shape produced by Parse.
type Kind int

// Record kinds.
const (
	KindStudent Kind = iota + 1
	KindCompetency
)

func (k Kind) String() string {
	switch k {
	case KindStudent:
		return "student"
	case KindCompetency:
		return "competency"
	default:
		return "unknown"
	}
}

func (k Kind) delimiter() rune {
	if k == KindCompetency {
		return RubricDelimiter
	}
	return RosterDelimiter
}

// Record is one parsed row: either a StudentRecord or a CompetencyRecord.
type Record interface {
	Kind() Kind
}

// StudentRecord is a parsed roster row.
type StudentRecord struct {
	model.Student
}

// Kind implements Record.
func (StudentRecord) Kind() Kind { return KindStudent }

// CompetencyRecord is a parsed rubric row.
type CompetencyRecord struct {
	model.Competency
}

// Kind implements Record.
func (CompetencyRecord) Kind() Kind { return KindCompetency }

// leadingNumber matches the numeric prefix of a cell ("2.5pts" -> "2.5").
var leadingNumber = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// Parse reads r and returns the records of the given kind in input order.
// It fails with ErrParseFailure when the text cannot be read or tokenized and
// with ErrEmptyResultSet when no row survives filtering.
func Parse(r io.Reader, kind Kind, opts ...Option) ([]Record, error) {
	if kind != KindStudent && kind != KindCompetency {
		return nil, fmt.Errorf("%w: unknown record kind %d", ErrParseFailure, int(kind))
	}
	o := options{delimiter: kind.delimiter()}
	for _, opt := range opts {
		opt(&o)
	}

	rows, err := tokenize(r, o.delimiter)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		rows = rows[1:]
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		name := strings.TrimSpace(row[0])
		switch kind {
		case KindStudent:
			records = append(records, StudentRecord{model.Student{Name: name}})
		case KindCompetency:
			if len(row) < 2 {
				continue
			}
			records = append(records, CompetencyRecord{model.Competency{
				Name:        name,
				Coefficient: ParseCoefficient(row[1]),
			}})
		}
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s file has no usable rows", ErrEmptyResultSet, kind)
	}
	return records, nil
}

// ParseRoster parses a roster file into students.
func ParseRoster(r io.Reader, opts ...Option) ([]model.Student, error) {
	records, err := Parse(r, KindStudent, opts...)
	if err != nil {
		return nil, err
	}
	out := make([]model.Student, 0, len(records))
	for _, rec := range records {
		if s, ok := rec.(StudentRecord); ok {
			out = append(out, s.Student)
		}
	}
	return out, nil
}

// ParseRubric parses a rubric file into competencies.
func ParseRubric(r io.Reader, opts ...Option) ([]model.Competency, error) {
	records, err := Parse(r, KindCompetency, opts...)
	if err != nil {
		return nil, err
	}
	out := make([]model.Competency, 0, len(records))
	for _, rec := range records {
		if c, ok := rec.(CompetencyRecord); ok {
			out = append(out, c.Competency)
		}
	}
	return out, nil
}

// ParseCoefficient reads the leading number of cell. Blank, non-numeric,
// non-finite or non-positive values yield model.DefaultCoefficient.
func ParseCoefficient(cell string) float64 {
	s := strings.TrimLeftFunc(cell, unicode.IsSpace)
	m := leadingNumber.FindString(s)
	if m == "" {
		return model.DefaultCoefficient
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return model.DefaultCoefficient
	}
	return v
}

// tokenize splits text into rows. Blank lines are kept as single empty-field
// rows so that row positions match the physical lines of the file.
func tokenize(r io.Reader, delimiter rune) ([][]string, error) {
	text, err := decode(r)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows [][]string
	consumed, offset := 0, int64(0) // lines and bytes fully read
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, fmt.Errorf("%w: line %d: %v", ErrParseFailure, pe.Line, pe.Err)
			}
			return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
		}
		start, _ := cr.FieldPos(0)
		for line := consumed + 1; line < start; line++ {
			rows = append(rows, []string{""})
		}
		rows = append(rows, row)
		next := cr.InputOffset()
		consumed += strings.Count(text[offset:next], "\n")
		offset = next
	}
	return rows, nil
}
