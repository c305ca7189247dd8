package smoke

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/okian/gradebook/internal/domain/csvexport"
	"github.com/okian/gradebook/internal/domain/grading"
)

// ErrMismatch reports an export that does not reproduce the plan.
var ErrMismatch = errors.New("export does not match recorded scores")

// Verify checks the export against the plan: students in roster order,
// every recorded score reproduced, ungraded cells as 0, and grades equal to
// a local recomputation.
func Verify(plan Plan, export []byte) error {
	sheet, err := csvexport.Read(bytes.NewReader(export))
	if err != nil {
		return err
	}

	if len(sheet.Competencies) != len(plan.Rubric) {
		return fmt.Errorf("%w: %d competencies, want %d", ErrMismatch, len(sheet.Competencies), len(plan.Rubric))
	}
	for i, c := range plan.Rubric {
		if sheet.Competencies[i] != c.Name {
			return fmt.Errorf("%w: column %d is %q, want %q", ErrMismatch, i, sheet.Competencies[i], c.Name)
		}
	}

	if len(sheet.Rows) != len(plan.Roster) {
		return fmt.Errorf("%w: %d rows, want %d", ErrMismatch, len(sheet.Rows), len(plan.Roster))
	}
	for i, st := range plan.Roster {
		row := sheet.Rows[i]
		if row.Name != st.Name {
			return fmt.Errorf("%w: row %d is %q, want %q", ErrMismatch, i, row.Name, st.Name)
		}
		want := plan.Expected.Scores(st.Name)
		for _, c := range plan.Rubric {
			if got, exp := row.Scores[c.Name], int(want[c.Name]); got != exp {
				return fmt.Errorf("%w: %s/%s is %d, want %d", ErrMismatch, st.Name, c.Name, got, exp)
			}
		}
		if exp := grading.Format(grading.ComputeGrade(want, plan.Rubric)); row.Grade != exp {
			return fmt.Errorf("%w: grade of %s is %s, want %s", ErrMismatch, st.Name, row.Grade, exp)
		}
	}
	return nil
}
