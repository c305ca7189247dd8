// Package csvexport renders roster grades as comma separated text and reads it back.
package csvexport

import (
	"strconv"
	"strings"
	"time"

	"github.com/okian/gradebook/internal/domain/grading"
	"github.com/okian/gradebook/internal/domain/model"
)

// Fixed export layout.
const (
	Separator   = ","
	HeaderName  = "Nom"
	HeaderGrade = "Note /20"
	ContentType = "text/csv; charset=utf-8"
	filePrefix  = "evaluation_"
	fileSuffix  = ".csv"
	dateLayout  = "2006-01-02"
)

// Export renders one header row and one row per student in roster order.
// Ungraded competencies are written as 0. Fields are not quoted; names are
// assumed not to contain the separator.
func Export(roster []model.Student, rubric []model.Competency, eval model.Evaluation) string {
	var b strings.Builder

	header := make([]string, 0, len(rubric)+2)
	header = append(header, HeaderName, HeaderGrade)
	for _, c := range rubric {
		header = append(header, c.Name)
	}
	b.WriteString(strings.Join(header, Separator))

	row := make([]string, 0, len(rubric)+2)
	for _, s := range roster {
		scores := eval.Scores(s.Name)
		row = row[:0]
		row = append(row, s.Name, grading.Format(grading.ComputeGrade(scores, rubric)))
		for _, c := range rubric {
			row = append(row, strconv.Itoa(int(scores[c.Name])))
		}
		b.WriteByte('\n')
		b.WriteString(strings.Join(row, Separator))
	}
	return b.String()
}

// FileName returns the export file name for the UTC calendar day of t.
func FileName(t time.Time) string {
	return filePrefix + t.UTC().Format(dateLayout) + fileSuffix
}
