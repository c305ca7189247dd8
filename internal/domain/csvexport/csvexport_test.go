package csvexport_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/okian/gradebook/internal/domain/csvexport"
	"github.com/okian/gradebook/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestExport(t *testing.T) {
	roster := []model.Student{{Name: "Alice"}, {Name: "Bob"}}
	rubric := []model.Competency{{Name: "Speed", Coefficient: 2}, {Name: "Accuracy", Coefficient: 1}}

	Convey("Given a partially graded roster", t, func() {
		eval := model.Evaluation{}
		eval.Set("Alice", "Speed", 4)
		eval.Set("Alice", "Accuracy", 2)

		out := csvexport.Export(roster, rubric, eval)

		Convey("Then header, grades and zero-filled scores are written", func() {
			So(out, ShouldEqual, "Nom,Note /20,Speed,Accuracy\nAlice,16.67,4,2\nBob,0.00,0,0")
		})
	})

	Convey("Given an empty roster", t, func() {
		out := csvexport.Export(nil, rubric, model.Evaluation{})

		Convey("Then only the header is written", func() {
			So(out, ShouldEqual, "Nom,Note /20,Speed,Accuracy")
		})
	})

	Convey("Given duplicate student names", t, func() {
		eval := model.Evaluation{}
		eval.Set("Alice", "Speed", 1)
		out := csvexport.Export([]model.Student{{Name: "Alice"}, {Name: "Alice"}}, rubric, eval)

		Convey("Then both rows share the name-keyed scores", func() {
			lines := strings.Split(out, "\n")
			So(lines, ShouldHaveLength, 3)
			So(lines[1], ShouldEqual, lines[2])
		})
	})
}

func TestRoundTrip(t *testing.T) {
	Convey("Given an export of a graded roster", t, func() {
		roster := []model.Student{{Name: "Zoé"}, {Name: "Alice"}, {Name: "Marc"}}
		rubric := model.DefaultCompetencies()
		eval := model.Evaluation{}
		eval.Set("Zoé", "Autonomie", 3)
		eval.Set("Alice", "Compréhension", 1)
		eval.Set("Alice", "Qualité des résultats", 4)

		sheet, err := csvexport.Read(strings.NewReader(csvexport.Export(roster, rubric, eval)))

		Convey("Then reading it back reproduces roster order and scores", func() {
			So(err, ShouldBeNil)
			So(sheet.Competencies, ShouldHaveLength, len(rubric))
			So(sheet.Rows, ShouldHaveLength, len(roster))
			for i, s := range roster {
				So(sheet.Rows[i].Name, ShouldEqual, s.Name)
				for _, c := range rubric {
					So(sheet.Rows[i].Scores[c.Name], ShouldEqual, int(eval.Scores(s.Name)[c.Name]))
				}
			}
			So(sheet.Rows[0].Grade, ShouldEqual, "3.75")
		})
	})

	Convey("Given text that is not an export", t, func() {
		_, err := csvexport.Read(strings.NewReader("Name,Grade\nAlice,1"))

		Convey("Then it is rejected", func() {
			So(errors.Is(err, csvexport.ErrMalformed), ShouldBeTrue)
		})
	})
}

func TestFileName(t *testing.T) {
	Convey("Given an export time", t, func() {
		loc := time.FixedZone("UTC+2", 2*60*60)
		ts := time.Date(2026, 10, 18, 1, 30, 0, 0, loc)

		Convey("Then the file name carries the UTC date", func() {
			So(csvexport.FileName(ts), ShouldEqual, "evaluation_2026-10-17.csv")
		})
	})
}
