package csvimport_test

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/okian/gradebook/internal/domain/csvimport"
	"github.com/okian/gradebook/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseRoster(t *testing.T) {
	Convey("Given a roster file with a header and two students", t, func() {
		students, err := csvimport.ParseRoster(strings.NewReader("Name\nAlice\nBob\n"))

		Convey("Then the header is dropped and order is kept", func() {
			So(err, ShouldBeNil)
			So(students, ShouldResemble, []model.Student{{Name: "Alice"}, {Name: "Bob"}})
		})
	})

	Convey("Given a roster whose header looks like a student", t, func() {
		students, err := csvimport.ParseRoster(strings.NewReader("Alice\nBob"))

		Convey("Then the first row is still discarded", func() {
			So(err, ShouldBeNil)
			So(students, ShouldResemble, []model.Student{{Name: "Bob"}})
		})
	})

	Convey("Given a roster that starts with a blank line", t, func() {
		students, err := csvimport.ParseRoster(strings.NewReader("\nNom\nAlice\n"))

		Convey("Then the blank line is the discarded header", func() {
			So(err, ShouldBeNil)
			So(students, ShouldResemble, []model.Student{{Name: "Nom"}, {Name: "Alice"}})
		})
	})

	Convey("Given a quoted name spanning two lines before blank lines", t, func() {
		students, err := csvimport.ParseRoster(strings.NewReader("Nom\n\"Paul\nMartin\"\n\n\nZoé\n"))

		Convey("Then line counting stays aligned and blank rows are filtered", func() {
			So(err, ShouldBeNil)
			So(students, ShouldResemble, []model.Student{{Name: "Paul\nMartin"}, {Name: "Zoé"}})
		})
	})

	Convey("Given rows with padding, extra columns and blank names", t, func() {
		input := "\ufeffNom\r\nÉlodie\r\nZoé\r\n"
		students, err := csvimport.ParseRoster(strings.NewReader(input))

		Convey("Then the BOM and carriage returns are ignored", func() {
			So(err, ShouldBeNil)
			So(students, ShouldResemble, []model.Student{{Name: "Élodie"}, {Name: "Zoé"}})
		})
	})

	Convey("Given a roster with quoted names", t, func() {
		students, err := csvimport.ParseRoster(strings.NewReader("Nom\n\"Martin, Paul\"\n"))

		Convey("Then the quoted field stays whole", func() {
			So(err, ShouldBeNil)
			So(students, ShouldResemble, []model.Student{{Name: "Martin, Paul"}})
		})
	})

	Convey("Given a roster with only a header", t, func() {
		_, err := csvimport.ParseRoster(strings.NewReader("Nom\n\n  \n"))

		Convey("Then an empty result set is reported", func() {
			So(errors.Is(err, csvimport.ErrEmptyResultSet), ShouldBeTrue)
			So(errors.Is(err, csvimport.ErrParseFailure), ShouldBeFalse)
		})
	})

	Convey("Given an empty input", t, func() {
		_, err := csvimport.ParseRoster(strings.NewReader(""))

		Convey("Then an empty result set is reported", func() {
			So(errors.Is(err, csvimport.ErrEmptyResultSet), ShouldBeTrue)
		})
	})

	Convey("Given a reader that fails", t, func() {
		_, err := csvimport.ParseRoster(iotest.ErrReader(errors.New("disk gone")))

		Convey("Then a parse failure is reported", func() {
			So(errors.Is(err, csvimport.ErrParseFailure), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "disk gone")
		})
	})

	Convey("Given bytes that are not UTF-8 text", t, func() {
		_, err := csvimport.ParseRoster(strings.NewReader("Nom\nAl\xc3\x28ice\n"))

		Convey("Then a parse failure is reported", func() {
			So(errors.Is(err, csvimport.ErrParseFailure), ShouldBeTrue)
		})
	})
}

func TestParseRubric(t *testing.T) {
	Convey("Given a rubric with a blank coefficient", t, func() {
		rubric, err := csvimport.ParseRubric(strings.NewReader("Comp;Coef\nSpeed;2\nAccuracy;\n"))

		Convey("Then the blank coefficient falls back to 1", func() {
			So(err, ShouldBeNil)
			So(rubric, ShouldResemble, []model.Competency{
				{Name: "Speed", Coefficient: 2},
				{Name: "Accuracy", Coefficient: 1},
			})
		})
	})

	Convey("Given rows with a single column", t, func() {
		rubric, err := csvimport.ParseRubric(strings.NewReader("Comp;Coef\nLonely\nPaired;3\n"))

		Convey("Then rows without a coefficient column are dropped", func() {
			So(err, ShouldBeNil)
			So(rubric, ShouldResemble, []model.Competency{{Name: "Paired", Coefficient: 3}})
		})
	})

	Convey("Given a rubric with only invalid rows", t, func() {
		_, err := csvimport.ParseRubric(strings.NewReader("Comp;Coef\nNoCoef\n ;2\n"))

		Convey("Then an empty result set is reported", func() {
			So(errors.Is(err, csvimport.ErrEmptyResultSet), ShouldBeTrue)
		})
	})

	Convey("Given a comma separated rubric parsed with the default delimiter", t, func() {
		_, err := csvimport.ParseRubric(strings.NewReader("Comp,Coef\nSpeed,2\n"))

		Convey("Then every row has a single column and is dropped", func() {
			So(errors.Is(err, csvimport.ErrEmptyResultSet), ShouldBeTrue)
		})

		Convey("And an explicit delimiter parses it", func() {
			rubric, err := csvimport.ParseRubric(strings.NewReader("Comp,Coef\nSpeed,2\n"), csvimport.WithDelimiter(','))
			So(err, ShouldBeNil)
			So(rubric, ShouldResemble, []model.Competency{{Name: "Speed", Coefficient: 2}})
		})
	})

	Convey("Given coefficients of every shape", t, func() {
		input := strings.Join([]string{
			"Comp;Coef",
			"A;2.5",
			"B;abc",
			"C;0",
			"D;-3",
			"E;1,5",
			"F; 4pts",
			"G;.5",
			"H;1e999",
		}, "\n")
		rubric, err := csvimport.ParseRubric(strings.NewReader(input))

		Convey("Then each coefficient is the parsed positive number or exactly 1", func() {
			So(err, ShouldBeNil)
			got := map[string]float64{}
			for _, c := range rubric {
				got[c.Name] = c.Coefficient
				So(c.Coefficient, ShouldBeGreaterThan, 0)
			}
			So(got["A"], ShouldEqual, 2.5)
			So(got["B"], ShouldEqual, 1)
			So(got["C"], ShouldEqual, 1)
			So(got["D"], ShouldEqual, 1)
			So(got["E"], ShouldEqual, 1)
			So(got["F"], ShouldEqual, 4)
			So(got["G"], ShouldEqual, 0.5)
			So(got["H"], ShouldEqual, 1)
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Given the single typed parse entry point", t, func() {
		Convey("When parsing competencies", func() {
			records, err := csvimport.Parse(strings.NewReader("h;h\nSpeed;2\n"), csvimport.KindCompetency)

			Convey("Then competency records are produced", func() {
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 1)
				So(records[0].Kind(), ShouldEqual, csvimport.KindCompetency)
				rec, ok := records[0].(csvimport.CompetencyRecord)
				So(ok, ShouldBeTrue)
				So(rec.Name, ShouldEqual, "Speed")
			})
		})

		Convey("When parsing students", func() {
			records, err := csvimport.Parse(strings.NewReader("h\nAlice\n"), csvimport.KindStudent)

			Convey("Then student records are produced", func() {
				So(err, ShouldBeNil)
				So(records[0].Kind(), ShouldEqual, csvimport.KindStudent)
				So(records[0].Kind().String(), ShouldEqual, "student")
			})
		})

		Convey("When the kind is unknown", func() {
			_, err := csvimport.Parse(strings.NewReader("h\nAlice\n"), csvimport.Kind(9))

			Convey("Then a parse failure is reported", func() {
				So(errors.Is(err, csvimport.ErrParseFailure), ShouldBeTrue)
			})
		})
	})
}
