package smoke

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/gradebook/internal/domain/csvimport"
	"github.com/okian/gradebook/internal/domain/model"
)

// randomInt returns a uniform integer in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:nameIDLength]
}

// Generate builds a roster, a rubric and a random score plan. Each cell is
// graded at most once and some are left ungraded. A non-positive
// competencies count keeps the default rubric.
func Generate(students, competencies int) Plan {
	p := Plan{
		RunID:    uuid.NewString(),
		Expected: make(model.Evaluation),
	}
	for i := 0; i < students; i++ {
		p.Roster = append(p.Roster, model.Student{Name: fmt.Sprintf("Eleve %03d %s", i+1, shortID())})
	}
	for i := 0; i < competencies; i++ {
		p.Rubric = append(p.Rubric, model.Competency{
			Name:        fmt.Sprintf("Competence %02d", i+1),
			Coefficient: float64(1 + randomInt(maxCoefficient)),
		})
	}
	p.Custom = len(p.Rubric) > 0
	if !p.Custom {
		p.Rubric = model.DefaultCompetencies()
	}

	for _, st := range p.Roster {
		for _, c := range p.Rubric {
			if randomInt(PercentageMultiplier) >= gradedPercent {
				continue
			}
			score := int(model.MinScore) + randomInt(int(model.MaxScore))
			p.Scores = append(p.Scores, ScoreEntry{Student: st.Name, Competency: c.Name, Score: score})
			p.Expected.Set(st.Name, c.Name, model.Score(score))
		}
	}
	return p
}

// RosterCSV renders the roster as an importable file.
func (p Plan) RosterCSV() string {
	sep := string(csvimport.RosterDelimiter)
	var b strings.Builder
	b.WriteString("Nom" + sep + "Classe\n")
	for _, st := range p.Roster {
		b.WriteString(st.Name + sep + "smoke\n")
	}
	return b.String()
}

// RubricCSV renders the rubric as an importable file.
func (p Plan) RubricCSV() string {
	sep := string(csvimport.RubricDelimiter)
	var b strings.Builder
	b.WriteString("Compétence" + sep + "Coefficient\n")
	for _, c := range p.Rubric {
		b.WriteString(c.Name + sep + strconv.FormatFloat(c.Coefficient, 'f', -1, 64) + "\n")
	}
	return b.String()
}
