// Package model contains domain models passed between layers.
package model

import "strings"

// Bounds of the fixed grading scale.
const (
	MinScore Score = 1
	MaxScore Score = 4
)

// DefaultCoefficient is used when a rubric cell carries no usable weight.
const DefaultCoefficient = 1.0

// Score is a per-competency mark on the 1..4 scale.
type Score int

// Valid reports whether s lies on the grading scale.
func (s Score) Valid() bool {
	return s >= MinScore && s <= MaxScore
}

// Student is a roster entry. Students are identified by name; duplicates are kept.
type Student struct {
	Name string `json:"name"`
}

// Competency is a named evaluation criterion and its weight.
type Competency struct {
	Name        string  `json:"name"`
	Coefficient float64 `json:"coefficient"`
}

// DefaultCompetencies returns the built-in rubric. Callers own the returned slice.
func DefaultCompetencies() []Competency {
	return []Competency{
		{Name: "Compréhension", Coefficient: DefaultCoefficient},
		{Name: "Réalisation technique", Coefficient: DefaultCoefficient},
		{Name: "Qualité des résultats", Coefficient: DefaultCoefficient},
		{Name: "Autonomie", Coefficient: DefaultCoefficient},
	}
}

// RubricChoice selects which competency set drives grading.
type RubricChoice string

// Rubric choices.
const (
	RubricDefault RubricChoice = "default"
	RubricCustom  RubricChoice = "custom"
)

// ParseRubricChoice maps user input to a RubricChoice.
func ParseRubricChoice(s string) (RubricChoice, bool) {
	switch RubricChoice(strings.ToLower(strings.TrimSpace(s))) {
	case RubricDefault:
		return RubricDefault, true
	case RubricCustom:
		return RubricCustom, true
	}
	return "", false
}
