// Package grading computes normalized grades from recorded competency scores.
package grading

import (
	"math"
	"math/big"

	"github.com/okian/gradebook/internal/domain/model"
)

// Scale is the top of the normalized grade range.
const Scale = 20.0

// ComputeGrade returns the weighted grade of scores against rubric on a 0..Scale range.
//
// An ungraded competency counts as 0 in the weighted sum while its weight stays
// in the maximum, so partial evaluations are penalized rather than averaged.
// An empty or weightless rubric yields 0.
func ComputeGrade(scores model.StudentScores, rubric []model.Competency) float64 {
	weighted, maxPossible := weightedSums(scores, rubric, 1)
	if math.IsInf(maxPossible, 0) {
		// Huge coefficients overflow the sums; the ratio survives scaling
		// every weight by the largest one.
		weighted, maxPossible = weightedSums(scores, rubric, largestCoefficient(rubric))
	}
	if maxPossible == 0 || math.IsNaN(maxPossible) {
		return 0
	}
	grade := weighted / maxPossible * Scale
	switch {
	case math.IsNaN(grade), grade < 0:
		return 0
	case grade > Scale:
		return Scale
	}
	return grade
}

func weightedSums(scores model.StudentScores, rubric []model.Competency, divisor float64) (weighted, maxPossible float64) {
	for _, c := range rubric {
		w := c.Coefficient / divisor
		weighted += float64(scores[c.Name]) * w
		maxPossible += float64(model.MaxScore) * w
	}
	return weighted, maxPossible
}

func largestCoefficient(rubric []model.Competency) float64 {
	largest := 0.0
	for _, c := range rubric {
		largest = math.Max(largest, math.Abs(c.Coefficient))
	}
	if largest == 0 || math.IsInf(largest, 0) || math.IsNaN(largest) {
		return 1
	}
	return largest
}

// Format renders grade with exactly two decimals, rounding halves away from
// zero on the exact binary value.
func Format(grade float64) string {
	r := new(big.Rat)
	if r.SetFloat64(grade) == nil {
		return "0.00"
	}
	return r.FloatString(2)
}
