package model

// StudentScores maps a competency name to the score recorded for it.
// A missing key means the competency has not been graded yet.
type StudentScores map[string]Score

// Clone returns an independent copy.
func (s StudentScores) Clone() StudentScores {
	out := make(StudentScores, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Evaluation maps a student name to that student's recorded scores.
type Evaluation map[string]StudentScores

// Scores returns the scores recorded for student, or nil.
func (e Evaluation) Scores(student string) StudentScores {
	return e[student]
}

// Set records score for the (student, competency) pair, overwriting any prior value.
func (e Evaluation) Set(student, competency string, score Score) {
	scores, ok := e[student]
	if !ok {
		scores = make(StudentScores)
		e[student] = scores
	}
	scores[competency] = score
}

// Clone returns a deep copy.
func (e Evaluation) Clone() Evaluation {
	out := make(Evaluation, len(e))
	for name, scores := range e {
		out[name] = scores.Clone()
	}
	return out
}

// Count returns the number of graded cells.
func (e Evaluation) Count() int {
	n := 0
	for _, scores := range e {
		n += len(scores)
	}
	return n
}
