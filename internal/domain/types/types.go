// Package types contains read shapes handed to outer layers.
package types

import "github.com/okian/gradebook/internal/domain/model"

// SessionView summarizes a session.
type SessionView struct {
	ID             string             `json:"id"`
	Roster         []model.Student    `json:"roster"`
	Rubric         []model.Competency `json:"rubric"`
	CustomRubric   []model.Competency `json:"custom_rubric,omitempty"`
	Choice         string             `json:"choice"`
	CustomImported bool               `json:"custom_imported"`
	Graded         int                `json:"graded"`
	Summary        string             `json:"summary"`
}

// ImportResult reports a successful import.
type ImportResult struct {
	Kind    string `json:"kind"`
	Records int    `json:"records"`
	Summary string `json:"summary,omitempty"`
}

// GradeRow is one student's grade and recorded scores. Ungraded competencies
// are absent from Scores.
type GradeRow struct {
	Student string         `json:"student"`
	Grade   float64        `json:"grade"`
	Display string         `json:"display"`
	Scores  map[string]int `json:"scores"`
}

// ExportResult reports a file handed to the export sink.
type ExportResult struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Bytes    int    `json:"bytes"`
}
