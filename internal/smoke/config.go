// Package smoke drives a running gradebook service through a full grading
// session and checks that the exported file matches what was recorded.
package smoke

import (
	"time"

	"github.com/okian/gradebook/internal/domain/model"
)

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL      string        // Base URL of the service
	Students     int           // Number of students in the generated roster
	Competencies int           // Number of competencies in the generated rubric
	Workers      int           // Number of concurrent score writers
	Timeout      time.Duration // HTTP request timeout
	OutputFile   string        // Where the downloaded export is saved
	Verbose      bool          // Enable debug logging
}

// Plan is the generated input of a run.
type Plan struct {
	RunID    string
	Roster   []model.Student
	Rubric   []model.Competency
	Custom   bool // Rubric is imported rather than the default set
	Scores   []ScoreEntry
	Expected model.Evaluation
}

// ScoreEntry is one score submission.
type ScoreEntry struct {
	Student    string `json:"student"`
	Competency string `json:"competency"`
	Score      int    `json:"score"`
}

// Stats holds run statistics.
type Stats struct {
	ScoresSubmitted  int
	ScoresSuccessful int
	ScoresFailed     int
	ExportBytes      int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
