package smoke

import (
	"fmt"
	"os"

	"github.com/okian/gradebook/pkg/logger"
)

// SetupLogging initializes the logger for a smoke run.
func SetupLogging(verbose bool) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the smoke tool.
func ShowHelp() {
	os.Stdout.WriteString(`Gradebook Session Smoke Tool
============================

Runs a full grading session against a gradebook service: imports a generated
roster and rubric, records random scores concurrently, downloads the export
and checks that it reproduces every recorded score and grade.

Usage:
  go run ./cmd/session-smoke [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -students int
        Number of students in the roster (default 30)
  -competencies int
        Number of competencies in the custom rubric; 0 uses the default rubric (default 5)
  -workers int
        Number of concurrent score writers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        File the export is saved to (default: the name announced by the service)
  -verbose
        Enable debug logging
  -help
        Show this help message

Examples:
  go run ./cmd/session-smoke -students 200 -competencies 8
  go run ./cmd/session-smoke -url http://localhost:8080 -verbose
`)
}
