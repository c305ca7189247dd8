package smoke

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/gradebook/internal/domain/model"
	"github.com/okian/gradebook/pkg/logger"
)

// Run executes a complete grading session against the service.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}
	client := NewClient(config.BaseURL, config.Timeout)

	logger.Get().Info(ctx, "starting gradebook smoke run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("students", config.Students),
		logger.Int("competencies", config.Competencies),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Bool("verbose", config.Verbose))

	// Step 1: Check service health
	if err := client.Health(ctx); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate the roster, rubric and scores
	plan := Generate(config.Students, config.Competencies)
	logger.Get().Info(ctx, "plan generated",
		logger.String("runID", plan.RunID),
		logger.Int("scores", len(plan.Scores)))

	// Step 3: Open a session
	id, err := client.CreateSession(ctx)
	if err != nil {
		return fmt.Errorf("session creation failed: %w", err)
	}
	defer func() {
		if err := client.DeleteSession(context.WithoutCancel(ctx), id); err != nil {
			logger.Get().Warn(ctx, "failed to delete session", logger.String("session_id", id), logger.Error(err))
		}
	}()

	// Step 4: Import roster and rubric, then select the rubric
	if err := importPlan(ctx, client, id, plan); err != nil {
		return err
	}

	// Step 5: Submit scores concurrently
	submitScores(ctx, config, client, id, plan.Scores, stats)
	if stats.ScoresFailed > 0 {
		return fmt.Errorf("%d of %d score submissions failed", stats.ScoresFailed, stats.ScoresSubmitted)
	}

	// Step 6: Download and verify the export
	data, name, err := client.Export(ctx, id)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	stats.ExportBytes = len(data)
	if err := Verify(plan, data); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}
	logger.Get().Info(ctx, "export verified", logger.String("file", name))

	// Step 7: Save export to file
	if err := saveExport(ctx, config, name, data); err != nil {
		logger.Get().Warn(ctx, "failed to save export", logger.Error(err))
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	logger.Get().Info(ctx, "smoke run completed successfully")
	return nil
}

func importPlan(ctx context.Context, client *Client, id string, plan Plan) error {
	res, err := client.Import(ctx, id, "roster", plan.RosterCSV())
	if err != nil {
		return fmt.Errorf("roster import failed: %w", err)
	}
	if res.Records != len(plan.Roster) {
		return fmt.Errorf("roster import kept %d students, want %d", res.Records, len(plan.Roster))
	}

	choice := model.RubricDefault
	if plan.Custom {
		res, err = client.Import(ctx, id, "rubric", plan.RubricCSV())
		if err != nil {
			return fmt.Errorf("rubric import failed: %w", err)
		}
		if res.Records != len(plan.Rubric) {
			return fmt.Errorf("rubric import kept %d competencies, want %d", res.Records, len(plan.Rubric))
		}
		choice = model.RubricCustom
	}
	if err := client.SelectRubric(ctx, id, string(choice)); err != nil {
		return fmt.Errorf("rubric selection failed: %w", err)
	}
	logger.Get().Info(ctx, "session prepared",
		logger.String("session_id", id),
		logger.String("choice", string(choice)))
	return nil
}

// saveExport writes the downloaded export next to the caller.
func saveExport(ctx context.Context, config *Config, name string, data []byte) error {
	filename := config.OutputFile
	if filename == "" {
		filename = name
	}
	if filename == "" {
		return fmt.Errorf("no output file name")
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	logger.Get().Info(ctx, "export saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(stats *Stats) {
	var successRate, scoresPerSecond float64
	if stats.ScoresSubmitted > 0 {
		successRate = float64(stats.ScoresSuccessful) / float64(stats.ScoresSubmitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		scoresPerSecond = float64(stats.ScoresSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("scoresSubmitted", stats.ScoresSubmitted),
		logger.Int("scoresSuccessful", stats.ScoresSuccessful),
		logger.Int("scoresFailed", stats.ScoresFailed),
		logger.Int("exportBytes", stats.ExportBytes),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("scoresPerSecond", scoresPerSecond))
}
