// Package config defines service configuration structures and loading hooks.
package config

import (
	"github.com/okian/gradebook/internal/domain/csvimport"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// LogFormat selects the log encoder: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// MaxSessions bounds the number of grading sessions held in memory.
	MaxSessions int `koanf:"max_sessions" validate:"gt=0"`

	// MaxUploadBytes caps CSV and JSON request bodies.
	MaxUploadBytes int64 `koanf:"max_upload_bytes" validate:"gt=0"`

	// ExportDir is where server-side exports are written.
	ExportDir string `koanf:"export_dir" validate:"required"`

	// RosterDelimiter and RubricDelimiter are the CSV field separators.
	RosterDelimiter string `koanf:"roster_delimiter" validate:"len=1"`
	RubricDelimiter string `koanf:"rubric_delimiter" validate:"len=1"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		MaxSessions:     256,
		MaxUploadBytes:  1 << 20,
		ExportDir:       "exports",
		RosterDelimiter: string(csvimport.RosterDelimiter),
		RubricDelimiter: string(csvimport.RubricDelimiter),
	}
}

// RosterRune returns the roster delimiter as a rune.
func (c *Config) RosterRune() rune { return []rune(c.RosterDelimiter)[0] }

// RubricRune returns the rubric delimiter as a rune.
func (c *Config) RubricRune() rune { return []rune(c.RubricDelimiter)[0] }
