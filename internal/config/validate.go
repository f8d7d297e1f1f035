// This file adds a lightweight linter/validator for Config values. It
// performs static checks over a decoded Config and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding for a Config.
//
// Path is a dotted path into the config (e.g. "mirror.kind"). Message is
// human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Validate performs static validation of a Config. It does not mutate the
// config; it returns a slice of Issue values. Callers decide whether to treat
// warnings as fatal.
func Validate(c Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(c.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}
	if strings.TrimSpace(c.InputDir) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "input_dir",
			Message:  "input_dir must not be empty",
		})
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "output_dir",
			Message:  "output_dir must not be empty",
		})
	}
	if c.InputDir != "" && c.InputDir == c.OutputDir {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "output_dir",
			Message:  "output_dir equals input_dir; result files will sit next to the extracts",
		})
	}

	issues = append(issues, validateMirror(c)...)
	return issues
}

func validateMirror(c Config) []Issue {
	var issues []Issue
	kind := strings.TrimSpace(c.Mirror.Kind)
	if kind == "" {
		if strings.TrimSpace(c.Mirror.DSN) != "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "mirror.dsn",
				Message:  "mirror.dsn is set but mirror.kind is empty; mirroring is disabled",
			})
		}
		return issues
	}

	known := map[string]struct{}{
		"sqlite":   {},
		"postgres": {},
	}
	if _, ok := known[kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "mirror.kind",
			Message:  fmt.Sprintf("unknown mirror kind %q; ensure a matching backend is registered", kind),
		})
	}
	if strings.TrimSpace(c.Mirror.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "mirror.dsn",
			Message:  "mirror.dsn must not be empty when mirror.kind is set",
		})
	}
	return issues
}
