package config

import (
	"testing"

	"marketpipe/internal/storage"
)

func hasIssue(issues []Issue, sev IssueSeverity, path string) bool {
	for _, i := range issues {
		if i.Severity == sev && i.Path == path {
			return true
		}
	}
	return false
}

func TestValidateDefaultsAreClean(t *testing.T) {
	if issues := Validate(Default()); len(issues) != 0 {
		t.Fatalf("issues = %v, want none", issues)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		sev  IssueSeverity
		path string
	}{
		{
			name: "empty job",
			cfg:  Config{InputDir: "a", OutputDir: "b"},
			sev:  SeverityError, path: "job",
		},
		{
			name: "empty input dir",
			cfg:  Config{Job: "j", OutputDir: "b"},
			sev:  SeverityError, path: "input_dir",
		},
		{
			name: "same in and out",
			cfg:  Config{Job: "j", InputDir: "a", OutputDir: "a"},
			sev:  SeverityWarning, path: "output_dir",
		},
		{
			name: "mirror kind without dsn",
			cfg: Config{Job: "j", InputDir: "a", OutputDir: "b",
				Mirror: storage.Config{Kind: "sqlite"}},
			sev: SeverityError, path: "mirror.dsn",
		},
		{
			name: "unknown mirror kind",
			cfg: Config{Job: "j", InputDir: "a", OutputDir: "b",
				Mirror: storage.Config{Kind: "oracle", DSN: "x"}},
			sev: SeverityWarning, path: "mirror.kind",
		},
		{
			name: "dsn without kind",
			cfg: Config{Job: "j", InputDir: "a", OutputDir: "b",
				Mirror: storage.Config{DSN: "x"}},
			sev: SeverityWarning, path: "mirror.dsn",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			issues := Validate(c.cfg)
			if !hasIssue(issues, c.sev, c.path) {
				t.Fatalf("issues = %v, want %s at %s", issues, c.sev, c.path)
			}
		})
	}
}

func TestIssueError(t *testing.T) {
	i := Issue{Severity: SeverityError, Path: "job", Message: "m"}
	if i.Error() != "error at job: m" {
		t.Fatalf("Error() = %q", i.Error())
	}
}
