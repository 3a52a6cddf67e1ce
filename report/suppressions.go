package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/avalonia-tools/avalint/scanner/models"
	"gopkg.in/yaml.v3"
)

// SuppressionsFileName is the repo-local suppressions file read from the
// scan root.
const SuppressionsFileName = "avalint-suppressions.yml"

// Suppression is one entry of the suppressions file. Rule matches a rule ID
// exactly, with "" or "*" matching every rule. Path is a glob against the
// finding's relative path (same semantics as .avalint-ignore patterns: full
// path, base name, or a trailing-slash directory prefix). Reason is carried
// into the report so suppressed findings stay accounted for.
type Suppression struct {
	Rule   string `yaml:"rule"`
	Path   string `yaml:"path"`
	Reason string `yaml:"reason"`
}

type suppressionsFile struct {
	Suppressions []Suppression `yaml:"suppressions"`
}

// LoadSuppressions reads the suppressions file under root. A missing file
// yields an empty list, not an error.
func LoadSuppressions(root string) ([]Suppression, error) {
	path := filepath.Join(root, SuppressionsFileName)
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", SuppressionsFileName, err)
	}

	var parsed suppressionsFile
	if err := yaml.Unmarshal(content, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", SuppressionsFileName, err)
	}
	return parsed.Suppressions, nil
}

// ApplySuppressions splits findings into kept and suppressed. The first
// matching entry wins; unmatched findings pass through unchanged.
func ApplySuppressions(findings []models.Finding, entries []Suppression) ([]models.Finding, []models.SuppressedFinding) {
	if len(entries) == 0 {
		return findings, nil
	}

	var kept []models.Finding
	var suppressed []models.SuppressedFinding
	for _, f := range findings {
		matched := false
		for _, entry := range entries {
			if entry.matches(f) {
				suppressed = append(suppressed, models.SuppressedFinding{Finding: f, Reason: entry.Reason})
				matched = true
				break
			}
		}
		if !matched {
			kept = append(kept, f)
		}
	}
	return kept, suppressed
}

func (s Suppression) matches(f models.Finding) bool {
	if s.Rule != "" && s.Rule != "*" && s.Rule != f.RuleID {
		return false
	}
	if s.Path == "" {
		return true
	}
	if ok, _ := filepath.Match(s.Path, f.Path); ok {
		return true
	}
	if ok, _ := filepath.Match(s.Path, filepath.Base(f.Path)); ok {
		return true
	}
	return strings.HasSuffix(s.Path, "/") && strings.HasPrefix(f.Path, s.Path)
}
