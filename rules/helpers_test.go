package rules_test

import (
	"sort"

	"github.com/avalonia-tools/avalint/rules"
	"github.com/avalonia-tools/avalint/scanner"
	"github.com/avalonia-tools/avalint/scanner/models"
)

// parseTree builds parsed units for an in-memory source tree, in relative
// path order, the way a scan feeds them to the engine.
func parseTree(files map[string]string) ([]*models.ParsedUnit, *rules.Index) {
	rels := make([]string, 0, len(files))
	for rel := range files {
		rels = append(rels, rel)
	}
	sort.Strings(rels)

	var units []*models.ParsedUnit
	for _, rel := range rels {
		sf := models.SourceFile{
			Path:         rel,
			RelativePath: rel,
			Kind:         models.KindForPath(rel),
			Content:      files[rel],
		}
		switch sf.Kind {
		case models.KindCSharp:
			units = append(units, scanner.ParseCSharp(sf))
		case models.KindMarkup:
			units = append(units, scanner.ParseMarkup(sf))
		case models.KindProject:
			units = append(units, scanner.ParseProject(sf))
		default:
			units = append(units, &models.ParsedUnit{File: sf})
		}
	}
	return units, rules.NewIndex(units)
}

// runRule applies one rule to every unit and, where implemented, the
// project pass, returning the combined findings.
func runRule(r rules.Rule, files map[string]string) []models.Finding {
	units, idx := parseTree(files)
	var out []models.Finding
	for _, unit := range units {
		out = append(out, r.Check(unit, idx)...)
	}
	if pr, ok := r.(rules.ProjectRule); ok {
		out = append(out, pr.CheckProject(idx)...)
	}
	return out
}

// messages flattens findings to their message strings for containment checks.
func messages(findings []models.Finding) []string {
	var out []string
	for _, f := range findings {
		out = append(out, f.Message)
	}
	return out
}
