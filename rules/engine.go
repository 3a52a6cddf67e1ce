package rules

import (
	"fmt"

	"github.com/avalonia-tools/avalint/scanner/models"
)

// Engine applies every registered rule to every parsed unit and collects the
// findings. A panicking rule is recovered, recorded as a single
// rule-internal-error finding naming the rule, and disabled for the rest of
// the run; one broken rule must never suppress the rest of the report.
type Engine struct {
	rules []Rule
}

func NewEngine(rules ...Rule) *Engine {
	return &Engine{rules: append([]Rule{}, rules...)}
}

// Run evaluates the per-unit rules over each unit, then the project-level
// rules once over the index. The returned findings are unordered; the
// aggregator sorts.
func (e *Engine) Run(units []*models.ParsedUnit, idx *Index) []models.Finding {
	var out []models.Finding
	disabled := make(map[string]bool)

	for _, unit := range units {
		if unit == nil {
			continue
		}
		for _, r := range e.rules {
			if disabled[r.ID()] {
				continue
			}
			findings, err := checkUnit(r, unit, idx)
			if err != nil {
				disabled[r.ID()] = true
				out = append(out, internalError(r, unit.File.RelativePath, err))
				continue
			}
			out = append(out, findings...)
		}
	}

	for _, r := range e.rules {
		pr, ok := r.(ProjectRule)
		if !ok || disabled[r.ID()] {
			continue
		}
		findings, err := checkProject(pr, idx)
		if err != nil {
			out = append(out, internalError(r, ".", err))
			continue
		}
		out = append(out, findings...)
	}

	return out
}

func checkUnit(r Rule, unit *models.ParsedUnit, idx *Index) (findings []models.Finding, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			findings = nil
			err = fmt.Errorf("rule %s panicked: %v", r.ID(), rec)
		}
	}()
	return r.Check(unit, idx), nil
}

func checkProject(r ProjectRule, idx *Index) (findings []models.Finding, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			findings = nil
			err = fmt.Errorf("rule %s panicked: %v", r.ID(), rec)
		}
	}()
	return r.CheckProject(idx), nil
}

func internalError(r Rule, relPath string, err error) models.Finding {
	return models.Finding{
		RuleID:   r.ID(),
		Category: models.CategoryRuleInternalError,
		Severity: models.SeverityError,
		Path:     relPath,
		Message:  err.Error(),
	}
}
