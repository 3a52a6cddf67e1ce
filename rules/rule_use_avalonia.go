package rules

import (
	"github.com/avalonia-tools/avalint/scanner/models"
)

// Build pipelines in this shop key Avalonia packaging steps off a
// UseAvalonia property in the project file. Only checked when the project
// actually references Avalonia packages.
type ruleUseAvalonia struct{}

func NewRuleUseAvalonia() Rule { return &ruleUseAvalonia{} }

func (r *ruleUseAvalonia) ID() string { return RuleUseAvaloniaFlagID }
func (r *ruleUseAvalonia) Category() models.Category { return models.CategoryProjectStructure }
func (r *ruleUseAvalonia) Description() string {
	return "Avalonia project file should set <UseAvalonia>true</UseAvalonia>"
}

func (r *ruleUseAvalonia) Check(unit *models.ParsedUnit, idx *Index) []models.Finding {
	if unit.File.Kind != models.KindProject || unit.Degraded {
		return nil
	}
	if !hasAvaloniaPackage(unit) {
		return nil
	}

	value, ok := unit.Properties["UseAvalonia"]
	if !ok {
		return []models.Finding{{
			RuleID:     r.ID(),
			Category:   r.Category(),
			Severity:   models.SeverityWarning,
			Path:       unit.File.RelativePath,
			Line:       1,
			Message:    "UseAvalonia property not found in project file",
			Suggestion: "add <UseAvalonia>true</UseAvalonia> to a PropertyGroup",
		}}
	}
	if value != "true" {
		return []models.Finding{{
			RuleID:     r.ID(),
			Category:   r.Category(),
			Severity:   models.SeverityError,
			Path:       unit.File.RelativePath,
			Line:       1,
			Message:    "UseAvalonia property is not set to true",
			Suggestion: "set <UseAvalonia>true</UseAvalonia>",
		}}
	}
	return nil
}
