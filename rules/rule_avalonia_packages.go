package rules

import (
	"strings"

	"github.com/avalonia-tools/avalint/scanner/models"
)

// An Avalonia project file should reference at least one Avalonia package.
type ruleAvaloniaPackages struct{}

func NewRuleAvaloniaPackages() Rule { return &ruleAvaloniaPackages{} }

func (r *ruleAvaloniaPackages) ID() string { return RuleAvaloniaPackagesMissingID }
func (r *ruleAvaloniaPackages) Category() models.Category { return models.CategoryProjectStructure }
func (r *ruleAvaloniaPackages) Description() string {
	return "Project file must reference at least one Avalonia package"
}

func (r *ruleAvaloniaPackages) Check(unit *models.ParsedUnit, idx *Index) []models.Finding {
	if unit.File.Kind != models.KindProject || unit.Degraded {
		return nil
	}
	if hasAvaloniaPackage(unit) {
		return nil
	}
	return []models.Finding{{
		RuleID:     r.ID(),
		Category:   r.Category(),
		Severity:   models.SeverityError,
		Path:       unit.File.RelativePath,
		Line:       1,
		Message:    "No Avalonia packages found in project file",
		Suggestion: `add <PackageReference Include="Avalonia" Version="11.0.7"/>`,
	}}
}

func hasAvaloniaPackage(unit *models.ParsedUnit) bool {
	for _, p := range unit.Packages {
		if strings.Contains(p.Name, "Avalonia") {
			return true
		}
	}
	return false
}
