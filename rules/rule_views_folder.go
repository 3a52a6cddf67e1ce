package rules

import (
	"strings"

	"github.com/avalonia-tools/avalint/scanner/models"
)

// Conventional Avalonia projects keep their views under Views/. Advisory
// only, and skipped for partial-tree scans.
type ruleViewsFolder struct{}

func NewRuleViewsFolder() Rule { return &ruleViewsFolder{} }

func (r *ruleViewsFolder) ID() string { return RuleViewsFolderMissingID }
func (r *ruleViewsFolder) Category() models.Category { return models.CategoryProjectStructure }
func (r *ruleViewsFolder) Description() string {
	return "Project should keep its views under a Views folder"
}

func (r *ruleViewsFolder) Check(unit *models.ParsedUnit, idx *Index) []models.Finding {
	return nil
}

func (r *ruleViewsFolder) CheckProject(idx *Index) []models.Finding {
	if !idx.LooksLikeProjectRoot() {
		return nil
	}
	for _, unit := range idx.Units() {
		if strings.HasPrefix(unit.File.RelativePath, "Views/") {
			return nil
		}
	}
	return []models.Finding{{
		RuleID:     r.ID(),
		Category:   r.Category(),
		Severity:   models.SeverityInfo,
		Path:       ".",
		Message:    "Views folder doesn't exist",
		Suggestion: "keep views under Views/ alongside ViewModels/",
	}}
}
