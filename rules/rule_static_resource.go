package rules

import (
	"fmt"
	"strings"

	"github.com/avalonia-tools/avalint/scanner/models"
)

// Well-known resource key prefixes supplied by theme packages rather than
// project markup.
var themeKeyPrefixes = []string{"Theme", "System", "Fluent", "Material"}

// {StaticResource Key} must resolve to an x:Key declared somewhere in the
// scanned markup set. Dynamic references are skipped: they resolve at
// runtime and may legitimately come from anywhere.
type ruleStaticResource struct{}

func NewRuleStaticResource() Rule { return &ruleStaticResource{} }

func (r *ruleStaticResource) ID() string { return RuleStaticResourceUnknownID }
func (r *ruleStaticResource) Category() models.Category { return models.CategoryMissingReference }
func (r *ruleStaticResource) Description() string {
	return "StaticResource keys must be declared with x:Key in the scanned markup"
}

func (r *ruleStaticResource) Check(unit *models.ParsedUnit, idx *Index) []models.Finding {
	if unit.File.Kind != models.KindMarkup {
		return nil
	}

	var findings []models.Finding
	for _, ref := range unit.ResourceRefs {
		if ref.Dynamic || ref.Key == "" {
			continue
		}
		if isThemeKey(ref.Key) || idx.HasResourceKey(ref.Key) {
			continue
		}
		findings = append(findings, models.Finding{
			RuleID:     r.ID(),
			Category:   r.Category(),
			Severity:   models.SeverityWarning,
			Path:       unit.File.RelativePath,
			Line:       ref.Line,
			Message:    fmt.Sprintf("StaticResource %q is not declared with x:Key in the scanned markup", ref.Key),
			Suggestion: "declare the resource or use DynamicResource for theme-provided keys",
		})
	}
	return findings
}

func isThemeKey(key string) bool {
	for _, prefix := range themeKeyPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}
