package rules

import (
	"fmt"

	"github.com/avalonia-tools/avalint/scanner/models"
)

// StackPanel in Avalonia 11 has no ColumnGap, RowGap or Padding. These carry
// over from other XAML dialects and silently do nothing (or fail to
// compile), so flag each occurrence with the supported replacement.
type ruleStackPanelProps struct{}

func NewRuleStackPanelProps() Rule { return &ruleStackPanelProps{} }

func (r *ruleStackPanelProps) ID() string { return RuleStackPanelUnsupportedID }
func (r *ruleStackPanelProps) Category() models.Category { return models.CategoryStructuralMismatch }
func (r *ruleStackPanelProps) Description() string {
	return "StackPanel does not support ColumnGap, RowGap or Padding in Avalonia 11"
}

func (r *ruleStackPanelProps) Check(unit *models.ParsedUnit, idx *Index) []models.Finding {
	if unit.File.Kind != models.KindMarkup {
		return nil
	}

	var findings []models.Finding
	for _, elem := range unit.Elements {
		if elem.Name != "StackPanel" {
			continue
		}
		for _, attr := range elem.Attrs {
			switch attr.Name {
			case "Padding":
				findings = append(findings, models.Finding{
					RuleID:     r.ID(),
					Category:   r.Category(),
					Severity:   models.SeverityError,
					Path:       unit.File.RelativePath,
					Line:       attr.Line,
					Message:    "StackPanel doesn't support Padding (use Border instead)",
					Suggestion: "wrap the StackPanel in a Border and set Padding there",
				})
			case "ColumnGap", "RowGap":
				findings = append(findings, models.Finding{
					RuleID:     r.ID(),
					Category:   r.Category(),
					Severity:   models.SeverityError,
					Path:       unit.File.RelativePath,
					Line:       attr.Line,
					Message:    fmt.Sprintf("%s not supported in Avalonia 11 (use Margin instead)", attr.Name),
					Suggestion: "use Spacing on the StackPanel or Margin on its children",
				})
			}
		}
	}
	return findings
}
