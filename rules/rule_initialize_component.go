package rules

import (
	"fmt"
	"strings"

	"github.com/avalonia-tools/avalint/scanner/models"
)

// A code-behind partial class that never calls InitializeComponent() (or
// loads its XAML directly through AvaloniaXamlLoader) renders an empty
// control at runtime with no compile error.
type ruleInitializeComponent struct{}

func NewRuleInitializeComponent() Rule { return &ruleInitializeComponent{} }

func (r *ruleInitializeComponent) ID() string { return RuleInitializeComponentID }
func (r *ruleInitializeComponent) Category() models.Category { return models.CategoryStructuralMismatch }
func (r *ruleInitializeComponent) Description() string {
	return "Code-behind classes must call InitializeComponent()"
}

func (r *ruleInitializeComponent) Check(unit *models.ParsedUnit, idx *Index) []models.Finding {
	if unit.File.Kind != models.KindCSharp || unit.Degraded {
		return nil
	}
	rel := unit.File.RelativePath
	if !strings.HasSuffix(rel, ".axaml.cs") && !strings.HasSuffix(rel, ".xaml.cs") {
		return nil
	}
	markupRel := strings.TrimSuffix(rel, ".cs")
	if !idx.HasFile(markupRel) {
		return nil
	}

	var partial *models.Symbol
	for _, sym := range unit.TypeSymbols() {
		if sym.Kind == models.SymbolClass && sym.Partial {
			s := sym
			partial = &s
			break
		}
	}
	if partial == nil {
		return nil
	}

	if callsNamed(unit, "InitializeComponent") || callsNamed(unit, "AvaloniaXamlLoader.Load") {
		return nil
	}

	return []models.Finding{{
		RuleID:     r.ID(),
		Category:   r.Category(),
		Severity:   models.SeverityWarning,
		Path:       rel,
		Line:       partial.Line,
		Message:    fmt.Sprintf("code-behind for %s never calls InitializeComponent()", markupRel),
		Suggestion: "call InitializeComponent() in the constructor so the XAML is loaded",
	}}
}

// callsNamed matches an invocation by exact name or dotted suffix, so
// "this.InitializeComponent()" satisfies "InitializeComponent".
func callsNamed(unit *models.ParsedUnit, name string) bool {
	for _, c := range unit.Calls {
		if c.Name == name || strings.HasSuffix(c.Name, "."+name) {
			return true
		}
	}
	return false
}
