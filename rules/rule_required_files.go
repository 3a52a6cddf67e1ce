package rules

import (
	"fmt"
	"strings"

	"github.com/avalonia-tools/avalint/scanner/models"
)

// An Avalonia application root needs a project file, App.axaml and
// App.axaml.cs; when App.axaml exists its root element must be
// Application. Runs only when the scan root looks like a project root, so
// partial-tree scans stay quiet.
type ruleRequiredFiles struct{}

func NewRuleRequiredFiles() Rule { return &ruleRequiredFiles{} }

func (r *ruleRequiredFiles) ID() string { return RuleRequiredFileMissingID }
func (r *ruleRequiredFiles) Category() models.Category { return models.CategoryProjectStructure }
func (r *ruleRequiredFiles) Description() string {
	return "Project root must contain a .csproj, App.axaml and App.axaml.cs"
}

func (r *ruleRequiredFiles) Check(unit *models.ParsedUnit, idx *Index) []models.Finding {
	return nil
}

func (r *ruleRequiredFiles) CheckProject(idx *Index) []models.Finding {
	if !idx.LooksLikeProjectRoot() {
		return nil
	}

	var findings []models.Finding
	missing := func(pattern string) {
		findings = append(findings, models.Finding{
			RuleID:     r.ID(),
			Category:   r.Category(),
			Severity:   models.SeverityError,
			Path:       ".",
			Message:    fmt.Sprintf("Missing required file: %s", pattern),
			Suggestion: "create the file at the project root",
		})
	}

	if idx.RootProject() == nil {
		missing("*.csproj")
	}
	if !idx.HasFile("App.axaml") {
		missing("App.axaml")
	}
	if !idx.HasFile("App.axaml.cs") {
		missing("App.axaml.cs")
	}

	if app := idx.UnitAt("App.axaml"); app != nil {
		if root := rootElement(app); root != nil && elementBaseName(root.Name) != "Application" {
			findings = append(findings, models.Finding{
				RuleID:     r.ID(),
				Category:   r.Category(),
				Severity:   models.SeverityError,
				Path:       "App.axaml",
				Line:       root.Line,
				Message:    "App.axaml doesn't contain Application root element",
				Suggestion: "the root element of App.axaml must be <Application>",
			})
		}
	}

	return findings
}

func rootElement(unit *models.ParsedUnit) *models.Element {
	for i := range unit.Elements {
		if unit.Elements[i].Depth == 0 {
			return &unit.Elements[i]
		}
	}
	return nil
}

// elementBaseName strips a namespace prefix from a markup element name.
func elementBaseName(name string) string {
	if idx := strings.LastIndexByte(name, ':'); idx >= 0 {
		return name[idx+1:]
	}
	return name
}
