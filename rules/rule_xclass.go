package rules

import (
	"fmt"
	"path"
	"strings"

	"github.com/avalonia-tools/avalint/scanner/models"
)

// x:Class should match the namespace the file's location implies: the
// project root namespace (RootNamespace property, falling back to the
// project file stem) plus the folder path plus the file stem. Without a
// project file in the set only the class-name tail is checked.
type ruleXClass struct{}

func NewRuleXClass() Rule { return &ruleXClass{} }

func (r *ruleXClass) ID() string { return RuleXClassMismatchID }
func (r *ruleXClass) Category() models.Category { return models.CategoryFormatPattern }
func (r *ruleXClass) Description() string {
	return "x:Class must match the file's location and name"
}

func (r *ruleXClass) Check(unit *models.ParsedUnit, idx *Index) []models.Finding {
	if unit.File.Kind != models.KindMarkup || unit.XClass == "" {
		return nil
	}

	stem := markupStem(unit.File.RelativePath)
	project := idx.ProjectFor(unit.File.RelativePath)
	rootNS := RootNamespaceOf(project)

	if rootNS == "" {
		if TypeName(unit.XClass) == stem {
			return nil
		}
		return []models.Finding{r.mismatch(unit, stem)}
	}

	expected := expectedClassName(rootNS, project.File.RelativePath, unit.File.RelativePath, stem)
	if unit.XClass == expected {
		return nil
	}
	return []models.Finding{r.mismatch(unit, expected)}
}

func (r *ruleXClass) mismatch(unit *models.ParsedUnit, expected string) models.Finding {
	line := 1
	for _, elem := range unit.Elements {
		if elem.Depth == 0 {
			line = elem.Line
			break
		}
	}
	return models.Finding{
		RuleID:   r.ID(),
		Category: r.Category(),
		Severity: models.SeverityWarning,
		Path:     unit.File.RelativePath,
		Line:     line,
		Message: fmt.Sprintf("x:Class %q might not match file location (expected %q)",
			unit.XClass, expected),
		Suggestion: "rename the class or move the file so the two agree",
	}
}

// expectedClassName builds the conventional full class name for a markup
// file: root namespace, then each folder between the project file and the
// markup file, then the file stem.
func expectedClassName(rootNS, projectRel, markupRel, stem string) string {
	projDir := path.Dir(projectRel)
	rel := markupRel
	if projDir != "." {
		rel = strings.TrimPrefix(markupRel, projDir+"/")
	}

	parts := []string{rootNS}
	if dir := path.Dir(rel); dir != "." {
		parts = append(parts, strings.Split(dir, "/")...)
	}
	parts = append(parts, stem)
	return strings.Join(parts, ".")
}
