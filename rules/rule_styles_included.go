package rules

import (
	"fmt"
	"path"
	"strings"

	"github.com/avalonia-tools/avalint/scanner/models"
)

// A style file under Styles/ that App.axaml never includes is dead weight:
// it looks applied but isn't. Matching follows the include's resolved
// target, falling back to a name match for unresolvable sources.
type ruleStylesIncluded struct{}

func NewRuleStylesIncluded() Rule { return &ruleStylesIncluded{} }

func (r *ruleStylesIncluded) ID() string { return RuleStyleNotIncludedID }
func (r *ruleStylesIncluded) Category() models.Category { return models.CategoryRegistrationConsistency }
func (r *ruleStylesIncluded) Description() string {
	return "Style files under Styles/ should be referenced by App.axaml"
}

func (r *ruleStylesIncluded) Check(unit *models.ParsedUnit, idx *Index) []models.Finding {
	if unit.File.Kind != models.KindMarkup {
		return nil
	}
	rel := unit.File.RelativePath
	if !strings.HasPrefix(rel, "Styles/") && !strings.Contains(rel, "/Styles/") {
		return nil
	}

	app := idx.AppMarkup()
	if app == nil || app == unit {
		return nil
	}

	base := path.Base(rel)
	for _, si := range app.StyleIncludes {
		if target, ok := idx.ResolveMarkupRef(app.File.RelativePath, si.Source); ok && target == rel {
			return nil
		}
		if path.Base(si.Source) == base {
			return nil
		}
	}

	return []models.Finding{{
		RuleID:     r.ID(),
		Category:   r.Category(),
		Severity:   models.SeverityWarning,
		Path:       rel,
		Line:       1,
		Message:    fmt.Sprintf("Style file %s not referenced in App.axaml", base),
		Suggestion: fmt.Sprintf("add <StyleInclude Source=\"/%s\"/> to App.axaml or delete the file", rel),
	}}
}
