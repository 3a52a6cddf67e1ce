package rules

import (
	"fmt"
	"strings"

	"github.com/avalonia-tools/avalint/scanner/models"
)

// StyleInclude sources must resolve to a file in the scanned set. avares://
// references into assemblies outside the scanned projects (theme packages)
// are skipped: their resources are not on disk here.
type ruleStyleInclude struct{}

func NewRuleStyleInclude() Rule { return &ruleStyleInclude{} }

func (r *ruleStyleInclude) ID() string { return RuleStyleIncludeMissingID }
func (r *ruleStyleInclude) Category() models.Category { return models.CategoryMissingReference }
func (r *ruleStyleInclude) Description() string {
	return "StyleInclude sources must point at a style file that exists"
}

func (r *ruleStyleInclude) Check(unit *models.ParsedUnit, idx *Index) []models.Finding {
	if unit.File.Kind != models.KindMarkup {
		return nil
	}

	var findings []models.Finding
	for _, si := range unit.StyleIncludes {
		if assembly, external := avaresAssembly(si.Source); external && !idx.KnownAssembly(assembly) {
			continue
		}
		if strings.Contains(si.Source, "://") && !strings.HasPrefix(si.Source, "avares://") {
			continue
		}
		if _, ok := idx.ResolveMarkupRef(unit.File.RelativePath, si.Source); ok {
			continue
		}
		findings = append(findings, models.Finding{
			RuleID:     r.ID(),
			Category:   r.Category(),
			Severity:   models.SeverityError,
			Path:       unit.File.RelativePath,
			Line:       si.Line,
			Message:    fmt.Sprintf("StyleInclude references missing style: %s", si.Source),
			Suggestion: "create the style file or correct the Source path",
		})
	}
	return findings
}

// avaresAssembly extracts the authority of an avares:// URI.
func avaresAssembly(source string) (string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(source), "avares://")
	if !ok {
		return "", false
	}
	if slash := strings.IndexByte(rest, '/'); slash >= 0 {
		rest = rest[:slash]
	}
	return rest, true
}
