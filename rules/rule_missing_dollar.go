package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/avalonia-tools/avalint/scanner/models"
)

var identPlaceholderRe = regexp.MustCompile(`\{([A-Za-z_]\w*)\}`)

// A non-interpolated literal containing {Identifier} almost always meant to
// be interpolated: the braces ship to the user verbatim. Literals with path
// separators are skipped — route templates and URI patterns carry the same
// shape legitimately.
type ruleMissingInterpolation struct{}

func NewRuleMissingInterpolation() Rule { return &ruleMissingInterpolation{} }

func (r *ruleMissingInterpolation) ID() string { return RuleMissingInterpolationID }
func (r *ruleMissingInterpolation) Category() models.Category { return models.CategoryFormatPattern }
func (r *ruleMissingInterpolation) Description() string {
	return "Literals with {Identifier} placeholders are probably missing the $ prefix"
}

func (r *ruleMissingInterpolation) Check(unit *models.ParsedUnit, idx *Index) []models.Finding {
	if unit.File.Kind != models.KindCSharp {
		return nil
	}

	var findings []models.Finding
	for _, lit := range unit.StringLiterals {
		if lit.Interpolated {
			continue
		}
		if strings.ContainsAny(lit.Value, "/\\") || strings.Contains(lit.Value, "{{") {
			continue
		}
		m := identPlaceholderRe.FindStringSubmatch(lit.Value)
		if m == nil {
			continue
		}
		findings = append(findings, models.Finding{
			RuleID:   r.ID(),
			Category: r.Category(),
			Severity: models.SeverityWarning,
			Path:     unit.File.RelativePath,
			Line:     lit.Line,
			Message: fmt.Sprintf("string literal contains {%s} but is not interpolated (missing '$' prefix?)",
				m[1]),
			Suggestion: "prefix the literal with $ or escape the braces",
		})
	}
	return findings
}
