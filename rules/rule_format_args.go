package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/avalonia-tools/avalint/scanner/models"
)

var placeholderIndexRe = regexp.MustCompile(`\{(\d+)`)

// string.Format with a placeholder index at or past the supplied argument
// count throws FormatException at runtime; nothing catches it at compile
// time.
type ruleFormatArgs struct{}

func NewRuleFormatArgs() Rule { return &ruleFormatArgs{} }

func (r *ruleFormatArgs) ID() string { return RuleFormatArgsMismatchID }
func (r *ruleFormatArgs) Category() models.Category { return models.CategoryFormatPattern }
func (r *ruleFormatArgs) Description() string {
	return "string.Format placeholder indexes must stay below the argument count"
}

func (r *ruleFormatArgs) Check(unit *models.ParsedUnit, idx *Index) []models.Finding {
	if unit.File.Kind != models.KindCSharp {
		return nil
	}

	var findings []models.Finding
	for _, call := range unit.FormatCalls {
		max, ok := maxPlaceholderIndex(call.Format)
		if !ok || max < call.ArgCount {
			continue
		}
		findings = append(findings, models.Finding{
			RuleID:   r.ID(),
			Category: r.Category(),
			Severity: models.SeverityError,
			Path:     unit.File.RelativePath,
			Line:     call.Line,
			Message: fmt.Sprintf("format string uses placeholder {%d} but only %d argument(s) are supplied",
				max, call.ArgCount),
			Suggestion: "supply the missing arguments or renumber the placeholders",
		})
	}
	return findings
}

// maxPlaceholderIndex returns the highest {n} index in a format string,
// ignoring escaped {{ braces.
func maxPlaceholderIndex(format string) (int, bool) {
	cleaned := strings.ReplaceAll(format, "{{", "")
	max, found := 0, false
	for _, m := range placeholderIndexRe.FindAllStringSubmatch(cleaned, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if !found || n > max {
			max, found = n, true
		}
	}
	return max, found
}
