package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/avalonia-tools/avalint/scanner/models"
)

// Misspellings that ship XAML which parses but does nothing: the typo list
// comes straight from defects seen in real Avalonia trees. Each finding
// carries a whole-line fix replacing the misspelled token, consumable by
// the fix command.
type markupTypo struct {
	substring string
	correct   string
	tokenRe   *regexp.Regexp
}

var knownTypos = []markupTypo{
	{"ColumnDefinin", "ColumnDefinitions", regexp.MustCompile(`ColumnDefinin\w*`)},
	{"RowDefinin", "RowDefinitions", regexp.MustCompile(`RowDefinin\w*`)},
	{"MultiClass", "Classes", regexp.MustCompile(`MultiClass\w*`)},
}

type ruleMarkupTypos struct{}

func NewRuleMarkupTypos() Rule { return &ruleMarkupTypos{} }

func (r *ruleMarkupTypos) ID() string { return RuleMarkupKnownTypoID }
func (r *ruleMarkupTypos) Category() models.Category { return models.CategoryFormatPattern }
func (r *ruleMarkupTypos) Description() string {
	return "Known Avalonia markup misspellings (ColumnDefinin, RowDefinin, MultiClass)"
}

func (r *ruleMarkupTypos) Check(unit *models.ParsedUnit, idx *Index) []models.Finding {
	if unit.File.Kind != models.KindMarkup {
		return nil
	}

	var findings []models.Finding
	for i, line := range unit.File.Lines() {
		for _, typo := range knownTypos {
			if !strings.Contains(line, typo.substring) {
				continue
			}
			fixed := typo.tokenRe.ReplaceAllString(line, typo.correct)
			findings = append(findings, models.Finding{
				RuleID:     r.ID(),
				Category:   r.Category(),
				Severity:   models.SeverityError,
				Path:       unit.File.RelativePath,
				Line:       i + 1,
				Message:    fmt.Sprintf("Found %q (should be %q)", typo.substring, typo.correct),
				Suggestion: fmt.Sprintf("replace with %q", typo.correct),
				Fix:        &models.LineFix{Line: i + 1, Replacement: fixed},
			})
		}
	}
	return findings
}
