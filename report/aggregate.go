package report

import (
	"sort"

	"github.com/avalonia-tools/avalint/scanner/models"
)

// categoryOrder fixes the group order of every report: infrastructure
// categories first, then domain categories. Rendering and JSON output both
// inherit this order.
var categoryOrder = []models.Category{
	models.CategoryIO,
	models.CategoryMalformedMarkup,
	models.CategoryParseDegraded,
	models.CategoryRuleInternalError,
	models.CategoryMissingReference,
	models.CategoryStructuralMismatch,
	models.CategoryFormatPattern,
	models.CategoryRegistrationConsistency,
	models.CategoryProjectStructure,
}

// Aggregate builds a deterministic Report from an unordered finding stream.
// Findings are grouped by category and sorted within each group; the
// concatenation of the groups equals the input multiset, with suppressed
// findings counted separately. Pure: the input slices are not modified and
// no other state is consulted, so engine execution order can never leak
// into the Report.
func Aggregate(findings []models.Finding, suppressed []models.SuppressedFinding) *models.Report {
	byCategory := make(map[models.Category][]models.Finding)
	for _, f := range findings {
		byCategory[f.Category] = append(byCategory[f.Category], f)
	}

	report := &models.Report{
		SeverityCounts: make(map[models.Severity]int),
		CategoryCounts: make(map[models.Category]int),
		FileCounts:     make(map[string]int),
		Suppressed:     suppressed,
	}

	for _, cat := range categoryOrder {
		group, ok := byCategory[cat]
		if !ok {
			continue
		}
		sortFindings(group)
		report.Groups = append(report.Groups, models.Group{Category: cat, Findings: group})
		delete(byCategory, cat)
	}

	// Categories outside the canonical list (none today) still come out in a
	// stable order rather than map order.
	var rest []models.Category
	for cat := range byCategory {
		rest = append(rest, cat)
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	for _, cat := range rest {
		group := byCategory[cat]
		sortFindings(group)
		report.Groups = append(report.Groups, models.Group{Category: cat, Findings: group})
	}

	for _, g := range report.Groups {
		for _, f := range g.Findings {
			report.SeverityCounts[f.Severity]++
			report.CategoryCounts[f.Category]++
			report.FileCounts[f.Path]++
		}
	}
	return report
}

// sortFindings orders one group: worst severity first, then path, line,
// rule ID and finally message so identical positions stay stable.
func sortFindings(findings []models.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() > b.Severity.Rank()
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}
		return a.Message < b.Message
	})
}
