package report

import (
	"testing"

	"github.com/avalonia-tools/avalint/scanner/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finding(cat models.Category, sev models.Severity, path string, line int, ruleID string) models.Finding {
	return models.Finding{
		RuleID:   ruleID,
		Category: cat,
		Severity: sev,
		Path:     path,
		Line:     line,
		Message:  "message for " + ruleID,
	}
}

// Test that groups come out in the fixed category order
func TestAggregate_CanonicalGroupOrder(t *testing.T) {
	findings := []models.Finding{
		finding(models.CategoryProjectStructure, models.SeverityInfo, ".", 0, "AV503"),
		finding(models.CategoryIO, models.SeverityWarning, "Assets/Logo.axaml", 0, "io/binary"),
		finding(models.CategoryStructuralMismatch, models.SeverityError, "Views/MainWindow.axaml", 4, "AV202"),
	}

	rep := Aggregate(findings, nil)

	require.Len(t, rep.Groups, 3)
	assert.Equal(t, models.CategoryIO, rep.Groups[0].Category)
	assert.Equal(t, models.CategoryStructuralMismatch, rep.Groups[1].Category)
	assert.Equal(t, models.CategoryProjectStructure, rep.Groups[2].Category)
}

// Test ordering within a group: severity rank first, then path, line, rule
func TestAggregate_SortsWithinGroup(t *testing.T) {
	cat := models.CategoryMissingReference
	in := []models.Finding{
		finding(cat, models.SeverityWarning, "Views/B.axaml", 9, "AV103"),
		finding(cat, models.SeverityWarning, "Views/A.axaml", 7, "AV101"),
		finding(cat, models.SeverityError, "Views/Z.axaml", 2, "AV102"),
		finding(cat, models.SeverityWarning, "Views/A.axaml", 3, "AV103"),
		finding(cat, models.SeverityWarning, "Views/A.axaml", 3, "AV101"),
	}

	rep := Aggregate(in, nil)

	require.Len(t, rep.Groups, 1)
	got := rep.Groups[0].Findings
	require.Len(t, got, 5)
	assert.Equal(t, "Views/Z.axaml", got[0].Path)
	assert.Equal(t, "AV101", got[1].RuleID)
	assert.Equal(t, 3, got[1].Line)
	assert.Equal(t, "AV103", got[2].RuleID)
	assert.Equal(t, 7, got[3].Line)
	assert.Equal(t, "Views/B.axaml", got[4].Path)
}

// Test that the groups concatenate back to the input multiset
func TestAggregate_PreservesMultiset(t *testing.T) {
	dup := finding(models.CategoryFormatPattern, models.SeverityError, "Services/Formatter.cs", 12, "AV301")
	in := []models.Finding{
		dup,
		dup,
		finding(models.CategoryIO, models.SeverityWarning, "Assets/Big.cs", 0, "io/oversized"),
		finding(models.CategoryFormatPattern, models.SeverityWarning, "Services/Formatter.cs", 30, "AV302"),
	}
	original := append([]models.Finding(nil), in...)

	rep := Aggregate(in, nil)

	var flat []models.Finding
	for _, g := range rep.Groups {
		flat = append(flat, g.Findings...)
	}
	assert.ElementsMatch(t, original, flat)
	assert.Equal(t, original, in)

	assert.Equal(t, 4, rep.TotalFindings())
	assert.Equal(t, 2, rep.SeverityCounts[models.SeverityError])
	assert.Equal(t, 2, rep.SeverityCounts[models.SeverityWarning])
	assert.Equal(t, 3, rep.CategoryCounts[models.CategoryFormatPattern])
	assert.Equal(t, 3, rep.FileCounts["Services/Formatter.cs"])
}

// Test that categories outside the canonical list sort after it by name
func TestAggregate_UnknownCategoriesLast(t *testing.T) {
	in := []models.Finding{
		finding(models.Category("zz-experimental"), models.SeverityInfo, "a.cs", 1, "AVX01"),
		finding(models.Category("aa-experimental"), models.SeverityInfo, "a.cs", 1, "AVX02"),
		finding(models.CategoryProjectStructure, models.SeverityInfo, ".", 0, "AV503"),
	}

	rep := Aggregate(in, nil)

	require.Len(t, rep.Groups, 3)
	assert.Equal(t, models.CategoryProjectStructure, rep.Groups[0].Category)
	assert.Equal(t, models.Category("aa-experimental"), rep.Groups[1].Category)
	assert.Equal(t, models.Category("zz-experimental"), rep.Groups[2].Category)
}

// Test that suppressed findings ride along without joining the groups
func TestAggregate_SuppressedKeptSeparate(t *testing.T) {
	sup := []models.SuppressedFinding{{
		Finding: finding(models.CategoryStructuralMismatch, models.SeverityError, "Views/Old.axaml", 2, "AV202"),
		Reason:  "legacy screen",
	}}

	rep := Aggregate([]models.Finding{
		finding(models.CategoryStructuralMismatch, models.SeverityWarning, "Views/New.axaml", 5, "AV204"),
	}, sup)

	require.Len(t, rep.Suppressed, 1)
	assert.Equal(t, "legacy screen", rep.Suppressed[0].Reason)
	assert.Equal(t, 1, rep.TotalFindings())
	assert.Equal(t, 0, rep.SeverityCounts[models.SeverityError])
	assert.Equal(t, 1, rep.CountAtOrAbove(models.SeverityWarning))
	assert.Equal(t, 0, rep.CountAtOrAbove(models.SeverityError))
}
