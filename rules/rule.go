package rules

import (
	"github.com/avalonia-tools/avalint/scanner/models"
)

// Rule is one independent diagnostic check over a single parsed unit. Rules
// are pure: they read the unit and the index, never mutate either, and may
// run in any order — the aggregator sorts, so ordering cannot leak into the
// report.
type Rule interface {
	ID() string
	Category() models.Category
	Description() string
	Check(unit *models.ParsedUnit, idx *Index) []models.Finding
}

// ProjectRule is the optional tree-level extension for checks that look at
// the scanned set as a whole rather than any single unit. CheckProject runs
// once per scan, after the per-unit pass.
type ProjectRule interface {
	Rule
	CheckProject(idx *Index) []models.Finding
}
