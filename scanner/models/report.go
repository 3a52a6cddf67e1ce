package models

import "time"

// Group is one report section: all findings of a single category, already
// ordered by severity rank, path, line, rule id.
type Group struct {
	Category Category  `json:"category"`
	Findings []Finding `json:"findings"`
}

// SuppressedFinding records a finding excluded by a suppression entry.
type SuppressedFinding struct {
	Finding Finding `json:"finding"`
	Reason  string  `json:"reason"`
}

// Report is the deterministic output of one scan. Groups follow the fixed
// category order; two scans of an identical tree differ only in RunID,
// StartedAt and DurationMS.
type Report struct {
	RunID        string    `json:"run_id"`
	Root         string    `json:"root"`
	GitCommit    string    `json:"git_commit,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	DurationMS   int64     `json:"duration_ms"`
	FilesScanned int       `json:"files_scanned"`

	Groups []Group `json:"groups"`

	SeverityCounts map[Severity]int    `json:"severity_counts"`
	CategoryCounts map[Category]int    `json:"category_counts"`
	FileCounts     map[string]int      `json:"file_counts"`
	Suppressed     []SuppressedFinding `json:"suppressed,omitempty"`
}

// TotalFindings is the number of findings across all groups.
func (r *Report) TotalFindings() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Findings)
	}
	return n
}

// CountAtOrAbove returns how many findings have severity rank >= min.
func (r *Report) CountAtOrAbove(min Severity) int {
	n := 0
	for _, g := range r.Groups {
		for _, f := range g.Findings {
			if f.Severity.Rank() >= min.Rank() {
				n++
			}
		}
	}
	return n
}
