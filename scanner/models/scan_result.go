package models

// ScanResult bundles the aggregated report with the parsed units that
// produced it, so renderers can show source lines and outlines without
// re-reading the tree.
type ScanResult struct {
	Report *Report
	Units  []*ParsedUnit
}

// UnitFor returns the parsed unit for a relative path, or nil.
func (r *ScanResult) UnitFor(relativePath string) *ParsedUnit {
	for _, u := range r.Units {
		if u != nil && u.File.RelativePath == relativePath {
			return u
		}
	}
	return nil
}
