package models

// Severity of a single finding.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Rank orders severities for sorting and --fail-on comparison; higher is worse.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// Category groups findings in the report. Infrastructure categories come from
// the collector/parser/engine machinery, the rest from domain rules.
type Category string

const (
	CategoryIO                Category = "io"
	CategoryMalformedMarkup   Category = "malformed-markup"
	CategoryParseDegraded     Category = "parse-degraded"
	CategoryRuleInternalError Category = "rule-internal-error"

	CategoryMissingReference        Category = "missing-reference"
	CategoryStructuralMismatch      Category = "structural-mismatch"
	CategoryFormatPattern           Category = "format-pattern"
	CategoryRegistrationConsistency Category = "registration-consistency"
	CategoryProjectStructure        Category = "project-structure"
)

// LineFix is a whole-line replacement attached to a finding, consumable by
// the fix command.
type LineFix struct {
	Line        int    `json:"line"`
	Replacement string `json:"replacement"`
}

// Finding is one diagnostic produced by exactly one rule invocation (or by
// the collector/parser for infrastructure categories). Immutable once built.
type Finding struct {
	RuleID     string   `json:"rule_id"`
	Category   Category `json:"category"`
	Severity   Severity `json:"severity"`
	Path       string   `json:"path"`
	Line       int      `json:"line,omitempty"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
	Fix        *LineFix `json:"fix,omitempty"`
}
