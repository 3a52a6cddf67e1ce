package rules

// Rule IDs, grouped by report category. IDs are stable: suppressions and
// external tooling key on them, so renaming a rule keeps its ID.
const (
	// missing-reference
	RuleBindingTargetMissingID  = "AV101"
	RuleStyleIncludeMissingID   = "AV102"
	RuleStaticResourceUnknownID = "AV103"

	// structural-mismatch
	RuleInterfaceMemberMissingID = "AV201"
	RuleStackPanelUnsupportedID  = "AV202"
	RuleDtoShapeMismatchID       = "AV203"
	RuleInitializeComponentID    = "AV204"

	// format-pattern
	RuleFormatArgsMismatchID   = "AV301"
	RuleMissingInterpolationID = "AV302"
	RuleXClassMismatchID       = "AV303"
	RuleMarkupKnownTypoID      = "AV304"

	// registration-consistency
	RuleServiceNotRegisteredID  = "AV401"
	RuleRegisteredTypeUnknownID = "AV402"
	RuleStyleNotIncludedID      = "AV403"

	// project-structure
	RuleRequiredFileMissingID     = "AV501"
	RuleAvaloniaPackagesMissingID = "AV502"
	RuleViewsFolderMissingID      = "AV503"
	RuleUseAvaloniaFlagID         = "AV504"
)
