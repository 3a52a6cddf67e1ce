package rules

// Registry holds the set of rules a scan will run.
type Registry struct {
	rules []Rule
}

func NewRegistry() *Registry { return &Registry{} }

func (r *Registry) Add(rule Rule) { r.rules = append(r.rules, rule) }

func (r *Registry) Rules() []Rule { return append([]Rule{}, r.rules...) }

// BuildDefaultRegistry returns a registry with every shipped rule registered.
func BuildDefaultRegistry() *Registry {
	reg := NewRegistry()

	// missing-reference
	reg.Add(NewRuleBindingTarget())
	reg.Add(NewRuleStyleInclude())
	reg.Add(NewRuleStaticResource())

	// structural-mismatch
	reg.Add(NewRuleInterfaceMembers())
	reg.Add(NewRuleStackPanelProps())
	reg.Add(NewRuleDtoShape())
	reg.Add(NewRuleInitializeComponent())

	// format-pattern
	reg.Add(NewRuleFormatArgs())
	reg.Add(NewRuleMissingInterpolation())
	reg.Add(NewRuleXClass())
	reg.Add(NewRuleMarkupTypos())

	// registration-consistency
	reg.Add(NewRuleUnregisteredService())
	reg.Add(NewRuleUnknownRegistration())
	reg.Add(NewRuleStylesIncluded())

	// project-structure
	reg.Add(NewRuleRequiredFiles())
	reg.Add(NewRuleAvaloniaPackages())
	reg.Add(NewRuleViewsFolder())
	reg.Add(NewRuleUseAvalonia())

	return reg
}
