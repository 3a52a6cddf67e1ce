package rules

import (
	"fmt"
	"unicode"

	"github.com/avalonia-tools/avalint/scanner/models"
)

// Framework types that registrations legitimately name without a local
// declaration.
var frameworkTypes = map[string]bool{
	"HttpClient": true, "IHttpClientFactory": true, "ILogger": true,
	"ILoggerFactory": true, "IConfiguration": true, "IServiceProvider": true,
	"IMemoryCache": true, "IOptions": true, "DbContext": true,
	"JsonSerializerOptions": true, "IServiceCollection": true,
	"string": true, "object": true, "int": true, "bool": true,
}

// A registration naming a type that exists nowhere in the scanned set is
// usually a rename that missed the composition root.
type ruleUnknownRegistration struct{}

func NewRuleUnknownRegistration() Rule { return &ruleUnknownRegistration{} }

func (r *ruleUnknownRegistration) ID() string { return RuleRegisteredTypeUnknownID }
func (r *ruleUnknownRegistration) Category() models.Category { return models.CategoryRegistrationConsistency }
func (r *ruleUnknownRegistration) Description() string {
	return "Registered types must be declared in the scanned set"
}

func (r *ruleUnknownRegistration) Check(unit *models.ParsedUnit, idx *Index) []models.Finding {
	if unit.File.Kind != models.KindCSharp {
		return nil
	}

	var findings []models.Finding
	for _, reg := range unit.Registrations {
		for _, arg := range reg.TypeArgs {
			name := TypeName(arg)
			if name == "" || frameworkTypes[name] || isGenericParam(name) {
				continue
			}
			if idx.TypeDeclared(name) {
				continue
			}
			findings = append(findings, models.Finding{
				RuleID:   r.ID(),
				Category: r.Category(),
				Severity: models.SeverityWarning,
				Path:     unit.File.RelativePath,
				Line:     reg.Line,
				Message: fmt.Sprintf("%s registers %q which is not declared in the scanned set",
					reg.Method, name),
				Suggestion: "check the type name; it may have been renamed or live outside the scan root",
			})
		}
	}
	return findings
}

// isGenericParam matches the T / TService naming convention for generic
// type parameters.
func isGenericParam(name string) bool {
	if name == "T" {
		return true
	}
	return len(name) > 1 && name[0] == 'T' && unicode.IsUpper(rune(name[1]))
}
