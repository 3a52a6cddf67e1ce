package rules

import (
	"fmt"
	"strings"

	"github.com/avalonia-tools/avalint/scanner/models"
)

// Conventional DI citizens (*Service, *ViewModel) declared but never
// registered with the container. Only fires when the scanned set contains
// at least one registration call: a project without a container has nothing
// to register against.
type ruleUnregisteredService struct{}

func NewRuleUnregisteredService() Rule { return &ruleUnregisteredService{} }

func (r *ruleUnregisteredService) ID() string { return RuleServiceNotRegisteredID }
func (r *ruleUnregisteredService) Category() models.Category { return models.CategoryRegistrationConsistency }
func (r *ruleUnregisteredService) Description() string {
	return "Service and view model classes should be registered with the DI container"
}

func (r *ruleUnregisteredService) Check(unit *models.ParsedUnit, idx *Index) []models.Finding {
	if unit.File.Kind != models.KindCSharp || unit.Degraded || !idx.HasRegistrations() {
		return nil
	}

	var findings []models.Finding
	for _, sym := range unit.TypeSymbols() {
		if sym.Kind != models.SymbolClass && sym.Kind != models.SymbolRecord {
			continue
		}
		if sym.Static || sym.Container != "" {
			continue
		}
		if !strings.HasSuffix(sym.Name, "Service") && !strings.HasSuffix(sym.Name, "ViewModel") {
			continue
		}
		if len(sym.Name) == len("Service") || len(sym.Name) == len("ViewModel") {
			continue // bare suffix is a base-class name, not a citizen
		}
		if idx.IsRegistered(sym.Name) {
			continue
		}
		findings = append(findings, models.Finding{
			RuleID:   r.ID(),
			Category: r.Category(),
			Severity: models.SeverityWarning,
			Path:     unit.File.RelativePath,
			Line:     sym.Line,
			Message:  fmt.Sprintf("%s is never registered with the DI container", sym.Name),
			Suggestion: fmt.Sprintf("register %s (AddSingleton/AddTransient/Register) or rename it if it is not a service",
				sym.Name),
		})
	}
	return findings
}
