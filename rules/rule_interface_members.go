package rules

import (
	"fmt"
	"strings"

	"github.com/avalonia-tools/avalint/scanner/models"
)

// Types listing an interface in their base list must carry every member the
// interface declares, when that interface is itself declared in the scanned
// set. Matching is by name: the parse is heuristic, so overload and
// signature checking would flag more noise than defects.
type ruleInterfaceMembers struct{}

func NewRuleInterfaceMembers() Rule { return &ruleInterfaceMembers{} }

func (r *ruleInterfaceMembers) ID() string { return RuleInterfaceMemberMissingID }
func (r *ruleInterfaceMembers) Category() models.Category { return models.CategoryStructuralMismatch }
func (r *ruleInterfaceMembers) Description() string {
	return "Types must declare every member of the interfaces they implement"
}

func (r *ruleInterfaceMembers) Check(unit *models.ParsedUnit, idx *Index) []models.Finding {
	if unit.File.Kind != models.KindCSharp || unit.Degraded {
		return nil
	}

	var findings []models.Finding
	for _, sym := range unit.TypeSymbols() {
		if sym.Kind != models.SymbolClass && sym.Kind != models.SymbolStruct && sym.Kind != models.SymbolRecord {
			continue
		}
		have := memberNameSet(idx, sym.Name)

		for _, base := range sym.BaseTypes {
			ifaceName := TypeName(base)
			if !strings.HasPrefix(ifaceName, "I") {
				continue
			}
			iface, ok := idx.InterfaceDecl(ifaceName)
			if !ok || iface.Unit.Degraded {
				continue
			}
			for _, member := range idx.MembersOfType(ifaceName) {
				if member.Kind != models.SymbolMethod && member.Kind != models.SymbolProperty {
					continue
				}
				if have[member.Name] {
					continue
				}
				findings = append(findings, models.Finding{
					RuleID:   r.ID(),
					Category: r.Category(),
					Severity: models.SeverityWarning,
					Path:     unit.File.RelativePath,
					Line:     sym.Line,
					Message: fmt.Sprintf("%s implements %s but is missing member %q (%s)",
						sym.Name, ifaceName, member.Name, iface.Unit.File.RelativePath),
					Suggestion: fmt.Sprintf("implement %q or drop %s from the base list", member.Name, ifaceName),
				})
			}
		}
	}
	return findings
}

// memberNameSet collects the names a type answers to: own members across
// partial declarations plus base-type members from the scanned set, so
// inherited implementations satisfy the interface.
func memberNameSet(idx *Index, typeName string) map[string]bool {
	names := make(map[string]bool)
	var walk func(name string, depth int)
	walk = func(name string, depth int) {
		if depth > 3 || name == "" {
			return
		}
		for _, m := range idx.MembersOfType(name) {
			names[m.Name] = true
		}
		for _, decl := range idx.TypeDecls(name) {
			if decl.Symbol.Kind == models.SymbolInterface {
				continue
			}
			for _, b := range decl.Symbol.BaseTypes {
				if bn := TypeName(b); !strings.HasPrefix(bn, "I") || idx.hasNonInterfaceDecl(bn) {
					walk(bn, depth+1)
				}
			}
		}
	}
	walk(typeName, 0)
	return names
}

func (idx *Index) hasNonInterfaceDecl(name string) bool {
	for _, decl := range idx.types[name] {
		if decl.Symbol.Kind != models.SymbolInterface {
			return true
		}
	}
	return false
}
