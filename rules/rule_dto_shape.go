package rules

import (
	"fmt"
	"strings"

	"github.com/avalonia-tools/avalint/scanner/models"
)

// X / XDto pairs drift: a property added to one side and forgotten on the
// other round-trips as silent data loss. When both types are declared in
// the scanned set, flag public properties present on one side only. The
// check triggers from the Dto-declaring unit so each pair is compared once.
type ruleDtoShape struct{}

func NewRuleDtoShape() Rule { return &ruleDtoShape{} }

func (r *ruleDtoShape) ID() string { return RuleDtoShapeMismatchID }
func (r *ruleDtoShape) Category() models.Category { return models.CategoryStructuralMismatch }
func (r *ruleDtoShape) Description() string {
	return "X and XDto pairs must expose the same public properties"
}

func (r *ruleDtoShape) Check(unit *models.ParsedUnit, idx *Index) []models.Finding {
	if unit.File.Kind != models.KindCSharp || unit.Degraded {
		return nil
	}

	var findings []models.Finding
	for _, dto := range unit.TypeSymbols() {
		if !strings.HasSuffix(dto.Name, "Dto") || len(dto.Name) <= len("Dto") {
			continue
		}
		baseName := strings.TrimSuffix(dto.Name, "Dto")
		base, ok := pairDecl(idx, baseName)
		if !ok || base.Unit.Degraded {
			continue
		}

		dtoProps := publicPropertySet(idx, dto.Name)
		baseProps := publicPropertySet(idx, baseName)
		if len(dtoProps) == 0 && len(baseProps) == 0 {
			continue
		}

		for name, sym := range baseProps {
			if _, present := dtoProps[name]; present {
				continue
			}
			findings = append(findings, models.Finding{
				RuleID:   r.ID(),
				Category: r.Category(),
				Severity: models.SeverityWarning,
				Path:     unit.File.RelativePath,
				Line:     dto.Line,
				Message: fmt.Sprintf("%s is missing public property %q declared on %s (%s:%d)",
					dto.Name, name, baseName, base.Unit.File.RelativePath, sym.Line),
				Suggestion: fmt.Sprintf("add %q to %s or remove it from %s", name, dto.Name, baseName),
			})
		}
		for name, sym := range dtoProps {
			if _, present := baseProps[name]; present {
				continue
			}
			findings = append(findings, models.Finding{
				RuleID:   r.ID(),
				Category: r.Category(),
				Severity: models.SeverityWarning,
				Path:     base.Unit.File.RelativePath,
				Line:     base.Symbol.Line,
				Message: fmt.Sprintf("%s is missing public property %q declared on %s (%s:%d)",
					baseName, name, dto.Name, unit.File.RelativePath, sym.Line),
				Suggestion: fmt.Sprintf("add %q to %s or remove it from %s", name, baseName, dto.Name),
			})
		}
	}
	return findings
}

// pairDecl returns the first non-interface declaration of the named type.
func pairDecl(idx *Index, name string) (TypeDecl, bool) {
	for _, decl := range idx.TypeDecls(name) {
		switch decl.Symbol.Kind {
		case models.SymbolClass, models.SymbolStruct, models.SymbolRecord:
			return decl, true
		}
	}
	return TypeDecl{}, false
}

func publicPropertySet(idx *Index, typeName string) map[string]models.Symbol {
	props := make(map[string]models.Symbol)
	for _, m := range idx.MembersOfType(typeName) {
		if m.Kind == models.SymbolProperty && m.Public && !m.Static {
			props[m.Name] = m
		}
	}
	return props
}
