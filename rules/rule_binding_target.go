package rules

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"unicode"

	"github.com/avalonia-tools/avalint/scanner/models"
)

// Resolve {Binding X} paths in markup against the paired code-behind and
// view model units. No resolved pair means no finding: absence cannot be
// proven from a partial tree, and a degraded pair unit is not trusted to
// prove it either.
type ruleBindingTarget struct{}

func NewRuleBindingTarget() Rule { return &ruleBindingTarget{} }

func (r *ruleBindingTarget) ID() string { return RuleBindingTargetMissingID }
func (r *ruleBindingTarget) Category() models.Category { return models.CategoryMissingReference }
func (r *ruleBindingTarget) Description() string {
	return "Binding paths must name a member of the paired code-behind or view model"
}

func (r *ruleBindingTarget) Check(unit *models.ParsedUnit, idx *Index) []models.Finding {
	if unit.File.Kind != models.KindMarkup || len(unit.Bindings) == 0 {
		return nil
	}

	pairs := bindingPairs(unit, idx)
	if len(pairs) == 0 {
		return nil
	}
	for _, p := range pairs {
		if p.Unit.Degraded {
			return nil
		}
	}

	members := make(map[string]bool)
	for _, p := range pairs {
		collectMemberNames(idx, p.Symbol.Name, members, 0)
	}

	// The view model, when resolved, is where bindings conventionally land.
	primary := pairs[len(pairs)-1]

	var findings []models.Finding
	for _, b := range unit.Bindings {
		name := firstPathSegment(b.Path)
		if name == "" || members[name] {
			continue
		}
		findings = append(findings, models.Finding{
			RuleID:   r.ID(),
			Category: r.Category(),
			Severity: models.SeverityWarning,
			Path:     unit.File.RelativePath,
			Line:     b.Line,
			Message: fmt.Sprintf("binding %q is not declared in %s (%s)",
				name, primary.Symbol.Name, primary.Unit.File.RelativePath),
			Suggestion: fmt.Sprintf("declare %q on %s or fix the binding path", name, primary.Symbol.Name),
		})
	}
	return findings
}

// bindingPairs resolves the code units a markup file binds against:
// Foo.axaml.cs sitting next to the markup, then the conventional view model
// (Foo -> FooViewModel, FooView -> FooViewModel).
func bindingPairs(unit *models.ParsedUnit, idx *Index) []TypeDecl {
	var pairs []TypeDecl
	stem := markupStem(unit.File.RelativePath)

	if cb := idx.UnitAt(unit.File.RelativePath + ".cs"); cb != nil {
		if decl, ok := codeBehindClass(cb, unit.XClass, stem); ok {
			pairs = append(pairs, decl)
		}
	}

	for _, decl := range idx.TypeDecls(viewModelName(stem)) {
		if decl.Symbol.Kind == models.SymbolClass || decl.Symbol.Kind == models.SymbolRecord {
			pairs = append(pairs, decl)
			break
		}
	}
	return pairs
}

// codeBehindClass picks the class a markup file pairs with inside its
// code-behind unit: the x:Class tail when declared, else the file stem,
// else the first partial class.
func codeBehindClass(cb *models.ParsedUnit, xclass, stem string) (TypeDecl, bool) {
	want := stem
	if xclass != "" {
		want = TypeName(xclass)
	}
	var partial *models.Symbol
	for _, sym := range cb.TypeSymbols() {
		if sym.Kind != models.SymbolClass {
			continue
		}
		if sym.Name == want || sym.Name == stem {
			return TypeDecl{Unit: cb, Symbol: sym}, true
		}
		if sym.Partial && partial == nil {
			s := sym
			partial = &s
		}
	}
	if partial != nil {
		return TypeDecl{Unit: cb, Symbol: *partial}, true
	}
	return TypeDecl{}, false
}

func viewModelName(stem string) string {
	if strings.HasSuffix(stem, "View") {
		return stem + "Model"
	}
	return stem + "ViewModel"
}

func markupStem(relPath string) string {
	base := path.Base(relPath)
	return strings.TrimSuffix(base, path.Ext(base))
}

// collectMemberNames gathers bindable member names for a type: its own
// members, PascalCase forms of backing fields (the [ObservableProperty]
// convention), and base-type members declared in the scanned set, a few
// hops up.
func collectMemberNames(idx *Index, typeName string, into map[string]bool, depth int) {
	if depth > 3 || typeName == "" {
		return
	}
	for _, m := range idx.MembersOfType(typeName) {
		into[m.Name] = true
		if m.Kind == models.SymbolField {
			if p := pascalCase(m.Name); p != "" {
				into[p] = true
			}
		}
	}
	for _, decl := range idx.TypeDecls(typeName) {
		for _, b := range decl.Symbol.BaseTypes {
			collectMemberNames(idx, TypeName(b), into, depth+1)
		}
	}
}

// pascalCase maps a backing-field name to the property a source generator
// would emit for it: "_userName" -> "UserName". Returns "" when the field
// name has no such form.
func pascalCase(field string) string {
	name := strings.TrimPrefix(field, "m_")
	name = strings.TrimLeft(name, "_")
	if name == "" {
		return ""
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	out := string(runes)
	if out == field {
		return ""
	}
	return out
}

var bindingIdentRe = regexp.MustCompile(`^[A-Za-z_]\w*$`)

// firstPathSegment reduces a binding path to the member it resolves first:
// "Items.Count" -> "Items", "Items[0]" -> "Items". Non-identifier paths
// (indexers on DataContext, casts) yield "".
func firstPathSegment(bindingPath string) string {
	p := strings.TrimSpace(bindingPath)
	p = strings.TrimSuffix(p, "^")
	if i := strings.IndexAny(p, ".[("); i >= 0 {
		p = p[:i]
	}
	if !bindingIdentRe.MatchString(p) {
		return ""
	}
	return p
}
