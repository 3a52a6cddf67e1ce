package rules

import (
	"path"
	"strings"

	"github.com/avalonia-tools/avalint/scanner/models"
)

// TypeDecl is one declaration site of a named type. Partial classes produce
// one TypeDecl per declaring file.
type TypeDecl struct {
	Unit   *models.ParsedUnit
	Symbol models.Symbol
}

// Index is the read-only cross-file view rules use to resolve references
// within the scanned set. Built once after parsing, never mutated while
// rules run, so the parallel phase can share it freely.
type Index struct {
	units  []*models.ParsedUnit
	byPath map[string]*models.ParsedUnit

	types         map[string][]TypeDecl
	resourceKeys  map[string]bool
	registered    map[string]bool
	hasContainer  bool
	markupByClass map[string]*models.ParsedUnit
	appMarkup     *models.ParsedUnit
	projects      []*models.ParsedUnit
	assemblies    map[string]bool
}

// NewIndex builds the cross-file index over the scanned units. Nil units
// (files that failed before parsing) are skipped.
func NewIndex(units []*models.ParsedUnit) *Index {
	idx := &Index{
		byPath:        make(map[string]*models.ParsedUnit),
		types:         make(map[string][]TypeDecl),
		resourceKeys:  make(map[string]bool),
		registered:    make(map[string]bool),
		markupByClass: make(map[string]*models.ParsedUnit),
		assemblies:    make(map[string]bool),
	}

	for _, u := range units {
		if u == nil {
			continue
		}
		idx.units = append(idx.units, u)
		idx.byPath[u.File.RelativePath] = u

		switch u.File.Kind {
		case models.KindCSharp:
			idx.indexCode(u)
		case models.KindMarkup:
			idx.indexMarkup(u)
		case models.KindProject:
			idx.indexProject(u)
		}
	}
	return idx
}

func (idx *Index) indexCode(u *models.ParsedUnit) {
	for _, sym := range u.TypeSymbols() {
		idx.types[sym.Name] = append(idx.types[sym.Name], TypeDecl{Unit: u, Symbol: sym})
	}
	for _, reg := range u.Registrations {
		idx.hasContainer = true
		for _, arg := range reg.TypeArgs {
			if name := TypeName(arg); name != "" {
				idx.registered[name] = true
			}
		}
	}
}

func (idx *Index) indexMarkup(u *models.ParsedUnit) {
	for _, key := range u.ResourceKeys {
		idx.resourceKeys[key.Key] = true
	}
	if u.XClass != "" {
		idx.markupByClass[u.XClass] = u
	}
	if path.Base(u.File.RelativePath) == "App.axaml" || path.Base(u.File.RelativePath) == "App.xaml" {
		// Prefer the root-level App over a nested one.
		if idx.appMarkup == nil || !strings.Contains(u.File.RelativePath, "/") {
			idx.appMarkup = u
		}
	}
}

func (idx *Index) indexProject(u *models.ParsedUnit) {
	idx.projects = append(idx.projects, u)
	stem := strings.TrimSuffix(path.Base(u.File.RelativePath), path.Ext(u.File.RelativePath))
	idx.assemblies[stem] = true
	for _, prop := range []string{"AssemblyName", "RootNamespace"} {
		if v := strings.TrimSpace(u.Properties[prop]); v != "" {
			idx.assemblies[v] = true
		}
	}
}

// Units returns every indexed unit in collector order.
func (idx *Index) Units() []*models.ParsedUnit { return idx.units }

// UnitAt returns the unit for an exact relative path, or nil.
func (idx *Index) UnitAt(relPath string) *models.ParsedUnit { return idx.byPath[relPath] }

// HasFile reports whether the exact relative path was scanned.
func (idx *Index) HasFile(relPath string) bool { return idx.byPath[relPath] != nil }

// TypeDecls returns every declaration site of the named type.
func (idx *Index) TypeDecls(name string) []TypeDecl { return idx.types[name] }

// TypeDeclared reports whether the named type is declared in the scanned set.
func (idx *Index) TypeDeclared(name string) bool { return len(idx.types[name]) > 0 }

// MembersOfType merges the members of every declaration site of the named
// type, so partial classes contribute a single member set.
func (idx *Index) MembersOfType(name string) []models.Symbol {
	var out []models.Symbol
	seen := make(map[string]bool)
	for _, decl := range idx.types[name] {
		if seen[decl.Unit.File.RelativePath] {
			continue
		}
		seen[decl.Unit.File.RelativePath] = true
		out = append(out, decl.Unit.MembersOf(name)...)
	}
	return out
}

// InterfaceDecl returns the first interface declaration of the named type.
func (idx *Index) InterfaceDecl(name string) (TypeDecl, bool) {
	for _, decl := range idx.types[name] {
		if decl.Symbol.Kind == models.SymbolInterface {
			return decl, true
		}
	}
	return TypeDecl{}, false
}

// HasResourceKey reports whether any scanned markup declares x:Key="key".
func (idx *Index) HasResourceKey(key string) bool { return idx.resourceKeys[key] }

// HasRegistrations reports whether the scanned set contains any DI container
// registration call at all.
func (idx *Index) HasRegistrations() bool { return idx.hasContainer }

// IsRegistered reports whether the named type appears in any registration
// call's type arguments.
func (idx *Index) IsRegistered(typeName string) bool { return idx.registered[typeName] }

// AppMarkup returns the App.axaml unit, or nil when none was scanned.
func (idx *Index) AppMarkup() *models.ParsedUnit { return idx.appMarkup }

// Projects returns the parsed project files in collector order.
func (idx *Index) Projects() []*models.ParsedUnit { return idx.projects }

// MarkupByClass returns the markup unit declaring the given x:Class, or nil.
func (idx *Index) MarkupByClass(xclass string) *models.ParsedUnit { return idx.markupByClass[xclass] }

// KnownAssembly reports whether an avares:// authority names one of the
// scanned projects (by file stem, AssemblyName or RootNamespace).
func (idx *Index) KnownAssembly(name string) bool { return idx.assemblies[name] }

// LooksLikeProjectRoot reports whether the scan root resembles an
// application project root: a root-level project file, App.axaml or
// App.axaml.cs. Project-structure rules stay silent otherwise, so scanning
// a partial tree does not spray missing-file errors.
func (idx *Index) LooksLikeProjectRoot() bool {
	if idx.RootProject() != nil {
		return true
	}
	return idx.HasFile("App.axaml") || idx.HasFile("App.axaml.cs")
}

// RootProject returns the first project unit sitting at the scan root.
func (idx *Index) RootProject() *models.ParsedUnit {
	for _, p := range idx.projects {
		if !strings.Contains(p.File.RelativePath, "/") {
			return p
		}
	}
	return nil
}

// ProjectFor returns the project unit whose directory is the nearest
// ancestor of relPath, or nil.
func (idx *Index) ProjectFor(relPath string) *models.ParsedUnit {
	var best *models.ParsedUnit
	bestLen := -1
	for _, p := range idx.projects {
		dir := path.Dir(p.File.RelativePath)
		if dir == "." {
			if bestLen < 0 {
				best, bestLen = p, 0
			}
			continue
		}
		if strings.HasPrefix(relPath, dir+"/") && len(dir) > bestLen {
			best, bestLen = p, len(dir)
		}
	}
	return best
}

// RootNamespaceOf returns the root namespace the given project implies:
// the RootNamespace property when set, otherwise the project file stem.
func RootNamespaceOf(project *models.ParsedUnit) string {
	if project == nil {
		return ""
	}
	if ns := strings.TrimSpace(project.Properties["RootNamespace"]); ns != "" {
		return ns
	}
	base := path.Base(project.File.RelativePath)
	return strings.TrimSuffix(base, path.Ext(base))
}

// ResolveMarkupRef resolves a markup reference (StyleInclude Source and
// friends) against the scanned set and returns the matched relative path.
// Handles avares:// URIs, root-absolute and relative forms; when the exact
// path is absent it falls back to a unique suffix match so avares roots that
// differ from the scan root still resolve.
func (idx *Index) ResolveMarkupRef(fromRel, source string) (string, bool) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", false
	}

	if rest, ok := strings.CutPrefix(source, "avares://"); ok {
		// Drop the assembly authority segment.
		if slash := strings.IndexByte(rest, '/'); slash >= 0 {
			source = rest[slash:]
		} else {
			return "", false
		}
	} else if strings.Contains(source, "://") {
		// resm: and other schemes are not resolvable against the tree.
		return "", false
	}

	var candidate string
	if strings.HasPrefix(source, "/") {
		candidate = path.Clean(strings.TrimPrefix(source, "/"))
	} else {
		candidate = path.Clean(path.Join(path.Dir(fromRel), source))
	}
	candidate = strings.ReplaceAll(candidate, "\\", "/")

	if idx.HasFile(candidate) {
		return candidate, true
	}

	match := ""
	for rel := range idx.byPath {
		if rel == candidate || strings.HasSuffix(rel, "/"+candidate) {
			if match != "" {
				return "", false // ambiguous
			}
			match = rel
		}
	}
	if match != "" {
		return match, true
	}
	return "", false
}

// TypeName normalizes a written type reference to its bare declared name:
// "Services.IUserService" and "IRepository<User>" both reduce to the
// identifier a declaration site would carry.
func TypeName(written string) string {
	name := strings.TrimSpace(written)
	if idx := strings.IndexByte(name, '<'); idx >= 0 {
		name = name[:idx]
	}
	name = strings.TrimSuffix(name, "?")
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		name = name[idx+1:]
	}
	return strings.TrimSpace(name)
}
