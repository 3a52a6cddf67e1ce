package models

// Attr is one attribute on a markup element.
type Attr struct {
	Name  string
	Value string
	Line  int
}

// Element is one markup tag occurrence with its attributes. Depth is the
// nesting level of the element (root = 0); Text is the trimmed character
// content for leaf elements such as csproj properties.
type Element struct {
	Name        string
	Line        int
	Depth       int
	SelfClosing bool
	Attrs       []Attr
	Text        string
}

// Attr returns the value of the named attribute and whether it was present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Binding is a {Binding Path} reference found in markup.
type Binding struct {
	Path        string
	ElementName string
	AttrName    string
	Line        int
}

// ResourceRef is a {StaticResource Key} or {DynamicResource Key} reference.
type ResourceRef struct {
	Key     string
	Dynamic bool
	Line    int
}

// ResourceKey is an x:Key declaration in markup.
type ResourceKey struct {
	Key  string
	Line int
}

// StyleInclude is a StyleInclude Source="..." element in markup.
type StyleInclude struct {
	Source string
	Line   int
}

// SymbolKind classifies extracted C# declarations.
type SymbolKind string

const (
	SymbolClass     SymbolKind = "class"
	SymbolInterface SymbolKind = "interface"
	SymbolStruct    SymbolKind = "struct"
	SymbolRecord    SymbolKind = "record"
	SymbolEnum      SymbolKind = "enum"
	SymbolMethod    SymbolKind = "method"
	SymbolProperty  SymbolKind = "property"
	SymbolField     SymbolKind = "field"
)

// Symbol is one extracted C# declaration. Container is the enclosing type
// name for members, empty for top-level types. Partial marks partial type
// declarations so cross-file merging can fold them together.
type Symbol struct {
	Name       string
	Kind       SymbolKind
	Line       int
	Container  string
	BaseTypes  []string
	Parameters []string
	Public     bool
	Static     bool
	Partial    bool
}

// StringLiteral is one C# string literal with its source form.
type StringLiteral struct {
	Value        string
	Line         int
	Interpolated bool
	Verbatim     bool
}

// FormatCall is a string.Format call site with its format literal and the
// number of value arguments that followed it.
type FormatCall struct {
	Format   string
	Line     int
	ArgCount int
}

// Call is a bare method invocation site, kept for presence checks such as
// InitializeComponent.
type Call struct {
	Name string
	Line int
}

// Registration is a DI container registration call site.
type Registration struct {
	Method   string
	TypeArgs []string
	Line     int
}

// PackageRef is a csproj PackageReference entry.
type PackageRef struct {
	Name    string
	Version string
	Line    int
}

// ParsedUnit is the parse result for one SourceFile. Markup units fill the
// element/binding/resource fields, code units the symbol/literal/call
// fields, project units Packages and Properties. Units are owned by a
// single scan pass and discarded afterward.
type ParsedUnit struct {
	File SourceFile

	// markup
	Elements      []Element
	XClass        string
	Bindings      []Binding
	ResourceRefs  []ResourceRef
	ResourceKeys  []ResourceKey
	StyleIncludes []StyleInclude

	// csharp
	Namespace      string
	Symbols        []Symbol
	StringLiterals []StringLiteral
	FormatCalls    []FormatCall
	Calls          []Call
	Registrations  []Registration

	// project
	Packages   []PackageRef
	Properties map[string]string

	// display-only outline, never consulted by rules
	Outline []string

	Degraded      bool
	ParseFindings []Finding
}

// HasCall reports whether the unit contains an invocation of name.
func (u *ParsedUnit) HasCall(name string) bool {
	for _, c := range u.Calls {
		if c.Name == name {
			return true
		}
	}
	return false
}

// TypeSymbols returns the unit's top-level type declarations.
func (u *ParsedUnit) TypeSymbols() []Symbol {
	var out []Symbol
	for _, s := range u.Symbols {
		switch s.Kind {
		case SymbolClass, SymbolInterface, SymbolStruct, SymbolRecord, SymbolEnum:
			out = append(out, s)
		}
	}
	return out
}

// MembersOf returns the members declared inside the named container type.
func (u *ParsedUnit) MembersOf(container string) []Symbol {
	var out []Symbol
	for _, s := range u.Symbols {
		if s.Container == container {
			out = append(out, s)
		}
	}
	return out
}
