package scanner

import (
	"regexp"
	"strings"

	"github.com/avalonia-tools/avalint/scanner/models"
)

// Declaration patterns for the line scan. These run against masked source,
// so braces and keywords inside strings or comments never reach them.
var (
	namespaceRe = regexp.MustCompile(`^\s*namespace\s+([\w.]+)`)
	typeDeclRe  = regexp.MustCompile(`^\s*(?:\[[^\]]*\]\s*)*((?:(?:public|private|protected|internal|static|sealed|abstract|partial|file|new|unsafe)\s+)*)(record(?:\s+(?:class|struct))?|class|interface|struct|enum)\s+([A-Za-z_]\w*)`)
	ctorDeclRe  = regexp.MustCompile(`^\s*((?:(?:public|private|protected|internal|static)\s+)*)([A-Za-z_]\w*)\s*\(`)
	methodRe    = regexp.MustCompile(`^\s*(?:\[[^\]]*\]\s*)*((?:(?:public|private|protected|internal|static|virtual|override|sealed|abstract|async|partial|extern|unsafe|new)\s+)*)([A-Za-z_][\w<>\[\],.?\s]*?)\s+([A-Za-z_]\w*)\s*\(`)
	propertyRe  = regexp.MustCompile(`^\s*(?:\[[^\]]*\]\s*)*((?:(?:public|private|protected|internal|static|virtual|override|sealed|abstract|required|new|partial)\s+)*)([A-Za-z_][\w<>\[\],.?\s]*?)\s+([A-Za-z_]\w*)\s*(\{|=>)`)
	fieldRe     = regexp.MustCompile(`^\s*(?:\[[^\]]*\]\s*)*((?:(?:public|private|protected|internal|static|readonly|const|volatile|new)\s+)+)([A-Za-z_][\w<>\[\],.?\s]*?)\s+([A-Za-z_]\w*)\s*(=|;)`)
	callSiteRe  = regexp.MustCompile(`([A-Za-z_]\w*(?:\.[A-Za-z_]\w*)*)\s*\(`)
	registerRe  = regexp.MustCompile(`(?:([A-Za-z_]\w*)\s*\.\s*)?(Add(?:Singleton|Scoped|Transient)|Register(?:Singleton|Scoped|Transient|LazySingleton|Constant)?)\s*(?:<([^<>(]+)>)?\s*\(`)
	typeofArgRe = regexp.MustCompile(`typeof\s*\(\s*([\w.]+)\s*\)`)
	formatRe    = regexp.MustCompile(`[Ss]tring\.Format\s*\(`)
)

// Statement keywords that look like call sites or return types but are not.
var csharpReserved = map[string]bool{
	"if": true, "else": true, "for": true, "foreach": true, "while": true,
	"switch": true, "using": true, "lock": true, "catch": true, "return": true,
	"throw": true, "new": true, "nameof": true, "typeof": true, "sizeof": true,
	"default": true, "when": true, "get": true, "set": true, "init": true,
	"base": true, "this": true, "do": true, "fixed": true, "goto": true,
	"in": true, "out": true, "ref": true, "var": true, "await": true,
	"yield": true, "delegate": true, "event": true, "operator": true,
}

// Receivers whose Register calls are Avalonia property or event plumbing,
// not DI container registrations.
var nonContainerReceivers = map[string]bool{
	"AvaloniaProperty": true, "DependencyProperty": true, "StyledProperty": true,
	"DirectProperty": true, "AttachedProperty": true, "RoutedEvent": true,
	"EventManager": true,
}

// ParseCSharp scans one .cs file with brace-depth tracking and keyword
// matching. It is deliberately not a C# parser: comments and string bodies
// are masked first so braces inside them cannot corrupt depth tracking, then
// declarations are matched line by line. Unexpected content degrades the
// unit instead of failing; ParseCSharp never returns an error.
func ParseCSharp(file models.SourceFile) *models.ParsedUnit {
	unit := &models.ParsedUnit{File: file}

	if strings.TrimSpace(file.Content) == "" {
		unit.Degraded = true
		unit.ParseFindings = append(unit.ParseFindings, models.Finding{
			RuleID:   "csharp/empty",
			Category: models.CategoryParseDegraded,
			Severity: models.SeverityInfo,
			Path:     file.RelativePath,
			Line:     1,
			Message:  "source file is empty",
		})
		return unit
	}

	ms := maskCSharp(file.Content)
	for _, lit := range ms.literals {
		unit.StringLiterals = append(unit.StringLiterals, lit.StringLiteral)
	}
	for _, f := range ms.findings {
		f.Path = file.RelativePath
		unit.ParseFindings = append(unit.ParseFindings, f)
		unit.Degraded = true
	}

	p := &csharpScanner{unit: unit, masked: ms}
	p.scanStructure()
	p.scanFormatCalls()

	return unit
}

// typeFrame is one entry on the enclosing-type stack during the line scan.
type typeFrame struct {
	name      string
	kind      models.SymbolKind
	bodyDepth int
}

type csharpScanner struct {
	unit   *models.ParsedUnit
	masked *maskedSource
}

func (p *csharpScanner) scanStructure() {
	lines := strings.Split(string(p.masked.masked), "\n")
	depth := 0
	var stack []typeFrame

	for i, line := range lines {
		lineNo := i + 1

		if p.unit.Namespace == "" {
			if m := namespaceRe.FindStringSubmatch(line); m != nil {
				p.unit.Namespace = m[1]
			}
		}

		declared := false
		if m := typeDeclRe.FindStringSubmatchIndex(line); m != nil {
			p.recordTypeDecl(line, m, lineNo, depth, &stack)
			declared = true
		} else if len(stack) > 0 && depth == stack[len(stack)-1].bodyDepth {
			declared = p.recordMember(line, lineNo, &stack)
		}

		p.harvestCalls(line, lineNo, declared)
		p.harvestRegistrations(line, lineNo)

		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth < 0 {
			depth = 0
		}
		for len(stack) > 0 && depth < stack[len(stack)-1].bodyDepth {
			stack = stack[:len(stack)-1]
		}
	}

	if depth != 0 {
		p.unit.Degraded = true
		p.unit.ParseFindings = append(p.unit.ParseFindings, models.Finding{
			RuleID:   "csharp/unbalanced-braces",
			Category: models.CategoryParseDegraded,
			Severity: models.SeverityWarning,
			Path:     p.unit.File.RelativePath,
			Line:     len(lines),
			Message:  "unbalanced braces at end of file; declarations past the imbalance may be missed",
		})
	}
}

func (p *csharpScanner) recordTypeDecl(line string, m []int, lineNo, depth int, stack *[]typeFrame) {
	mods := line[m[2]:m[3]]
	kindWord := line[m[4]:m[5]]
	name := line[m[6]:m[7]]
	rest := line[m[7]:]

	kind := models.SymbolKind(kindWord)
	if strings.HasPrefix(kindWord, "record") {
		kind = models.SymbolRecord
	}

	sym := models.Symbol{
		Name:    name,
		Kind:    kind,
		Line:    lineNo,
		Public:  strings.Contains(mods, "public"),
		Static:  strings.Contains(mods, "static"),
		Partial: strings.Contains(mods, "partial"),
	}
	if len(*stack) > 0 {
		sym.Container = (*stack)[len(*stack)-1].name
	}

	rest = skipGenericArgs(rest)

	// Positional record parameters declare public properties.
	var positional []string
	if trimmed := strings.TrimLeft(rest, " \t"); kind == models.SymbolRecord && strings.HasPrefix(trimmed, "(") {
		offset := lineStartOffset(p.masked.masked, lineNo) + len(line) - len(trimmed)
		inner, ok := parenContent(string(p.masked.masked), offset)
		if ok {
			positional = splitTopLevel(inner)
			rest = trimmed[1:]
			if idx := strings.IndexByte(rest, ')'); idx >= 0 {
				rest = rest[idx+1:]
			}
		}
	}

	sym.BaseTypes = parseBaseList(rest)
	p.unit.Symbols = append(p.unit.Symbols, sym)

	for _, param := range positional {
		if pname := paramName(param); pname != "" {
			p.unit.Symbols = append(p.unit.Symbols, models.Symbol{
				Name:      pname,
				Kind:      models.SymbolProperty,
				Line:      lineNo,
				Container: name,
				Public:    true,
			})
		}
	}

	*stack = append(*stack, typeFrame{name: name, kind: kind, bodyDepth: depth + 1})
}

// recordMember matches constructor, method, property and field declarations
// at the current container's body depth. Reports whether the line declared
// something, so call harvesting can skip the declared name.
func (p *csharpScanner) recordMember(line string, lineNo int, stack *[]typeFrame) bool {
	frame := (*stack)[len(*stack)-1]
	isInterface := frame.kind == models.SymbolInterface

	if strings.Contains(line, "delegate ") || strings.Contains(line, "event ") {
		return false
	}

	// Constructor: the declared name equals the enclosing type.
	if m := ctorDeclRe.FindStringSubmatch(line); m != nil && m[2] == frame.name {
		p.unit.Symbols = append(p.unit.Symbols, models.Symbol{
			Name:       m[2],
			Kind:       models.SymbolMethod,
			Line:       lineNo,
			Container:  frame.name,
			Public:     strings.Contains(m[1], "public") || isInterface,
			Parameters: p.paramsAt(line, lineNo),
		})
		return true
	}

	if m := methodRe.FindStringSubmatch(line); m != nil {
		returnType := strings.TrimSpace(m[2])
		name := m[3]
		if !csharpReserved[firstWord(returnType)] && !csharpReserved[name] {
			p.unit.Symbols = append(p.unit.Symbols, models.Symbol{
				Name:       name,
				Kind:       models.SymbolMethod,
				Line:       lineNo,
				Container:  frame.name,
				Public:     strings.Contains(m[1], "public") || isInterface,
				Static:     strings.Contains(m[1], "static"),
				Parameters: p.paramsAt(line, lineNo),
			})
			return true
		}
	}

	if m := propertyRe.FindStringSubmatch(line); m != nil {
		propType := strings.TrimSpace(m[2])
		name := m[3]
		ok := !csharpReserved[firstWord(propType)] && !csharpReserved[name]
		if ok && m[4] == "{" {
			body := line[strings.Index(line, "{"):]
			ok = strings.Contains(body, "get") || strings.Contains(body, "set") || strings.Contains(body, "init")
		}
		if ok {
			p.unit.Symbols = append(p.unit.Symbols, models.Symbol{
				Name:      name,
				Kind:      models.SymbolProperty,
				Line:      lineNo,
				Container: frame.name,
				Public:    strings.Contains(m[1], "public") || isInterface,
				Static:    strings.Contains(m[1], "static"),
			})
			return true
		}
	}

	if m := fieldRe.FindStringSubmatch(line); m != nil {
		fieldType := strings.TrimSpace(m[2])
		name := m[3]
		if !csharpReserved[firstWord(fieldType)] && !csharpReserved[name] {
			p.unit.Symbols = append(p.unit.Symbols, models.Symbol{
				Name:      name,
				Kind:      models.SymbolField,
				Line:      lineNo,
				Container: frame.name,
				Public:    strings.Contains(m[1], "public"),
				Static:    strings.Contains(m[1], "static"),
			})
			return true
		}
	}

	return false
}

// harvestCalls records invocation sites for presence checks. On declaration
// lines only the expression body after "=>" is searched, so declared names
// are not mistaken for calls.
func (p *csharpScanner) harvestCalls(line string, lineNo int, declared bool) {
	scan := line
	if declared {
		idx := strings.Index(line, "=>")
		if idx < 0 {
			return
		}
		scan = line[idx+2:]
	}
	for _, m := range callSiteRe.FindAllStringSubmatch(scan, -1) {
		name := m[1]
		last := name
		if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
			last = name[idx+1:]
		}
		if csharpReserved[last] || csharpReserved[name] {
			continue
		}
		p.unit.Calls = append(p.unit.Calls, models.Call{Name: name, Line: lineNo})
	}
}

func (p *csharpScanner) harvestRegistrations(line string, lineNo int) {
	for _, m := range registerRe.FindAllStringSubmatchIndex(line, -1) {
		receiver := subgroup(line, m, 1)
		method := subgroup(line, m, 2)
		generics := subgroup(line, m, 3)
		if nonContainerReceivers[receiver] {
			continue
		}

		var typeArgs []string
		if generics != "" {
			for _, arg := range strings.Split(generics, ",") {
				if arg = strings.TrimSpace(arg); arg != "" {
					typeArgs = append(typeArgs, arg)
				}
			}
		} else {
			// Non-generic overloads pass typeof(T) arguments.
			open := lineStartOffset(p.masked.masked, lineNo) + m[1] - 1
			if inner, ok := parenContent(string(p.masked.masked), open); ok {
				for _, t := range typeofArgRe.FindAllStringSubmatch(inner, -1) {
					typeArgs = append(typeArgs, t[1])
				}
			}
		}
		if len(typeArgs) == 0 {
			continue
		}
		p.unit.Registrations = append(p.unit.Registrations, models.Registration{
			Method:   method,
			TypeArgs: typeArgs,
			Line:     lineNo,
		})
	}
}

// scanFormatCalls locates string.Format call sites and pairs each with its
// format literal and the number of value arguments that follow it.
func (p *csharpScanner) scanFormatCalls() {
	masked := string(p.masked.masked)
	for _, loc := range formatRe.FindAllStringIndex(masked, -1) {
		open := strings.IndexByte(masked[loc[0]:], '(')
		if open < 0 {
			continue
		}
		open += loc[0]
		closeIdx, commas := parenSpan(masked, open)
		if closeIdx < 0 {
			continue
		}

		lit := p.masked.literalBetween(open, closeIdx)
		if lit == nil {
			continue
		}
		args := 0
		for _, c := range commas {
			if c > lit.end {
				args++
			}
		}
		p.unit.FormatCalls = append(p.unit.FormatCalls, models.FormatCall{
			Format:   lit.Value,
			Line:     lineOf(p.masked.masked, loc[0]),
			ArgCount: args,
		})
	}
}

func (p *csharpScanner) paramsAt(line string, lineNo int) []string {
	parenCol := strings.IndexByte(line, '(')
	if parenCol < 0 {
		return nil
	}
	open := lineStartOffset(p.masked.masked, lineNo) + parenCol
	inner, ok := parenContent(string(p.masked.masked), open)
	if !ok {
		return nil
	}
	return splitTopLevel(inner)
}

// parseBaseList extracts base type names from the remainder of a type
// declaration line: ": ObservableObject, IFoo where T : class" yields
// ["ObservableObject", "IFoo"].
func parseBaseList(rest string) []string {
	colon := strings.IndexByte(rest, ':')
	if colon < 0 {
		return nil
	}
	list := rest[colon+1:]
	for _, stop := range []string{"{", " where "} {
		if idx := strings.Index(list, stop); idx >= 0 {
			list = list[:idx]
		}
	}
	var bases []string
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		part = strings.TrimSuffix(part, ";")
		if part != "" {
			bases = append(bases, part)
		}
	}
	return bases
}

// skipGenericArgs drops a leading <...> type parameter list.
func skipGenericArgs(rest string) string {
	trimmed := strings.TrimLeft(rest, " \t")
	if !strings.HasPrefix(trimmed, "<") {
		return rest
	}
	depth := 0
	for i := 0; i < len(trimmed); i++ {
		switch trimmed[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return trimmed[i+1:]
			}
		}
	}
	return rest
}

// paramName returns the identifier a parameter declaration binds:
// "string name = \"x\"" yields "name".
func paramName(param string) string {
	param = strings.TrimSpace(param)
	if idx := strings.IndexByte(param, '='); idx >= 0 {
		param = strings.TrimSpace(param[:idx])
	}
	fields := strings.Fields(param)
	if len(fields) < 2 {
		return ""
	}
	name := fields[len(fields)-1]
	if !identRe.MatchString(name) {
		return ""
	}
	return name
}

var identRe = regexp.MustCompile(`^[A-Za-z_]\w*$`)

func firstWord(s string) string {
	if idx := strings.IndexAny(s, " \t<"); idx >= 0 {
		return s[:idx]
	}
	return s
}

func subgroup(s string, m []int, n int) string {
	if m[2*n] < 0 {
		return ""
	}
	return s[m[2*n]:m[2*n+1]]
}

// parenSpan scans masked source from an opening paren and returns the index
// of its matching close plus the offsets of top-level commas. Angle brackets
// are tracked heuristically so generic arguments do not split.
func parenSpan(src string, open int) (int, []int) {
	depth := 0
	angle := 0
	var commas []int
	for i := open; i < len(src); i++ {
		switch src[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				return i, commas
			}
		case '<':
			if i > open && isIdentByte(src[i-1]) {
				angle++
			}
		case '>':
			if angle > 0 && i > 0 && src[i-1] != '=' {
				angle--
			}
		case ',':
			if depth == 1 && angle == 0 {
				commas = append(commas, i)
			}
		}
	}
	return -1, commas
}

// parenContent returns the raw text between an opening paren and its match.
func parenContent(src string, open int) (string, bool) {
	if open < 0 || open >= len(src) || src[open] != '(' {
		return "", false
	}
	closeIdx, _ := parenSpan(src, open)
	if closeIdx < 0 {
		return "", false
	}
	return src[open+1 : closeIdx], true
}

// splitTopLevel splits a parameter list on commas outside nested brackets.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	angle := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '<':
			if i > 0 && isIdentByte(s[i-1]) {
				angle++
			}
		case '>':
			if angle > 0 && s[i-1] != '=' {
				angle--
			}
		case ',':
			if depth == 0 && angle == 0 {
				if part := strings.TrimSpace(s[start:i]); part != "" {
					parts = append(parts, part)
				}
				start = i + 1
			}
		}
	}
	if part := strings.TrimSpace(s[start:]); part != "" {
		parts = append(parts, part)
	}
	return parts
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '.' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func lineOf(masked []byte, offset int) int {
	line := 1
	for i := 0; i < offset && i < len(masked); i++ {
		if masked[i] == '\n' {
			line++
		}
	}
	return line
}

func lineStartOffset(masked []byte, lineNo int) int {
	if lineNo <= 1 {
		return 0
	}
	line := 1
	for i := 0; i < len(masked); i++ {
		if masked[i] == '\n' {
			line++
			if line == lineNo {
				return i + 1
			}
		}
	}
	return len(masked)
}
