package scanner

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/avalonia-tools/avalint/scanner/models"
)

// Markup extension references harvested from attribute values.
var (
	bindingExprRe = regexp.MustCompile(`\{(?:Compiled)?Binding([^{}]*)\}`)
	staticResRe   = regexp.MustCompile(`\{StaticResource\s+([^{},]+)\}`)
	dynamicResRe  = regexp.MustCompile(`\{DynamicResource\s+([^{},]+)\}`)
)

// ParseMarkup scans one .axaml/.xaml document tolerantly. It is not an XML
// parser: it tracks tag nesting and attributes well enough to extract
// elements, bindings and resource references, and records malformed regions
// as findings instead of failing. It never returns an error.
func ParseMarkup(file models.SourceFile) *models.ParsedUnit {
	unit := &models.ParsedUnit{File: file}

	if strings.TrimSpace(file.Content) == "" {
		unit.Degraded = true
		unit.ParseFindings = append(unit.ParseFindings, models.Finding{
			RuleID:   "markup/empty",
			Category: models.CategoryMalformedMarkup,
			Severity: models.SeverityWarning,
			Path:     file.RelativePath,
			Line:     1,
			Message:  "markup file is empty",
		})
		return unit
	}

	p := &markupParser{src: file.Content, unit: unit}
	p.indexLines()
	p.scan()

	if len(unit.Elements) == 0 {
		unit.Degraded = true
		unit.ParseFindings = append(unit.ParseFindings, models.Finding{
			RuleID:   "markup/no-root",
			Category: models.CategoryMalformedMarkup,
			Severity: models.SeverityWarning,
			Path:     file.RelativePath,
			Line:     1,
			Message:  "no root element found",
		})
	}
	return unit
}

type markupParser struct {
	src  string
	nl   []int
	unit *models.ParsedUnit
}

// openTag is one entry on the element stack during scanning.
type openTag struct {
	name      string
	line      int
	elemIndex int
	textStart int
	hasChild  bool
}

func (p *markupParser) indexLines() {
	for i := 0; i < len(p.src); i++ {
		if p.src[i] == '\n' {
			p.nl = append(p.nl, i)
		}
	}
}

func (p *markupParser) lineAt(offset int) int {
	return sort.SearchInts(p.nl, offset) + 1
}

func (p *markupParser) scan() {
	var stack []openTag
	i := 0
	n := len(p.src)

	for i < n {
		lt := strings.IndexByte(p.src[i:], '<')
		if lt < 0 {
			break
		}
		i += lt

		switch {
		case strings.HasPrefix(p.src[i:], "<!--"):
			end := strings.Index(p.src[i+4:], "-->")
			if end < 0 {
				p.malformed("markup/unterminated-tag", models.SeverityError, p.lineAt(i), "unterminated comment")
				p.unit.Degraded = true
				i = n
				continue
			}
			i += 4 + end + 3

		case strings.HasPrefix(p.src[i:], "<![CDATA["):
			end := strings.Index(p.src[i+9:], "]]>")
			if end < 0 {
				p.malformed("markup/unterminated-tag", models.SeverityError, p.lineAt(i), "unterminated CDATA section")
				p.unit.Degraded = true
				i = n
				continue
			}
			i += 9 + end + 3

		case strings.HasPrefix(p.src[i:], "<!"), strings.HasPrefix(p.src[i:], "<?"):
			end := strings.IndexByte(p.src[i:], '>')
			if end < 0 {
				i = n
				continue
			}
			i += end + 1

		case strings.HasPrefix(p.src[i:], "</"):
			end := strings.IndexByte(p.src[i:], '>')
			if end < 0 {
				p.malformed("markup/unterminated-tag", models.SeverityError, p.lineAt(i), "unterminated closing tag")
				p.unit.Degraded = true
				i = n
				continue
			}
			name := strings.TrimSpace(p.src[i+2 : i+end])
			p.closeTag(&stack, name, p.lineAt(i), i)
			i += end + 1

		default:
			consumed := p.openTagAt(&stack, i)
			if consumed == 0 {
				// a bare '<' in text, tolerate
				i++
				continue
			}
			i += consumed
		}
	}

	for j := len(stack) - 1; j >= 0; j-- {
		p.malformed("markup/unclosed-tag", models.SeverityError, stack[j].line,
			fmt.Sprintf("tag <%s> is never closed", stack[j].name))
	}
	if len(stack) > 0 {
		p.unit.Degraded = true
	}
}

// openTagAt parses an opening tag starting at the '<' and returns the number
// of bytes consumed, or 0 when the '<' does not start a tag.
func (p *markupParser) openTagAt(stack *[]openTag, start int) int {
	i := start + 1
	n := len(p.src)
	if i >= n || !isNameStart(p.src[i]) {
		return 0
	}

	nameStart := i
	for i < n && isNameChar(p.src[i]) {
		i++
	}
	name := p.src[nameStart:i]
	line := p.lineAt(start)
	elem := models.Element{Name: name, Line: line, Depth: len(*stack)}

	selfClosing := false
	closed := false
	for i < n {
		for i < n && isSpace(p.src[i]) {
			i++
		}
		if i >= n {
			break
		}
		c := p.src[i]
		if c == '>' {
			i++
			closed = true
			break
		}
		if c == '/' {
			if i+1 < n && p.src[i+1] == '>' {
				i += 2
				selfClosing = true
				closed = true
				break
			}
			i++
			continue
		}
		if !isNameStart(c) {
			// junk inside the tag, tolerate
			i++
			continue
		}

		attrStart := i
		for i < n && isNameChar(p.src[i]) {
			i++
		}
		attr := models.Attr{Name: p.src[attrStart:i], Line: p.lineAt(attrStart)}
		for i < n && isSpace(p.src[i]) {
			i++
		}
		if i < n && p.src[i] == '=' {
			i++
			for i < n && isSpace(p.src[i]) {
				i++
			}
			if i < n && (p.src[i] == '"' || p.src[i] == '\'') {
				quote := p.src[i]
				i++
				vStart := i
				for i < n && p.src[i] != quote {
					i++
				}
				attr.Value = p.src[vStart:i]
				if i < n {
					i++
				}
			} else {
				vStart := i
				for i < n && !isSpace(p.src[i]) && p.src[i] != '>' && p.src[i] != '/' {
					i++
				}
				attr.Value = p.src[vStart:i]
			}
		}
		elem.Attrs = append(elem.Attrs, attr)
	}

	if !closed {
		p.malformed("markup/unterminated-tag", models.SeverityError, line,
			fmt.Sprintf("tag <%s> is not terminated before end of file", name))
		p.unit.Degraded = true
	}

	elem.SelfClosing = selfClosing
	p.recordElement(elem, stack)
	if closed && !selfClosing {
		*stack = append(*stack, openTag{
			name:      name,
			line:      line,
			elemIndex: len(p.unit.Elements) - 1,
			textStart: i,
		})
	}
	return i - start
}

func (p *markupParser) closeTag(stack *[]openTag, name string, line int, offset int) {
	if len(*stack) == 0 {
		p.malformed("markup/stray-close", models.SeverityError, line,
			fmt.Sprintf("closing tag </%s> with no open element", name))
		p.unit.Degraded = true
		return
	}

	top := (*stack)[len(*stack)-1]
	if top.name == name {
		if !top.hasChild {
			text := strings.TrimSpace(p.src[top.textStart:offset])
			if text != "" && !strings.Contains(text, "<") {
				p.unit.Elements[top.elemIndex].Text = text
			}
		}
		*stack = (*stack)[:len(*stack)-1]
		return
	}

	matchIdx := -1
	for j := len(*stack) - 1; j >= 0; j-- {
		if (*stack)[j].name == name {
			matchIdx = j
			break
		}
	}
	if matchIdx < 0 {
		p.malformed("markup/stray-close", models.SeverityError, line,
			fmt.Sprintf("closing tag </%s> does not match any open element", name))
		p.unit.Degraded = true
		return
	}
	for j := len(*stack) - 1; j > matchIdx; j-- {
		p.malformed("markup/mismatched-tag", models.SeverityError, (*stack)[j].line,
			fmt.Sprintf("tag <%s> closed by </%s>", (*stack)[j].name, name))
	}
	p.unit.Degraded = true
	*stack = (*stack)[:matchIdx]
}

// recordElement appends the element and harvests bindings, resource keys and
// style includes from its attributes.
func (p *markupParser) recordElement(elem models.Element, stack *[]openTag) {
	if len(*stack) > 0 {
		(*stack)[len(*stack)-1].hasChild = true
	}

	for _, a := range elem.Attrs {
		if a.Name == "x:Class" && elem.Depth == 0 && p.unit.XClass == "" {
			p.unit.XClass = a.Value
		}
		if a.Name == "x:Key" && a.Value != "" {
			p.unit.ResourceKeys = append(p.unit.ResourceKeys, models.ResourceKey{Key: a.Value, Line: a.Line})
		}
		p.harvestAttrValue(elem.Name, a)
	}

	if baseName(elem.Name) == "StyleInclude" {
		if src, ok := elem.Attr("Source"); ok && src != "" {
			p.unit.StyleIncludes = append(p.unit.StyleIncludes, models.StyleInclude{Source: src, Line: elem.Line})
		}
	}

	p.unit.Elements = append(p.unit.Elements, elem)
}

func (p *markupParser) harvestAttrValue(elemName string, a models.Attr) {
	for _, m := range bindingExprRe.FindAllStringSubmatch(a.Value, -1) {
		if path, ok := bindingPath(m[1]); ok {
			p.unit.Bindings = append(p.unit.Bindings, models.Binding{
				Path:        path,
				ElementName: elemName,
				AttrName:    a.Name,
				Line:        a.Line,
			})
		}
	}
	for _, m := range staticResRe.FindAllStringSubmatch(a.Value, -1) {
		p.unit.ResourceRefs = append(p.unit.ResourceRefs, models.ResourceRef{
			Key:  strings.TrimSpace(m[1]),
			Line: a.Line,
		})
	}
	for _, m := range dynamicResRe.FindAllStringSubmatch(a.Value, -1) {
		p.unit.ResourceRefs = append(p.unit.ResourceRefs, models.ResourceRef{
			Key:     strings.TrimSpace(m[1]),
			Dynamic: true,
			Line:    a.Line,
		})
	}
}

// bindingPath extracts the property path from the body of a {Binding}
// expression. Element (#name), ancestor ($parent) and negation (!) forms
// cannot be resolved statically and are skipped, as are property-only
// bindings like {Binding Mode=TwoWay}.
func bindingPath(expr string) (string, bool) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", false
	}

	path := ""
	for idx, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if v, ok := strings.CutPrefix(part, "Path="); ok {
			path = strings.TrimSpace(v)
			break
		}
		if idx == 0 && !strings.Contains(part, "=") {
			path = part
		}
	}
	if path == "" {
		return "", false
	}
	switch path[0] {
	case '#', '$', '!':
		return "", false
	}
	return path, true
}

func (p *markupParser) malformed(ruleID string, severity models.Severity, line int, message string) {
	p.unit.ParseFindings = append(p.unit.ParseFindings, models.Finding{
		RuleID:   ruleID,
		Category: models.CategoryMalformedMarkup,
		Severity: severity,
		Path:     p.unit.File.RelativePath,
		Line:     line,
		Message:  message,
	})
}

// baseName strips a namespace prefix from an element name: "ui:Button" -> "Button".
func baseName(name string) string {
	if idx := strings.LastIndexByte(name, ':'); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isNameStart(c byte) bool {
	return c == '_' || c == ':' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || c == '.' || c == '-' || (c >= '0' && c <= '9')
}
