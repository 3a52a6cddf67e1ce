package scanner

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/avalonia-tools/avalint/embed_data"
	"github.com/avalonia-tools/avalint/scanner/models"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"
)

// BuildOutline produces the tagged symbol outline shown in verbose report
// modes: "class: MainWindow", "method: OnOpened", one entry per declaration.
// C# files go through tree-sitter with the embedded query set; anything that
// goes wrong there falls back to a line-scanning extractor. Rules never read
// the outline, so a degraded pass costs display fidelity only.
func BuildOutline(file models.SourceFile) []string {
	if file.Kind != models.KindCSharp {
		return nil
	}

	outline, err := treeSitterOutline([]byte(file.Content))
	if err != nil {
		return fallbackOutline(file.Content)
	}
	return outline
}

func treeSitterOutline(source []byte) ([]string, error) {
	queries := make(map[string]string)
	if err := json.Unmarshal(embed_data.CSharpQuery, &queries); err != nil {
		return nil, fmt.Errorf("failed to parse embedded query set: %w", err)
	}

	lang := csharp.GetLanguage()
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree := parser.Parse(nil, source)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter produced no tree")
	}

	// Tags run in sorted order so the outline is stable across runs.
	tags := make([]string, 0, len(queries))
	for tag := range queries {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	var elements []string
	for _, tag := range tags {
		query, err := sitter.NewQuery([]byte(queries[tag]), lang)
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s query: %w", tag, err)
		}
		cursor := sitter.NewQueryCursor()
		cursor.Exec(query, tree.RootNode())
		for {
			match, ok := cursor.NextMatch()
			if !ok {
				break
			}
			for _, cap := range match.Captures {
				elements = append(elements, fmt.Sprintf("%s: %s", tag, cap.Node.Content(source)))
			}
		}
	}
	return elements, nil
}

// Fallback patterns mirror the tree-sitter query set closely enough for an
// outline when the grammar pass is unavailable.
var (
	fallbackNamespaceRe = regexp.MustCompile(`^\s*namespace\s+([\w.]+)`)
	fallbackTypeRe      = regexp.MustCompile(`^\s*(?:(?:public|private|protected|internal|static|sealed|abstract|partial)\s+)*(class|interface|struct|record|enum)\s+(\w+)`)
	fallbackMethodRe    = regexp.MustCompile(`^\s*(?:(?:public|private|protected|internal|static|virtual|override|async|sealed|abstract)\s+)+[\w<>\[\],.?]+\s+(\w+)\s*\(`)
	fallbackPropertyRe  = regexp.MustCompile(`^\s*(?:(?:public|private|protected|internal|static|virtual|override|required)\s+)+[\w<>\[\],.?]+\s+(\w+)\s*\{`)
)

func fallbackOutline(source string) []string {
	var elements []string
	for _, line := range strings.Split(source, "\n") {
		if m := fallbackNamespaceRe.FindStringSubmatch(line); m != nil {
			elements = append(elements, fmt.Sprintf("namespace: %s", m[1]))
		} else if m := fallbackTypeRe.FindStringSubmatch(line); m != nil {
			elements = append(elements, fmt.Sprintf("%s: %s", m[1], m[2]))
		} else if m := fallbackMethodRe.FindStringSubmatch(line); m != nil {
			elements = append(elements, fmt.Sprintf("method: %s", m[1]))
		} else if m := fallbackPropertyRe.FindStringSubmatch(line); m != nil {
			elements = append(elements, fmt.Sprintf("property: %s", m[1]))
		}
	}
	return elements
}
