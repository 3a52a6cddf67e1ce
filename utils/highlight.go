package utils

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// ChromaLanguageForPath maps a scanned file to a chroma lexer name.
func ChromaLanguageForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cs":
		return "csharp"
	case ".axaml", ".xaml", ".csproj":
		return "xml"
	default:
		return "plaintext"
	}
}

// HighlightLine writes one syntax-highlighted source line. Falls back to the
// plain line when highlighting fails.
func HighlightLine(w io.Writer, line string, language string, theme string) {
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, line+"\n", language, "terminal256", theme); err != nil {
		fmt.Fprintln(w, line)
		return
	}
	fmt.Fprint(w, buf.String())
}

// ColorizeDiff colors unified-diff lines for terminal preview: additions
// green, removals red.
func ColorizeDiff(diff string) string {
	lines := strings.Split(diff, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "+") {
			lines[i] = "\x1b[92m" + line + "\x1b[0m"
		} else if strings.HasPrefix(line, "-") {
			lines[i] = "\x1b[91m" + line + "\x1b[0m"
		}
	}
	return strings.Join(lines, "\n")
}
