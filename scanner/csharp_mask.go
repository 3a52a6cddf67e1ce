package scanner

import (
	"strings"

	"github.com/avalonia-tools/avalint/scanner/models"
)

// literalSpan is a recorded string literal plus its byte range in the source.
type literalSpan struct {
	models.StringLiteral
	start int
	end   int
}

// maskedSource is the result of the masking pass: source with comment and
// string bodies blanked to spaces (newlines kept, so line numbers and brace
// depth stay true), plus every string literal that was blanked out.
type maskedSource struct {
	masked   []byte
	literals []literalSpan
	findings []models.Finding
}

// literalBetween returns the first recorded literal inside (open, close).
func (ms *maskedSource) literalBetween(open, close int) *literalSpan {
	for i := range ms.literals {
		if ms.literals[i].start > open && ms.literals[i].end < close {
			return &ms.literals[i]
		}
	}
	return nil
}

// maskCSharp blanks comments and string literals so the structure scan only
// ever sees code. It tolerates anything: unterminated constructs run to end
// of file (or end of line for single-line forms) and are recorded as
// degraded-parse findings rather than errors.
func maskCSharp(src string) *maskedSource {
	ms := &maskedSource{masked: []byte(src)}
	n := len(src)
	line := 1

	blank := func(from, to int) {
		for i := from; i < to && i < n; i++ {
			if ms.masked[i] != '\n' {
				ms.masked[i] = ' '
			}
		}
	}
	countLines := func(from, to int) {
		for i := from; i < to && i < n; i++ {
			if src[i] == '\n' {
				line++
			}
		}
	}

	i := 0
	for i < n {
		c := src[i]
		switch {
		case c == '\n':
			line++
			i++

		case c == '/' && i+1 < n && src[i+1] == '/':
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				end = n - i
			}
			blank(i, i+end)
			i += end

		case c == '/' && i+1 < n && src[i+1] == '*':
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				ms.findings = append(ms.findings, models.Finding{
					RuleID:   "csharp/unterminated-comment",
					Category: models.CategoryParseDegraded,
					Severity: models.SeverityWarning,
					Line:     line,
					Message:  "block comment is never closed",
				})
				blank(i, n)
				countLines(i, n)
				i = n
				continue
			}
			stop := i + 2 + end + 2
			blank(i, stop)
			countLines(i, stop)
			i = stop

		case c == '\'':
			// char literal; an unmatched quote falls back to code at end of line
			j := i + 1
			for j < n && src[j] != '\'' && src[j] != '\n' {
				if src[j] == '\\' {
					j++
				}
				j++
			}
			if j < n && src[j] == '\'' {
				blank(i, j+1)
				i = j + 1
			} else {
				i++
			}

		case c == '"' || c == '$' || c == '@':
			verbatim, interpolated, prefix := stringPrefixAt(src, i)
			if prefix == 0 {
				i++
				continue
			}
			start := i
			startLine := line
			if strings.HasPrefix(src[i+prefix-1:], `"""`) {
				i = ms.maskRawString(src, start, prefix, startLine, blank, countLines, &line)
				continue
			}
			open := i + prefix
			var body, stop int
			var terminated bool
			if verbatim {
				body, stop, terminated = scanVerbatimString(src, open)
			} else {
				body, stop, terminated = scanRegularString(src, open)
			}
			ms.literals = append(ms.literals, literalSpan{
				StringLiteral: models.StringLiteral{
					Value:        src[open:body],
					Line:         startLine,
					Interpolated: interpolated,
					Verbatim:     verbatim,
				},
				start: start,
				end:   stop,
			})
			if !terminated {
				ms.findings = append(ms.findings, models.Finding{
					RuleID:   "csharp/unterminated-string",
					Category: models.CategoryParseDegraded,
					Severity: models.SeverityWarning,
					Line:     startLine,
					Message:  "string literal is never closed",
				})
			}
			blank(start, stop)
			countLines(start, stop)
			i = stop

		default:
			i++
		}
	}

	return ms
}

// maskRawString handles C# 11 raw string literals ("""...""").
func (ms *maskedSource) maskRawString(src string, start, prefix int, startLine int, blank func(int, int), countLines func(int, int), line *int) int {
	open := start + prefix - 1 // at the first quote
	end := strings.Index(src[open+3:], `"""`)
	if end < 0 {
		ms.findings = append(ms.findings, models.Finding{
			RuleID:   "csharp/unterminated-string",
			Category: models.CategoryParseDegraded,
			Severity: models.SeverityWarning,
			Line:     startLine,
			Message:  "raw string literal is never closed",
		})
		blank(start, len(src))
		countLines(start, len(src))
		return len(src)
	}
	body := open + 3 + end
	stop := body + 3
	ms.literals = append(ms.literals, literalSpan{
		StringLiteral: models.StringLiteral{
			Value:        src[open+3 : body],
			Line:         startLine,
			Interpolated: strings.ContainsRune(src[start:open], '$'),
			Verbatim:     true,
		},
		start: start,
		end:   stop,
	})
	blank(start, stop)
	countLines(start, stop)
	return stop
}

// stringPrefixAt reports whether a string literal starts at i and how many
// bytes its prefix spans, including the opening quote: "  @"  $"  $@"  @$".
func stringPrefixAt(src string, i int) (verbatim, interpolated bool, prefix int) {
	rest := src[i:]
	switch {
	case strings.HasPrefix(rest, `$@"`), strings.HasPrefix(rest, `@$"`):
		return true, true, 3
	case strings.HasPrefix(rest, `@"`):
		return true, false, 2
	case strings.HasPrefix(rest, `$"`):
		return false, true, 2
	case strings.HasPrefix(rest, `"`):
		return false, false, 1
	}
	return false, false, 0
}

// scanRegularString scans from just past the opening quote to the closing
// quote, honoring backslash escapes. A newline ends an unterminated literal.
func scanRegularString(src string, open int) (body, stop int, terminated bool) {
	i := open
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
		case '"':
			return i, i + 1, true
		case '\n':
			return i, i, false
		default:
			i++
		}
	}
	return len(src), len(src), false
}

// scanVerbatimString scans a verbatim literal where "" escapes a quote and
// newlines are part of the value.
func scanVerbatimString(src string, open int) (body, stop int, terminated bool) {
	i := open
	for i < len(src) {
		if src[i] == '"' {
			if i+1 < len(src) && src[i+1] == '"' {
				i += 2
				continue
			}
			return i, i + 1, true
		}
		i++
	}
	return len(src), len(src), false
}
