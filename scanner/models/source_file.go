package models

import (
	"path/filepath"
	"strings"
)

// FileKind classifies a collected file by what parser handles it.
type FileKind string

const (
	KindCSharp  FileKind = "csharp"
	KindMarkup  FileKind = "markup"
	KindProject FileKind = "project"
	KindOther   FileKind = "other"
)

// KindForPath maps a file extension to its FileKind.
func KindForPath(path string) FileKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cs":
		return KindCSharp
	case ".axaml", ".xaml":
		return KindMarkup
	case ".csproj":
		return KindProject
	default:
		return KindOther
	}
}

// SourceFile is one collected file, immutable after read.
type SourceFile struct {
	Path         string
	RelativePath string
	Kind         FileKind
	Content      string
}

// Lines splits the content once for line-oriented checks. Line numbers
// elsewhere in the scanner are 1-based indexes into this slice.
func (s *SourceFile) Lines() []string {
	return strings.Split(strings.ReplaceAll(s.Content, "\r\n", "\n"), "\n")
}
