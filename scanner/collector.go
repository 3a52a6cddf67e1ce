package scanner

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/avalonia-tools/avalint/scanner/models"
	"github.com/avalonia-tools/avalint/utils"
)

// DefaultIncludes are the patterns scanned when none are configured.
var DefaultIncludes = []string{"*.cs", "*.axaml", "*.xaml", "*.csproj"}

// Files larger than this are skipped with an io finding; hand-written
// source never gets close, generated blobs do.
const maxFileSize = 1 * 1024 * 1024

// CollectFiles walks the root and returns every readable file matching the
// include patterns, sorted by relative path so the sequence is order-stable.
// Unreadable, binary or oversized files become a single io finding each and
// never abort the walk. The only error returned is an unusable root.
func CollectFiles(root string, includes []string) ([]models.SourceFile, []models.Finding, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, fmt.Errorf("root path %s is not accessible: %w", root, err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("root path %s is not a directory", root)
	}

	if len(includes) == 0 {
		includes = DefaultIncludes
	}
	ignorePatterns, err := utils.GetIgnorePatterns(root)
	if err != nil {
		return nil, nil, err
	}

	var files []models.SourceFile
	var findings []models.Finding
	seen := make(map[string]bool)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// an unreadable subtree is recorded, not fatal
			rel := relativePath(root, path)
			findings = append(findings, ioFinding(rel, fmt.Sprintf("cannot read %s: %v", rel, err)))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel := relativePath(root, path)
		if utils.IsDefaultIgnored(rel) || utils.IsIgnored(rel, ignorePatterns) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !matchesInclude(rel, includes) || seen[rel] {
			return nil
		}
		seen[rel] = true

		fi, err := d.Info()
		if err != nil {
			findings = append(findings, ioFinding(rel, fmt.Sprintf("cannot stat %s: %v", rel, err)))
			return nil
		}
		if fi.Size() > maxFileSize {
			findings = append(findings, models.Finding{
				RuleID:   "io/oversized",
				Category: models.CategoryIO,
				Severity: models.SeverityWarning,
				Path:     rel,
				Message:  fmt.Sprintf("file is %d bytes, over the %d byte scan limit; skipped", fi.Size(), maxFileSize),
			})
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			findings = append(findings, ioFinding(rel, fmt.Sprintf("failed to read %s: %v", rel, err)))
			return nil
		}
		if bytes.IndexByte(content, 0) >= 0 {
			findings = append(findings, models.Finding{
				RuleID:   "io/binary",
				Category: models.CategoryIO,
				Severity: models.SeverityWarning,
				Path:     rel,
				Message:  "binary content where source was expected; skipped",
			})
			return nil
		}

		files = append(files, models.SourceFile{
			Path:         path,
			RelativePath: rel,
			Kind:         models.KindForPath(path),
			Content:      string(content),
		})
		return nil
	})
	if walkErr != nil {
		return nil, nil, walkErr
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].RelativePath < files[j].RelativePath
	})
	return files, findings, nil
}

func ioFinding(rel, message string) models.Finding {
	return models.Finding{
		RuleID:   "io/unreadable",
		Category: models.CategoryIO,
		Severity: models.SeverityError,
		Path:     rel,
		Message:  message,
	}
}

func relativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return strings.ReplaceAll(rel, "\\", "/")
}

// matchesInclude checks a relative path against the include set. A pattern
// is matched against the base name and the full relative path, so both
// "*.axaml" and "Views/*.axaml" forms work.
func matchesInclude(rel string, includes []string) bool {
	base := filepath.Base(rel)
	for _, pattern := range includes {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		if strings.HasPrefix(pattern, ".") && strings.HasSuffix(strings.ToLower(base), strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}
