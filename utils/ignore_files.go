package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ignoreCacheEntry holds cached ignore patterns with metadata
type ignoreCacheEntry struct {
	patterns []string
	modTime  time.Time
}

// Global cache for ignore-file patterns, shared across watch-mode rescans
var (
	ignoreCache      = make(map[string]*ignoreCacheEntry)
	ignoreCacheMutex sync.RWMutex
)

// Directory names never worth scanning in a .NET tree.
var defaultIgnoredDirs = map[string]bool{
	".git":         true,
	".svn":         true,
	".vs":          true,
	".idea":        true,
	".vscode":      true,
	".avalint":     true,
	"bin":          true,
	"obj":          true,
	"packages":     true,
	"testresults":  true,
	"artifacts":    true,
	"node_modules": true,
	".cache":       true,
}

// Extensions of generated or binary files skipped by default.
var defaultIgnoredExts = []string{
	".exe", ".dll", ".pdb", ".nupkg", ".log", ".bak", ".tmp", ".user", ".suo",
	".jpg", ".jpeg", ".png", ".gif", ".ico", ".mp3", ".wav", ".mp4", ".avi",
}

// GetIgnorePatterns reads and returns the patterns from the repo-local
// .avalint-ignore file. If the file does not exist, it returns an empty
// pattern list. Parsed patterns are cached by mod time so watch-mode rescans
// do not re-read the file.
func GetIgnorePatterns(root string) ([]string, error) {
	ignorePath := filepath.Join(root, ".avalint-ignore")

	fileInfo, err := os.Stat(ignorePath)
	if os.IsNotExist(err) {
		return []string{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("error checking .avalint-ignore: %w", err)
	}

	ignoreCacheMutex.RLock()
	if cached, exists := ignoreCache[ignorePath]; exists {
		if fileInfo.ModTime().Equal(cached.modTime) {
			ignoreCacheMutex.RUnlock()
			return cached.patterns, nil
		}
	}
	ignoreCacheMutex.RUnlock()

	patterns, err := readIgnoreFile(ignorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read .avalint-ignore: %w", err)
	}

	ignoreCacheMutex.Lock()
	ignoreCache[ignorePath] = &ignoreCacheEntry{
		patterns: patterns,
		modTime:  fileInfo.ModTime(),
	}
	ignoreCacheMutex.Unlock()

	return patterns, nil
}

// IsDefaultIgnored reports whether any path segment is a default-ignored
// directory or the file carries a default-ignored extension. Segments are
// matched exactly, not by prefix: "bin" must not swallow "Bindings.cs".
func IsDefaultIgnored(path string) bool {
	parts := strings.Split(path, string(filepath.Separator))
	for _, part := range parts {
		if defaultIgnoredDirs[strings.ToLower(part)] {
			return true
		}
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, ignored := range defaultIgnoredExts {
		if ext == ignored {
			return true
		}
	}
	return false
}

// readIgnoreFile reads the ignore file and returns the list of patterns.
func readIgnoreFile(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(content), "\n")
	var patterns []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns, nil
}

// IsIgnored checks if a relative path matches any of the .avalint-ignore
// patterns. A trailing-slash pattern ignores the whole directory subtree.
func IsIgnored(path string, patterns []string) bool {
	for _, pattern := range patterns {
		match, _ := filepath.Match(pattern, path)
		if match {
			return true
		}
		match, _ = filepath.Match(pattern, filepath.Base(path))
		if match {
			return true
		}
		if strings.HasSuffix(pattern, "/") && strings.HasPrefix(path, pattern) {
			return true
		}
	}
	return false
}

// ClearIgnoreCache clears all cached ignore patterns.
func ClearIgnoreCache() {
	ignoreCacheMutex.Lock()
	defer ignoreCacheMutex.Unlock()
	ignoreCache = make(map[string]*ignoreCacheEntry)
}
