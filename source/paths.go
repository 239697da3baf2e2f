package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExtensions are the record file extensions picked up from directories.
var DefaultExtensions = []string{".json", ".jsonl"}

// ResolveFiles expands paths and glob patterns to record files.
// Supports both single-level wildcards (*) and recursive wildcards (**).
//
// Examples:
//   - "./exports/neurons.json" → ["/abs/exports/neurons.json"]
//   - "./exports" → every record file under ./exports, recursively
//   - "./exports/**/*.json" → every .json file under ./exports
//
// Files are returned once each, in lexical order per pattern. Directories
// and glob matches are filtered by extension; explicit files are not.
func ResolveFiles(patterns []string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	var resolved []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		paths, err := resolvePattern(pattern, extensions)
		if err != nil {
			return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
		}

		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				resolved = append(resolved, p)
			}
		}
	}

	return resolved, nil
}

// resolvePattern expands a single path or glob pattern to files.
func resolvePattern(pattern string, extensions []string) ([]string, error) {
	if !containsGlob(pattern) {
		absPath, err := filepath.Abs(pattern)
		if err != nil {
			return nil, err
		}

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			return []string{absPath}, nil
		}
		return filterFiles(absPath, "**/*", extensions)
	}

	absPattern, err := makeAbsolutePattern(pattern)
	if err != nil {
		return nil, err
	}

	base, rest := doublestar.SplitPattern(filepath.ToSlash(absPattern))
	files, err := filterFiles(filepath.FromSlash(base), rest, extensions)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no record files match pattern: %s", pattern)
	}
	return files, nil
}

// filterFiles globs pattern under base and keeps regular files with a
// recognized extension.
func filterFiles(base, pattern string, extensions []string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(base), pattern)
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}

	var files []string
	for _, match := range matches {
		full := filepath.Join(base, filepath.FromSlash(match))
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			continue
		}
		if hasExtension(full, extensions) {
			files = append(files, full)
		}
	}
	sort.Strings(files)
	return files, nil
}

func hasExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// containsGlob checks if a pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// makeAbsolutePattern converts a relative pattern to absolute, keeping the
// glob part intact.
func makeAbsolutePattern(pattern string) (string, error) {
	if filepath.IsAbs(pattern) {
		return pattern, nil
	}
	base, rest := doublestar.SplitPattern(filepath.ToSlash(pattern))
	absBase, err := filepath.Abs(filepath.FromSlash(base))
	if err != nil {
		return "", err
	}
	return filepath.Join(absBase, filepath.FromSlash(rest)), nil
}
