// SPDX-License-Identifier: AGPL-3.0-or-later

package scanner

import (
	"sort"
	"strings"
)

// FilterOptions defines criteria for including or excluding repository paths.
type FilterOptions struct {
	// ExcludeDirs is a list of directory names to exclude.
	// Matching is segment-aware: "vendor" excludes "vendor/foo" and "pkg/vendor/bar",
	// but not "vendor_stuff/foo".
	ExcludeDirs []string

	// ExcludePrefixes drops paths starting with any of the given strings,
	// e.g. "docs/business/confluence/". Plain string prefixes, not segments.
	ExcludePrefixes []string

	// IncludeExtensions is a list of extensions to include (e.g., ".md").
	// If empty, all extensions are included.
	IncludeExtensions []string
}

// DefaultExcludeDirs returns the directories never worth walking.
func DefaultExcludeDirs() []string {
	return []string{
		".git",
		"node_modules",
		".idea",
	}
}

// Keep reports whether path passes the filter.
func (o FilterOptions) Keep(path string) bool {
	return !hasExcludedSegment(path, o.ExcludeDirs) &&
		!HasPrefix(path, o.ExcludePrefixes) &&
		hasIncludedExtension(path, o.IncludeExtensions)
}

// FilterFiles applies the filter options to a list of slash-separated paths.
// It returns a new slice, sorted deterministically.
func FilterFiles(paths []string, opts FilterOptions) []string {
	if len(paths) == 0 {
		return nil
	}
	var filtered []string
	for _, path := range paths {
		if opts.Keep(path) {
			filtered = append(filtered, path)
		}
	}
	sort.Strings(filtered)
	return filtered
}

// HasPrefix reports whether path starts with any of prefixes.
func HasPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func hasExcludedSegment(path string, excludes []string) bool {
	if len(excludes) == 0 {
		return false
	}
	for _, part := range strings.Split(path, "/") {
		for _, exclude := range excludes {
			if part == exclude {
				return true
			}
		}
	}
	return false
}

func hasIncludedExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	for _, ext := range extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
