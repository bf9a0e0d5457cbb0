// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reports locates and reads the markdown documents that feed the chat posts.
package reports

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultDocsPath is the documentation root used when the config does not name one.
const DefaultDocsPath = "claude_docs"

// Document file names under the documentation root.
const (
	RoadmapFile   = "ROADMAP.md"
	ChangelogFile = "CHANGELOG.md"
	FeaturesFile  = "FEATURES.md"
)

// ErrNotFound marks a missing input document or directory. Batch commands
// treat it as "this post type is unavailable" and skip the step.
var ErrNotFound = fmt.Errorf("input not found: %w", fs.ErrNotExist)

// DocPath joins the repository, documentation root and file name.
func DocPath(repoPath, docsPath, name string) string {
	if docsPath == "" {
		docsPath = DefaultDocsPath
	}
	return filepath.Join(repoPath, docsPath, name)
}

// ReadDoc returns the content of a document under the documentation root.
func ReadDoc(repoPath, docsPath, name string) (string, error) {
	path := DocPath(repoPath, docsPath, name)
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is built from configured repo
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
