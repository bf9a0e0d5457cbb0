// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scanner runs git inside a repository and walks its working tree.
package scanner

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Scanner is bound to one repository root.
type Scanner struct {
	repoRoot string
	timezone string
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithTimezone sets TZ for git so %ad dates and hours use that zone.
// An empty name keeps the process environment.
func WithTimezone(tz string) Option {
	return func(s *Scanner) { s.timezone = tz }
}

// New creates a Scanner for the given repository root.
func New(repoRoot string, opts ...Option) *Scanner {
	s := &Scanner{repoRoot: repoRoot}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the repository root the scanner was created with.
func (s *Scanner) Root() string { return s.repoRoot }

// Git runs git with args in the repository root and returns stdout.
// A non-zero exit is reported with the captured stderr.
func (s *Scanner) Git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = s.repoRoot
	if s.timezone != "" {
		cmd.Env = append(os.Environ(), "TZ="+s.timezone)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.WithFields(log.Fields{"repo": s.repoRoot, "args": args}).Debug("running git")
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s failed: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// WalkFiles lists regular files under dir (relative to the repository root),
// returning slash-separated paths relative to dir that pass opts, sorted.
// A missing dir is returned as fs.ErrNotExist.
func (s *Scanner) WalkFiles(dir string, opts FilterOptions) ([]string, error) {
	root := filepath.Join(s.repoRoot, dir)
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", root, fs.ErrNotExist)
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && hasExcludedSegment(d.Name(), opts.ExcludeDirs) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return FilterFiles(paths, opts), nil
}
