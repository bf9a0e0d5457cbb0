// SPDX-License-Identifier: AGPL-3.0-or-later

// Package confluence reports on a markdown mirror of Confluence spaces kept
// inside the repository: page counts per space and the last week's commits.
package confluence

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/bartekus/devupdates/internal/scanner"
)

// DefaultPath is the mirror location relative to the repository root.
const DefaultPath = "docs/business/confluence"

// RootSpace names pages that sit directly in the mirror root.
const RootSpace = "(root)"

const (
	since       = "--since=7 days ago"
	hashLen     = 8
	pageExt     = ".md"
	commitParts = 3
)

// History tells whether the git activity part of a Status could be collected.
type History int

const (
	HistoryOK History = iota
	HistoryUnavailable
)

func (h History) String() string {
	if h == HistoryOK {
		return "ok"
	}
	return "unavailable"
}

// MarshalText renders the outcome for JSON output.
func (h History) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// Space is one first-level directory of the mirror.
type Space struct {
	Name          string `json:"name"`
	Count         int    `json:"count"`
	RecentChanges int    `json:"recent_changes"`
}

// Commit is a recent commit that touched the mirror.
type Commit struct {
	Hash    string `json:"hash"`
	Date    string `json:"date"`
	Subject string `json:"subject"`
}

// Status summarizes the mirror.
type Status struct {
	TotalPages    int      `json:"total_pages"`
	Spaces        []Space  `json:"spaces"`
	RecentCommits []Commit `json:"recent_commits"`
	Dir           string   `json:"confluence_dir"`

	// History is HistoryUnavailable when a git query failed; RecentCommits
	// and RecentChanges are then zero and HistoryErr holds the cause.
	History    History `json:"history"`
	HistoryErr error   `json:"-"`
}

// Scan counts pages under mirrorPath and asks git for the last 7 days of
// changes. A missing mirror directory yields an empty Status and no error.
func Scan(ctx context.Context, s *scanner.Scanner, mirrorPath string) (Status, error) {
	if mirrorPath == "" {
		mirrorPath = DefaultPath
	}
	mirrorPath = strings.TrimSuffix(path.Clean(mirrorPath), "/")

	st := Status{
		Spaces:        []Space{},
		RecentCommits: []Commit{},
		Dir:           filepath.Join(s.Root(), mirrorPath),
	}

	pages, err := s.WalkFiles(mirrorPath, scanner.FilterOptions{
		ExcludeDirs:       scanner.DefaultExcludeDirs(),
		IncludeExtensions: []string{pageExt},
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return st, nil
		}
		return st, err
	}

	counts := make(map[string]int)
	for _, p := range pages {
		counts[spaceOf(p)]++
	}
	st.TotalPages = len(pages)

	recent, err := recentChanges(ctx, s, mirrorPath)
	if err == nil {
		st.RecentCommits, err = recentCommits(ctx, s, mirrorPath)
	}
	if err != nil {
		log.WithError(err).Warn("confluence mirror history unavailable")
		st.History = HistoryUnavailable
		st.HistoryErr = err
		st.RecentCommits = []Commit{}
		recent = nil
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		st.Spaces = append(st.Spaces, Space{Name: name, Count: counts[name], RecentChanges: recent[name]})
	}
	return st, nil
}

func recentCommits(ctx context.Context, s *scanner.Scanner, mirrorPath string) ([]Commit, error) {
	out, err := s.Git(ctx, "log", since, "--format=%H|%ad|%s", "--date=format:%Y-%m-%d", "--", mirrorPath+"/")
	if err != nil {
		return nil, err
	}
	commits := []Commit{}
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, "|", commitParts)
		if len(parts) != commitParts {
			continue
		}
		hash := parts[0]
		if len(hash) > hashLen {
			hash = hash[:hashLen]
		}
		commits = append(commits, Commit{Hash: hash, Date: parts[1], Subject: parts[2]})
	}
	return commits, nil
}

func recentChanges(ctx context.Context, s *scanner.Scanner, mirrorPath string) (map[string]int, error) {
	out, err := s.Git(ctx, "log", since, "--name-only", "--format=", "--", mirrorPath+"/")
	if err != nil {
		return nil, err
	}
	prefix := mirrorPath + "/"
	changes := make(map[string]int)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasSuffix(line, pageExt) || !strings.HasPrefix(line, prefix) {
			continue
		}
		changes[spaceOf(strings.TrimPrefix(line, prefix))]++
	}
	return changes, nil
}

// spaceOf maps a mirror-relative page path to its space name.
func spaceOf(rel string) string {
	if i := strings.IndexByte(rel, '/'); i >= 0 {
		return rel[:i]
	}
	return RootSpace
}
