// SPDX-License-Identifier: AGPL-3.0-or-later

package gitstats

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bartekus/devupdates/internal/scanner"
)

const (
	commitMarker = "COMMIT|"
	logFormat    = "--format=COMMIT|%H|%ad|%an|%s"
	dateFormat   = "--date=format:%Y-%m-%d|%w|%H"
	binaryStat   = "-"
)

// GitHistory reads commits with per-file line counts from a repository.
type GitHistory struct {
	scanner *scanner.Scanner
}

// NewGitHistory returns a HistorySource over the repository s is bound to.
func NewGitHistory(s *scanner.Scanner) *GitHistory {
	return &GitHistory{scanner: s}
}

// Commits runs git log --numstat and parses its output, newest first.
func (g *GitHistory) Commits(ctx context.Context) ([]Commit, error) {
	out, err := g.scanner.Git(ctx, "log", logFormat, dateFormat, "--numstat")
	if err != nil {
		return nil, err
	}
	return ParseLog(out)
}

// ParseLog parses the output of git log in the COMMIT|hash|date|dow|hour|author|subject
// format followed by numstat lines. Binary files ("-" counts) add no lines
// but are still listed in Files.
func ParseLog(raw string) ([]Commit, error) {
	var commits []Commit
	current := -1

	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, commitMarker) {
			c, err := parseHeader(line)
			if err != nil {
				return nil, err
			}
			commits = append(commits, c)
			current = len(commits) - 1
			continue
		}
		if current < 0 || !strings.Contains(line, "\t") {
			continue
		}

		parts := strings.SplitN(line, "\t", 3)
		c := &commits[current]
		n, err := numstat(parts[0])
		if err != nil {
			return nil, fmt.Errorf("commit %s: %w", c.Hash, err)
		}
		c.Added += n
		if len(parts) > 1 {
			n, err = numstat(parts[1])
			if err != nil {
				return nil, fmt.Errorf("commit %s: %w", c.Hash, err)
			}
			c.Deleted += n
		}
		if len(parts) > 2 {
			c.Files = append(c.Files, parts[2])
		}
	}
	return commits, nil
}

func parseHeader(line string) (Commit, error) {
	parts := strings.SplitN(line, "|", 7)
	if len(parts) < 7 {
		return Commit{}, fmt.Errorf("malformed log line %q", line)
	}
	dow, err := strconv.Atoi(parts[3])
	if err != nil {
		return Commit{}, fmt.Errorf("malformed weekday in %q: %w", line, err)
	}
	hour, err := strconv.Atoi(parts[4])
	if err != nil {
		return Commit{}, fmt.Errorf("malformed hour in %q: %w", line, err)
	}
	return Commit{
		Hash:    parts[1],
		Date:    parts[2],
		Weekday: dow,
		Hour:    hour,
		Author:  parts[5],
		Subject: parts[6],
	}, nil
}

func numstat(s string) (int, error) {
	if s == binaryStat {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("malformed numstat count %q: %w", s, err)
	}
	return n, nil
}
