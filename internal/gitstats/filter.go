// SPDX-License-Identifier: AGPL-3.0-or-later

package gitstats

import "github.com/bartekus/devupdates/internal/scanner"

// ExcludePaths drops commits whose every changed file starts with one of
// prefixes and removes the excluded files from the rest. Line counts are
// left as they are: numstat totals are not kept per file. Commits without
// files are kept.
func ExcludePaths(commits []Commit, prefixes []string) []Commit {
	if len(prefixes) == 0 {
		return commits
	}
	opts := scanner.FilterOptions{ExcludePrefixes: prefixes}

	out := make([]Commit, 0, len(commits))
	for _, c := range commits {
		if len(c.Files) == 0 {
			out = append(out, c)
			continue
		}
		var kept []string
		for _, f := range c.Files {
			if opts.Keep(f) {
				kept = append(kept, f)
			}
		}
		if len(kept) == 0 {
			continue
		}
		c.Files = kept
		out = append(out, c)
	}
	return out
}
