// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gitstats turns git history from one or more repositories into
// per-day activity records with running totals.
package gitstats

import "context"

// Commit is one parsed git commit with its numstat totals and, once
// classified, its type and project tag.
type Commit struct {
	Hash    string
	Date    string // YYYY-MM-DD in the configured timezone
	Weekday int    // 0 = Sunday
	Hour    int
	Author  string
	Subject string
	Added   int
	Deleted int
	Files   []string

	Repo    string
	Type    CommitType
	Project string
}

// HistorySource provides the commits of one repository.
type HistorySource interface {
	Commits(ctx context.Context) ([]Commit, error)
}

// Source pairs a history with the repository name used for project tagging.
type Source struct {
	Name    string
	History HistorySource
}
