// SPDX-License-Identifier: AGPL-3.0-or-later

package gitstats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExcludePaths(t *testing.T) {
	prefixes := []string{"docs/business/confluence/"}
	commits := []Commit{
		{Hash: "all-excluded", Added: 50, Files: []string{"docs/business/confluence/ENG/a.md"}},
		{Hash: "mixed", Added: 12, Files: []string{"docs/business/confluence/ENG/a.md", "src/app.go"}},
		{Hash: "untouched", Files: []string{"src/app.go"}},
		{Hash: "no-files"},
	}

	got := ExcludePaths(commits, prefixes)
	if assert.Len(t, got, 3) {
		assert.Equal(t, "mixed", got[0].Hash)
		assert.Equal(t, []string{"src/app.go"}, got[0].Files)
		assert.Equal(t, 12, got[0].Added)
		assert.Equal(t, "untouched", got[1].Hash)
		assert.Equal(t, "no-files", got[2].Hash)
	}

	// Input is not modified.
	assert.Len(t, commits[1].Files, 2)
}

func TestExcludePaths_NoPrefixes(t *testing.T) {
	commits := []Commit{{Hash: "a", Files: []string{"x"}}}
	assert.Equal(t, commits, ExcludePaths(commits, nil))
}
