// SPDX-License-Identifier: AGPL-3.0-or-later

package gitstats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyCommit(t *testing.T) {
	tests := []struct {
		subject string
		want    CommitType
		ok      bool
	}{
		{"Fix login redirect", TypeBugfix, true},
		{"hotfix: null pointer", TypeBugfix, true},
		{"Bugfix for exports", TypeBugfix, true},
		{"Fixup styles", FallbackType, true},
		{"Refactor auth middleware", TypeRefactor, true},
		{"Deploy to staging", TypeInfra, true},
		{"Add Cloud Run service", TypeInfra, true},
		{"Tune gcp quotas", TypeInfra, true},
		{"Update README", TypeDocs, true},
		{"Add docs for billing", TypeDocs, true},
		{"notes.md", TypeDocs, true},
		{"Ignore build output", "", false},
		{".gitignore tweaks", "", false},
		{"Merge branch 'x'", "", false},
		{"merge pull request #4", "", false},
		{"Add invoices table", TypeFeature, true},
		{"Set up CI", TypeFeature, true},
		{"Wire billing webhooks", TypeFeature, true},
		{"Bump deps", TypeUpdate, true},
		{"improve caching", TypeUpdate, true},
	}
	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			got, ok := ClassifyCommit(tt.subject)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyCommit_FallbackIsFeature(t *testing.T) {
	got, ok := ClassifyCommit("Tweak spacing")
	assert.True(t, ok)
	assert.Equal(t, FallbackType, got)
	assert.Equal(t, TypeFeature, got)
}

func TestClassifyProject(t *testing.T) {
	tests := []struct {
		name      string
		repo      string
		files     []string
		workspace string
		want      string
		ok        bool
	}{
		{"non-workspace repo keeps name", "api", []string{"scripts/x.sh"}, "planning", "api", true},
		{"no workspace configured", "planning", []string{"scripts/x.sh"}, "", "planning", true},
		{"tools wins", "planning", []string{"docs/a.md", "scripts/x.sh", "infra/main.tf"}, "planning", ProjectTools, true},
		{"infra over docs", "planning", []string{"docs/a.md", "infra/main.tf"}, "planning", ProjectInfra, true},
		{"docs only", "planning", []string{"docs/a.md"}, "planning", ProjectDocs, true},
		{"other paths use repo name", "planning", []string{"web/app.ts", ".claude/settings.json"}, "planning", "planning", true},
		{"only ignored paths", "planning", []string{".claude/settings.json", ".gitignore", "CLAUDE.md"}, "planning", "", false},
		{"no files", "planning", nil, "planning", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ClassifyProject(tt.repo, tt.files, tt.workspace)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
