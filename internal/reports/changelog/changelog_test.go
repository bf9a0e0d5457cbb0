// SPDX-License-Identifier: AGPL-3.0-or-later

package changelog

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/devupdates/internal/reports"
)

func TestLoad(t *testing.T) {
	cl, err := Load("testdata", "claude_docs", false)
	require.NoError(t, err)
	require.Len(t, cl.Phases, 3)

	latest := cl.Phases[0]
	assert.Equal(t, "Phase 9", latest.Name)
	assert.Equal(t, "2026-02-10", latest.Date)
	assert.Equal(t, "Feb 10", latest.DateDisplay)
	require.Len(t, latest.Sections, 3)
	assert.Equal(t, []string{"Added", "Fixed", "Dependencies"},
		[]string{latest.Sections[0].Name, latest.Sections[1].Name, latest.Sections[2].Name})
	assert.Equal(t, []string{"Team invitations", "Audit log export"}, latest.Section(SectionAdded))
	assert.Nil(t, latest.Section(SectionDatabase))

	ranged := cl.Phases[1]
	assert.Equal(t, "Feb 1 to Feb 4", ranged.DateDisplay)
	assert.Equal(t, []string{"New `invoices` table"}, ranged.Section(SectionDatabase))

	undated := cl.Phases[2]
	assert.Equal(t, "Pre-Phase 1", undated.Name)
	assert.Equal(t, "", undated.Date)
	assert.Equal(t, []string{"Repository scaffold"}, undated.Section(SectionAdded))
}

func TestLoad_LatestOnly(t *testing.T) {
	cl, err := Load("testdata", "claude_docs", true)
	require.NoError(t, err)
	require.Len(t, cl.Phases, 1)
	assert.Equal(t, "Phase 9", cl.Phases[0].Name)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.TempDir(), "claude_docs", false)
	assert.True(t, errors.Is(err, reports.ErrNotFound))
}

func TestParse_ItemOrderAndCount(t *testing.T) {
	var b strings.Builder
	b.WriteString("## [Phase 2] — 2026-03-01\n\n### Added\n")
	for i := 1; i <= 20; i++ {
		fmt.Fprintf(&b, "- item %d\n", i)
	}

	cl := Parse(b.String(), false)
	require.Len(t, cl.Phases, 1)
	items := cl.Phases[0].Section(SectionAdded)
	require.Len(t, items, 20)
	assert.Equal(t, "item 1", items[0])
	assert.Equal(t, "item 20", items[19])
}

func TestParse_DuplicateSection(t *testing.T) {
	cl := Parse("## [P] — 2026-01-01\n### Added\n- a\n### Fixed\n- f\n### Added\n- b\n", false)
	require.Len(t, cl.Phases, 1)
	secs := cl.Phases[0].Sections
	require.Len(t, secs, 2)
	assert.Equal(t, Section{Name: "Added", Items: []string{"b"}}, secs[0])
}

func TestParse_EmptySection(t *testing.T) {
	cl := Parse("## [P]\n### Notes\nplain text only\n", false)
	require.Len(t, cl.Phases, 1)
	assert.Equal(t, []Section{{Name: "Notes", Items: []string{}}}, cl.Phases[0].Sections)
}
