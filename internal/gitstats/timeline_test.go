// SPDX-License-Identifier: AGPL-3.0-or-later

package gitstats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTimeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`snapshots:
  - date: "2026-02-01"
    infrastructure_services: [PostgreSQL, Redis]
    dependencies: {total: 14, production: 10, dev: 4}
  - date: "2026-01-01"
    infrastructure_services: [PostgreSQL]
    dependencies: {total: 10, production: 7, dev: 3}
`), 0o644))

	tl, err := LoadTimeline(path)
	require.NoError(t, err)

	assert.Empty(t, tl.At("2025-12-31").InfrastructureServices)
	assert.Equal(t, []string{"PostgreSQL"}, tl.At("2026-01-01").InfrastructureServices)
	assert.Equal(t, 10, tl.At("2026-01-31").Dependencies["total"])
	assert.Equal(t, []string{"PostgreSQL", "Redis"}, tl.At("2026-03-15").InfrastructureServices)
}

func TestLoadTimeline_MissingOrEmptyPath(t *testing.T) {
	tl, err := LoadTimeline("")
	require.NoError(t, err)
	assert.Equal(t, TimelineEntry{}, tl.At("2026-01-01"))

	tl, err = LoadTimeline(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, TimelineEntry{}, tl.At("2026-01-01"))
}

func TestLoadTimeline_Invalid(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("snapshots: [\n"), 0o644))
	_, err := LoadTimeline(bad)
	assert.Error(t, err)

	_, err = NewTimeline([]TimelineEntry{{Date: "Jan 1"}})
	assert.Error(t, err)
}

func TestTimeline_Nil(t *testing.T) {
	var tl *Timeline
	assert.Equal(t, TimelineEntry{}, tl.At("2026-01-01"))
}
