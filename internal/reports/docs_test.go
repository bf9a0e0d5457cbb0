// SPDX-License-Identifier: AGPL-3.0-or-later

package reports

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDoc(t *testing.T) {
	repo := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repo, "notes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(repo, "notes", RoadmapFile), []byte("# Roadmap\n"), 0o644))

	got, err := ReadDoc(repo, "notes", RoadmapFile)
	require.NoError(t, err)
	assert.Equal(t, "# Roadmap\n", got)
}

func TestReadDoc_Missing(t *testing.T) {
	_, err := ReadDoc(t.TempDir(), "", ChangelogFile)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), filepath.Join(DefaultDocsPath, ChangelogFile))
}
