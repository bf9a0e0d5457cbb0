// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMissing = errors.New("file not found")

// mockStep implements Step for testing.
type mockStep struct {
	name   string
	err    error
	called bool
}

func (m *mockStep) Name() string { return m.name }

func (m *mockStep) Run(context.Context) error {
	m.called = true
	return m.err
}

func readLastRun(t *testing.T, dir string) LastRun {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "last-run.json"))
	require.NoError(t, err)
	var last LastRun
	require.NoError(t, json.Unmarshal(data, &last))
	return last
}

func TestRunner_Run(t *testing.T) {
	dir := t.TempDir()
	store := NewStateStore(dir)

	s1 := &mockStep{name: "Roadmap"}
	s2 := &mockStep{name: "Release"}
	var out bytes.Buffer

	r := New([]Step{s1, s2}, &out, WithStore(store), WithRunID("run-1"))
	require.NoError(t, r.Run(context.Background()))

	assert.True(t, s1.called)
	assert.True(t, s2.called)
	assert.Contains(t, out.String(), "=== Roadmap ===\n\n=== Release ===\n")
	assert.Contains(t, out.String(), "Done: 2 steps, 0 skipped")

	last := readLastRun(t, dir)
	assert.Equal(t, LastRun{RunID: "run-1", Status: StatusPass, Steps: []string{"Roadmap", "Release"}}, last)
}

func TestRunner_Run_FailureContinues(t *testing.T) {
	dir := t.TempDir()
	store := NewStateStore(dir)

	s1 := &mockStep{name: "Stats", err: errors.New("git log failed")}
	s2 := &mockStep{name: "Changelog", err: fmt.Errorf("read CHANGELOG.md: %w", errMissing)}
	s3 := &mockStep{name: "Confluence", err: Skip("no channel configured")}
	var out bytes.Buffer

	r := New([]Step{s1, s2, s3}, &out, WithStore(store), WithSkip(func(err error) bool {
		return errors.Is(err, errMissing)
	}))
	err := r.Run(context.Background())
	require.ErrorIs(t, err, ErrFailed)

	assert.True(t, s2.called)
	assert.True(t, s3.called)
	assert.Contains(t, out.String(), "FAIL: Stats: git log failed")
	assert.Contains(t, out.String(), "Skipped — read CHANGELOG.md: file not found")
	assert.Contains(t, out.String(), "Skipped — no channel configured\n")

	last := readLastRun(t, dir)
	assert.Equal(t, StatusFail, last.Status)
	assert.Equal(t, r.RunID(), last.RunID)
	assert.Equal(t, []string{"Stats"}, last.Failed)
	assert.Equal(t, []string{"Changelog", "Confluence"}, last.Skipped)

	data, err := os.ReadFile(filepath.Join(dir, "steps", "changelog.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status": "skip"`)
}

func TestRunner_Run_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s1 := &mockStep{name: "Roadmap"}
	var out bytes.Buffer

	err := New([]Step{s1}, &out).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, s1.called)
	assert.NotContains(t, out.String(), "Roadmap")
}

func TestSkip(t *testing.T) {
	err := fmt.Errorf("confluence: %w", Skip("no channel configured"))
	assert.ErrorIs(t, err, ErrSkip)
	assert.EqualError(t, err, "confluence: no channel configured")
	assert.NotErrorIs(t, errors.New("skipped"), ErrSkip)
}

func TestNewStep(t *testing.T) {
	var ran bool
	s := NewStep("Stats", func(context.Context) error { ran = true; return nil })
	assert.Equal(t, "Stats", s.Name())
	require.NoError(t, s.Run(context.Background()))
	assert.True(t, ran)
}
