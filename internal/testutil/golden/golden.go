// SPDX-License-Identifier: AGPL-3.0-or-later

// Package golden compares rendered payloads against files under testdata/.
// Run tests with -update to rewrite the files from the current output.
package golden

import (
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// Update rewrites golden files instead of comparing against them.
var Update = flag.Bool("update", false, "update golden files")

// TestdataDir returns the testdata directory next to the calling test file.
func TestdataDir(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(1)
	if !ok {
		t.Fatalf("runtime.Caller failed")
	}
	return filepath.Join(filepath.Dir(filename), "testdata")
}

// Read returns the content of <dir>/<name>.golden, or "" when it does not exist.
func Read(t *testing.T, dir, name string) string {
	t.Helper()
	safeName(t, name)

	path := filepath.Join(dir, name+".golden")
	data, err := os.ReadFile(path) //nolint:gosec // testdata path controlled by test
	if err != nil {
		if os.IsNotExist(err) {
			return ""
		}
		t.Fatalf("read golden %s: %v", path, err)
	}
	return string(data)
}

// Write stores content as <dir>/<name>.golden.
func Write(t *testing.T, dir, name, content string) {
	t.Helper()
	safeName(t, name)

	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("mkdir testdata: %v", err)
	}
	path := filepath.Join(dir, name+".golden")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write golden %s: %v", path, err)
	}
}

// Equal compares got with the named golden file, or rewrites the file when
// -update is set.
func Equal(t *testing.T, dir, name, got string) {
	t.Helper()
	if *Update {
		Write(t, dir, name, got)
		return
	}
	want := Read(t, dir, name)
	if want == "" {
		t.Fatalf("golden %s missing; run with -update", name)
	}
	if got != want {
		t.Errorf("output differs from %s.golden\n--- got ---\n%s\n--- want ---\n%s", name, got, want)
	}
}

func safeName(t *testing.T, name string) {
	t.Helper()
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		t.Fatalf("invalid golden name %q", name)
	}
}
