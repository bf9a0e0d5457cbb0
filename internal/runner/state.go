// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

import (
	"path/filepath"

	"github.com/bartekus/devupdates/internal/projection"
)

// StateStore writes run results below a base directory.
type StateStore struct {
	baseDir string
}

// NewStateStore creates a store at the given base directory (e.g. out/run).
func NewStateStore(baseDir string) *StateStore {
	return &StateStore{baseDir: baseDir}
}

// WriteLastRun saves the execution summary.
func (s *StateStore) WriteLastRun(last LastRun) error {
	_, err := projection.WritePayload(s.baseDir, "last-run", last)
	return err
}

// WriteStepResult saves a step's result.
func (s *StateStore) WriteStepResult(res StepResult) error {
	_, err := projection.WritePayload(filepath.Join(s.baseDir, "steps"), res.Step, res)
	return err
}
