// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

// Status is the outcome of one step.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
)

// StepResult is stored as steps/<slug>.json in the run directory.
type StepResult struct {
	Step   string `json:"step"`
	Status Status `json:"status"`
	Note   string `json:"note,omitempty"`
}

// LastRun summarizes a batch and is stored as last-run.json.
type LastRun struct {
	RunID   string   `json:"run_id"`
	Status  Status   `json:"status"`
	Steps   []string `json:"steps"`
	Failed  []string `json:"failed"`
	Skipped []string `json:"skipped"`
}
