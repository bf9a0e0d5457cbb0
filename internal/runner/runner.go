// SPDX-License-Identifier: AGPL-3.0-or-later

// Package runner executes a batch of steps in order, reporting PASS, SKIP
// or FAIL for each and carrying on after failures.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ErrFailed is returned by Run when at least one step failed.
var ErrFailed = errors.New("run failed")

// Runner manages the execution of steps.
type Runner struct {
	steps []Step
	out   io.Writer
	store *StateStore
	skip  func(error) bool
	runID string

	banner lipgloss.Style
	pass   lipgloss.Style
	warn   lipgloss.Style
	fail   lipgloss.Style
}

type Option func(*Runner)

// WithStore records step results and the run summary in store.
func WithStore(store *StateStore) Option {
	return func(r *Runner) { r.store = store }
}

// WithSkip treats errors matching fn as SKIP in addition to ErrSkip.
func WithSkip(fn func(error) bool) Option {
	return func(r *Runner) { r.skip = fn }
}

// WithRunID fixes the run id instead of generating one.
func WithRunID(id string) Option {
	return func(r *Runner) { r.runID = id }
}

// New creates a runner printing progress to out.
func New(steps []Step, out io.Writer, opts ...Option) *Runner {
	re := lipgloss.NewRenderer(out)
	r := &Runner{
		steps:  steps,
		out:    out,
		runID:  uuid.NewString(),
		banner: re.NewStyle().Bold(true),
		pass:   re.NewStyle().Foreground(lipgloss.Color("42")),
		warn:   re.NewStyle().Foreground(lipgloss.Color("214")),
		fail:   re.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunID identifies this batch in logs and in the stored summary.
func (r *Runner) RunID() string {
	return r.runID
}

func (r *Runner) skipped(err error) bool {
	if errors.Is(err, ErrSkip) {
		return true
	}
	return r.skip != nil && r.skip(err)
}

// Run executes every step in order. It continues after a failing step and
// returns an error wrapping ErrFailed if any step failed.
func (r *Runner) Run(ctx context.Context) error {
	logger := log.WithField("run_id", r.runID)
	summary := LastRun{RunID: r.runID, Status: StatusPass}

	for _, step := range r.steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := step.Name()
		summary.Steps = append(summary.Steps, name)
		fmt.Fprintln(r.out, r.banner.Render(fmt.Sprintf("=== %s ===", name)))

		res := StepResult{Step: name, Status: StatusPass}
		err := step.Run(ctx)
		switch {
		case err == nil:
			logger.WithField("step", name).Debug("step passed")
		case r.skipped(err):
			res.Status, res.Note = StatusSkip, err.Error()
			summary.Skipped = append(summary.Skipped, name)
			fmt.Fprintln(r.out, r.warn.Render("Skipped — "+err.Error()))
		default:
			res.Status, res.Note = StatusFail, err.Error()
			summary.Failed = append(summary.Failed, name)
			summary.Status = StatusFail
			logger.WithField("step", name).WithError(err).Warn("step failed")
			fmt.Fprintln(r.out, r.fail.Render(fmt.Sprintf("FAIL: %s: %v", name, err)))
		}
		fmt.Fprintln(r.out)

		if r.store != nil {
			if err := r.store.WriteStepResult(res); err != nil {
				return fmt.Errorf("writing result for %s: %w", name, err)
			}
		}
	}

	if r.store != nil {
		if err := r.store.WriteLastRun(summary); err != nil {
			return fmt.Errorf("writing last run: %w", err)
		}
	}
	if summary.Status == StatusFail {
		return fmt.Errorf("%w: %v", ErrFailed, summary.Failed)
	}
	fmt.Fprintln(r.out, r.pass.Render(fmt.Sprintf("Done: %d steps, %d skipped", len(summary.Steps), len(summary.Skipped))))
	return nil
}
