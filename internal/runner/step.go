// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

import (
	"context"
	"errors"
)

// ErrSkip marks a step that had nothing to do. Errors wrapping it report SKIP.
var ErrSkip = errors.New("skipped")

type skipError string

func (e skipError) Error() string        { return string(e) }
func (e skipError) Is(target error) bool { return target == ErrSkip }

// Skip returns an error matching ErrSkip whose message is reason.
func Skip(reason string) error {
	return skipError(reason)
}

// Step is one unit of a batch, such as one post kind of `all`.
type Step interface {
	Name() string
	Run(ctx context.Context) error
}

type funcStep struct {
	name string
	fn   func(ctx context.Context) error
}

func (s funcStep) Name() string                  { return s.name }
func (s funcStep) Run(ctx context.Context) error { return s.fn(ctx) }

// NewStep adapts fn to a Step.
func NewStep(name string, fn func(ctx context.Context) error) Step {
	return funcStep{name: name, fn: fn}
}
