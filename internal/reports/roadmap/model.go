// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Devupdates - posts project progress (roadmap, releases, changelog, coding stats) from
repository markdown and git history to Slack.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package roadmap parses the phase summary table of ROADMAP.md.
package roadmap

// Status is the completion state recorded in the roadmap table. Values other
// than the constants below are kept verbatim.
type Status string

const (
	StatusComplete Status = "COMPLETE"
	StatusPending  Status = "PENDING"
	StatusPlanned  Status = "PLANNED"
)

// Upcoming reports whether the phase is still scheduled (pending or planned).
func (s Status) Upcoming() bool {
	return s == StatusPending || s == StatusPlanned
}

// Phase represents a single row of the phase summary table.
type Phase struct {
	Number      int    `json:"number"`
	Name        string `json:"name"`
	Date        string `json:"date"`
	DateDisplay string `json:"date_display"`
	Status      Status `json:"status"`
}

// PhaseRef identifies the next phase to ship.
type PhaseRef struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// Roadmap is the parsed table plus its derived counters.
type Roadmap struct {
	Date           string    `json:"date"`
	DateDisplay    string    `json:"date_display"`
	Phases         []Phase   `json:"phases"`
	CompletedCount int       `json:"completed_count"`
	TotalCount     int       `json:"total_count"`
	NextPlanned    *PhaseRef `json:"next_planned"`
}

// Snapshot is the roadmap as it stood on one shipping date.
type Snapshot struct {
	Roadmap
	ShippedPhases []Phase `json:"shipped_phases"`
}
