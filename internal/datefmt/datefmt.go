// SPDX-License-Identifier: AGPL-3.0-or-later

// Package datefmt renders ISO dates in the short form used by chat posts ("Feb 8").
package datefmt

import (
	"strings"
	"time"
)

const (
	isoLayout     = "2006-01-02"
	displayLayout = "Jan 2"
	rangeSep      = " to "
)

// Placeholder values used in roadmap tables for "no date yet".
const (
	Dash = "—"
	TBD  = "TBD"
)

// IsSentinel reports whether s is one of the placeholder dates.
func IsSentinel(s string) bool {
	return s == "" || s == Dash || s == TBD
}

// Format converts "2026-02-08" to "Feb 8" and "A to B" ranges side by side.
// Placeholders and anything that is not an ISO date are returned unchanged.
func Format(s string) string {
	if IsSentinel(s) {
		return s
	}
	if strings.Contains(s, rangeSep) {
		parts := strings.SplitN(s, rangeSep, 2)
		return Format(strings.TrimSpace(parts[0])) + rangeSep + Format(strings.TrimSpace(parts[1]))
	}
	t, err := time.Parse(isoLayout, strings.TrimSpace(s))
	if err != nil {
		return s
	}
	return t.Format(displayLayout)
}

// ISO renders t as YYYY-MM-DD.
func ISO(t time.Time) string {
	return t.Format(isoLayout)
}

// ParseISO parses a YYYY-MM-DD date in UTC.
func ParseISO(s string) (time.Time, error) {
	return time.Parse(isoLayout, s)
}
