// SPDX-License-Identifier: AGPL-3.0-or-later

package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimate_ZeroGuard(t *testing.T) {
	r := Estimate(0, nil, Options{})
	assert.Equal(t, Result{}, r)
	assert.Zero(t, r.SpeedupFactor)
}

func TestEstimate_NoHistory(t *testing.T) {
	r := Estimate(5000, map[string]int{}, Options{})
	assert.Equal(t, 40.0, r.EstimatedWorkingDays)
	assert.Zero(t, r.ActiveCodingDays)
	assert.Zero(t, r.SpeedupFactor)
}

func TestEstimate_NoCode(t *testing.T) {
	r := Estimate(0, map[string]int{"2026-01-01": 3}, Options{})
	assert.Equal(t, 1, r.ActiveCodingDays)
	assert.Zero(t, r.SpeedupFactor)
	assert.Zero(t, r.CocomoEffortPM)
}

func TestEstimate(t *testing.T) {
	commits := map[string]int{
		"2026-01-01": 4,
		"2026-01-02": 2,
		"2026-01-05": 1, // gap of 2 days: short, stays in the active period
		"2026-01-15": 6, // gap of 9 days: idle stretch
		"2026-01-16": 3,
	}
	r := Estimate(10000, commits, Options{})

	assert.Equal(t, 10.0, r.KLOC)
	assert.Equal(t, 80.0, r.EstimatedWorkingDays)
	assert.Equal(t, 16.0, r.EstimatedWeeks)

	// 2.4 * 10^1.05 = 26.93; 2.5 * 26.93^0.38 = 8.74
	assert.Equal(t, 26.9, r.CocomoEffortPM)
	assert.Equal(t, 8.7, r.CocomoScheduleMonths)
	assert.Equal(t, 38.0, r.CocomoWeeks)

	assert.Equal(t, 16, r.CalendarDays)
	assert.Equal(t, 5, r.ActiveCodingDays)
	assert.Equal(t, 11, r.InactiveDays)
	assert.Equal(t, 9, r.LongestGapDays)
	assert.Equal(t, 7, r.ActivePeriodDays)
	assert.Equal(t, 16.0, r.SpeedupFactor)
}

func TestEstimate_MaxGapOption(t *testing.T) {
	commits := map[string]int{"2026-01-01": 1, "2026-01-06": 1}
	assert.Equal(t, 2, Estimate(100, commits, Options{}).ActivePeriodDays)
	assert.Equal(t, 6, Estimate(100, commits, Options{MaxGapDays: 10}).ActivePeriodDays)
}

func TestEstimate_IgnoresBadDates(t *testing.T) {
	r := Estimate(250, map[string]int{"2026-01-01": 1, "soon": 2}, Options{})
	assert.Equal(t, 1, r.CalendarDays)
	assert.Equal(t, 1, r.ActiveCodingDays)
	assert.Equal(t, 2.0, r.SpeedupFactor)
}
