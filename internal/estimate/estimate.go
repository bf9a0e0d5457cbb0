// SPDX-License-Identifier: AGPL-3.0-or-later

// Package estimate sizes a code base in solo-developer time and compares it
// with the commit timeline that produced it.
package estimate

import (
	"math"
	"sort"

	"github.com/bartekus/devupdates/internal/datefmt"
)

const (
	// LOCPerDay is the assumed productive output of a senior developer.
	LOCPerDay = 125

	daysPerWeek   = 5
	weeksPerMonth = 4.33

	// Organic-mode COCOMO coefficients. Reference value only: the model
	// over-predicts badly for framework-heavy projects.
	cocomoA = 2.4
	cocomoB = 1.05
	cocomoC = 2.5
	cocomoD = 0.38

	// DefaultMaxGapDays is the longest idle stretch still counted as part of
	// the active period.
	DefaultMaxGapDays = 3
)

// Options tunes the timeline analysis.
type Options struct {
	MaxGapDays int
}

// Result holds both estimates and the actual timeline.
type Result struct {
	KLOC                 float64 `json:"kloc"`
	EstimatedWorkingDays float64 `json:"estimated_working_days"`
	EstimatedWeeks       float64 `json:"estimated_weeks"`

	CocomoEffortPM       float64 `json:"cocomo_effort_pm"`
	CocomoScheduleMonths float64 `json:"cocomo_schedule_months"`
	CocomoWeeks          float64 `json:"cocomo_weeks"`

	CalendarDays     int `json:"calendar_days"`
	ActiveCodingDays int `json:"active_coding_days"`
	InactiveDays     int `json:"inactive_days"`
	ActivePeriodDays int `json:"active_period_days"`
	LongestGapDays   int `json:"longest_gap_days"`

	SpeedupFactor float64 `json:"speedup_factor"`
}

// Estimate computes the productivity estimate, the COCOMO reference and the
// timeline analysis. Days are rounded to whole numbers; KLOC, person-months,
// schedule months and the speedup to one decimal.
func Estimate(totalLOC int, commitsByDate map[string]int, opts Options) Result {
	if opts.MaxGapDays <= 0 {
		opts.MaxGapDays = DefaultMaxGapDays
	}

	kloc := float64(totalLOC) / 1000
	var workingDays float64
	if totalLOC > 0 {
		workingDays = float64(totalLOC) / LOCPerDay
	}
	weeks := workingDays / daysPerWeek

	var effort, schedule float64
	if kloc > 0 {
		effort = cocomoA * math.Pow(kloc, cocomoB)
		schedule = cocomoC * math.Pow(effort, cocomoD)
	}

	tl := analyzeTimeline(commitsByDate, opts.MaxGapDays)

	var speedup float64
	if tl.ActiveCodingDays > 0 && workingDays > 0 {
		speedup = workingDays / float64(tl.ActiveCodingDays)
	}

	tl.KLOC = round1(kloc)
	tl.EstimatedWorkingDays = math.RoundToEven(workingDays)
	tl.EstimatedWeeks = math.RoundToEven(weeks)
	tl.CocomoEffortPM = round1(effort)
	tl.CocomoScheduleMonths = round1(schedule)
	tl.CocomoWeeks = math.RoundToEven(schedule * weeksPerMonth)
	tl.SpeedupFactor = round1(speedup)
	return tl
}

// analyzeTimeline fills the calendar fields of a Result. Dates that do not
// parse as ISO dates are ignored.
func analyzeTimeline(commitsByDate map[string]int, maxGap int) Result {
	var dates []string
	for d := range commitsByDate {
		if _, err := datefmt.ParseISO(d); err == nil {
			dates = append(dates, d)
		}
	}
	if len(dates) == 0 {
		return Result{}
	}
	sort.Strings(dates)

	days := func(a, b string) int {
		ta, _ := datefmt.ParseISO(a)
		tb, _ := datefmt.ParseISO(b)
		return int(tb.Sub(ta).Hours() / 24)
	}

	calendar := days(dates[0], dates[len(dates)-1]) + 1
	longest, idle := 0, 0
	for i := 1; i < len(dates); i++ {
		gap := days(dates[i-1], dates[i]) - 1
		if gap > longest {
			longest = gap
		}
		if gap > maxGap {
			idle += gap
		}
	}

	return Result{
		CalendarDays:     calendar,
		ActiveCodingDays: len(dates),
		InactiveDays:     calendar - len(dates),
		ActivePeriodDays: calendar - idle,
		LongestGapDays:   longest,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
