// SPDX-License-Identifier: AGPL-3.0-or-later

package blocks

import (
	"fmt"
	"maps"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/bartekus/devupdates/internal/chart"
	"github.com/bartekus/devupdates/internal/estimate"
	"github.com/bartekus/devupdates/internal/gitstats"
	"github.com/bartekus/devupdates/internal/projection"
)

const maxSummary = 200

// Day is the input of the daily stats post.
type Day struct {
	Stat      gitstats.DailyStat
	Prev      *gitstats.DailyStat // nil on the first day
	Number    int
	TotalDays int
	Charts    chart.Daily
	Estimate  *estimate.Result // optional
}

// DailyStats renders one development day: the day's activity, running
// totals, charts, and infrastructure, dependency and difficulty sections
// when they differ from the previous day.
func DailyStats(d Day) []Block {
	s := d.Stat
	out := []Block{
		Header(fmt.Sprintf("📊 %s — Day %d/%d", s.ProjectName, d.Number, d.TotalDays)),
		ContextLine(fmt.Sprintf("%s · Day %d since first commit", s.GeneratedAt, s.ProjectAgeDays)),
		Divider(),
	}

	added, deleted := s.LinesOfCode.DailyAdded, s.LinesOfCode.DailyDeleted
	net := added - deleted
	sign := ""
	if net >= 0 {
		sign = "+"
	}
	out = append(out, Section(fmt.Sprintf("🔥 *Today's Activity*\n%s commits · +%s / -%s lines (net %s%s)",
		comma(s.Git.DailyCommits), comma(added), comma(deleted), sign, comma(net))))

	if tags := tagLine(s.CommitTags, s.ProjectTags); tags != "" {
		out = append(out, ContextLine("🏷️ "+tags))
	}

	out = append(out, Fields(
		"*Total LOC*\n"+comma(s.LinesOfCode.Total),
		"*Total Commits*\n"+comma(s.Git.TotalCommits),
	))

	if len(s.Git.Contributors) > 0 {
		names := make([]string, len(s.Git.Contributors))
		for i, c := range s.Git.Contributors {
			names[i] = fmt.Sprintf("%s (%d)", c.Name, c.Commits)
		}
		out = append(out, ContextLine("Contributors: "+strings.Join(names, ", ")))
	}

	if len(s.CommitSubjects) > 0 {
		summary := strings.Join(s.CommitSubjects, "; ")
		if r := []rune(summary); len(r) > maxSummary {
			summary = string(r[:maxSummary-3]) + "..."
		}
		out = append(out, Section("📝 *Summary:* "+summary))
	}

	if d.Charts.CommitLine != "" {
		out = append(out, Divider(), Image(d.Charts.CommitLine, "Commit activity over time"))
	}
	if d.Charts.PunchCard != "" {
		out = append(out, Image(d.Charts.PunchCard, "Coding hours heatmap"))
	}

	var prev gitstats.DailyStat
	if d.Prev != nil {
		prev = *d.Prev
	}
	out = append(out, infraChanges(s.InfrastructureServices, prev.InfrastructureServices)...)
	out = append(out, dependencyChanges(s.Dependencies, prev.Dependencies)...)

	if s.Difficulty != (gitstats.Difficulty{}) && s.Difficulty != prev.Difficulty {
		out = append(out, Divider(), Section(difficulty(s.Difficulty)))
	}

	if d.Estimate != nil {
		out = append(out, Divider(), Section(estimateText(*d.Estimate)))
	}

	footer := fmt.Sprintf("Generated by devupdates · Day %d of %d", d.Number, d.TotalDays)
	if len(s.ProjectTags) > 0 {
		footer += " · " + strings.Join(projection.SortedKeys(s.ProjectTags), ", ")
	}
	return append(out, Divider(), ContextLine(footer))
}

func comma(n int) string {
	return humanize.Comma(int64(n))
}

// tagLine lists commit types by count and, when more than one project
// contributed, projects by count. A single project is shown by name.
func tagLine(commitTags, projectTags map[string]int) string {
	var parts []string
	if len(commitTags) > 0 {
		parts = append(parts, countList(commitTags))
	}
	switch {
	case len(projectTags) > 1:
		parts = append(parts, countList(projectTags))
	case len(projectTags) == 1:
		parts = append(parts, projection.SortedKeys(projectTags)[0])
	}
	return strings.Join(parts, " — ")
}

func countList(m map[string]int) string {
	keys := projection.SortedKeys(m)
	sort.SliceStable(keys, func(i, j int) bool { return m[keys[i]] > m[keys[j]] })
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s (%d)", k, m[k])
	}
	return strings.Join(parts, " · ")
}

func infraChanges(current, previous []string) []Block {
	seen := make(map[string]bool, len(previous))
	for _, s := range previous {
		seen[s] = true
	}
	unique := make(map[string]bool, len(current))
	var added []string
	for _, s := range current {
		if unique[s] {
			continue
		}
		unique[s] = true
		if !seen[s] {
			added = append(added, s)
		}
	}
	if len(added) == 0 {
		return nil
	}
	sort.Strings(added)
	return []Block{Divider(), Section(fmt.Sprintf("🏗️ *Infrastructure* (%d services, +%d new)\n%s",
		len(unique), len(added), strings.Join(added, ", ")))}
}

func dependencyChanges(current, previous map[string]int) []Block {
	if len(current) == 0 || maps.Equal(current, previous) {
		return nil
	}
	text := fmt.Sprintf("📦 *Dependencies*: %d packages (%d prod, %d dev)",
		current["total"], current["production"], current["dev"])
	if delta := current["total"] - previous["total"]; delta != 0 {
		deltaStr := strconv.Itoa(delta)
		if delta > 0 {
			deltaStr = "+" + deltaStr
		}
		text += fmt.Sprintf(" (%s new)", deltaStr)
	}
	return []Block{Section(text)}
}

func difficulty(d gitstats.Difficulty) string {
	filled := int(math.RoundToEven(d.Rating))
	empty := max(d.Max-filled, 0)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return fmt.Sprintf("⭐ *Difficulty: %s (%s/%d)*\n`%s`", d.Label, formatRating(d.Rating), d.Max, bar)
}

func formatRating(r float64) string {
	if r == math.Trunc(r) {
		return strconv.FormatFloat(r, 'f', 1, 64)
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func estimateText(e estimate.Result) string {
	text := fmt.Sprintf("⏱️ *Estimated Dev Time*\nSolo developer estimate: ~%.0f weeks (COCOMO reference: ~%.0f weeks)\nActual: %d calendar days (%d active coding days)\n",
		e.EstimatedWeeks, e.CocomoWeeks, e.CalendarDays, e.ActiveCodingDays)
	if e.SpeedupFactor > 1 {
		text += fmt.Sprintf("AI-assisted speedup: ~%.1fx", e.SpeedupFactor)
	}
	return text
}
