// SPDX-License-Identifier: AGPL-3.0-or-later

package blocks

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/devupdates/internal/chart"
	"github.com/bartekus/devupdates/internal/estimate"
	"github.com/bartekus/devupdates/internal/gitstats"
)

func sampleDay() gitstats.DailyStat {
	return gitstats.DailyStat{
		ProjectName:    "Acme",
		GeneratedAt:    "2026-01-03",
		ProjectAgeDays: 3,
		LinesOfCode:    gitstats.LinesOfCode{Total: 12345, DailyAdded: 1200, DailyDeleted: 1500},
		Git: gitstats.GitTotals{
			TotalCommits: 5,
			DailyCommits: 2,
			Contributors: []gitstats.Contributor{{Name: "Grace", Commits: 3}, {Name: "Ada", Commits: 2}},
		},
		CommitSubjects:         []string{"Add auth", "Fix auth"},
		InfrastructureServices: []string{"Redis", "PostgreSQL"},
		Dependencies:           map[string]int{"total": 14, "production": 10, "dev": 4},
		Difficulty:             gitstats.ProjectDifficulty,
		CommitTags:             map[string]int{"feature": 1, "bugfix": 1},
		ProjectTags:            map[string]int{"web": 1, "api": 1},
	}
}

func texts(out []Block) []string {
	var s []string
	for _, b := range out {
		switch {
		case b.Text != nil:
			s = append(s, b.Text.Text)
		case len(b.Elements) > 0:
			s = append(s, b.Elements[0].Text)
		case len(b.Fields) > 0:
			s = append(s, b.Fields[0].Text+"|"+b.Fields[1].Text)
		case b.ImageURL != "":
			s = append(s, "img:"+b.ImageURL)
		}
	}
	return s
}

func TestDailyStats_FirstDay(t *testing.T) {
	out := DailyStats(Day{
		Stat:      sampleDay(),
		Number:    2,
		TotalDays: 4,
		Charts:    chart.Daily{CommitLine: "https://c/line", PunchCard: "https://c/punch"},
	})

	assert.Equal(t, []string{
		"📊 Acme — Day 2/4",
		"2026-01-03 · Day 3 since first commit",
		"🔥 *Today's Activity*\n2 commits · +1,200 / -1,500 lines (net -300)",
		"🏷️ bugfix (1) · feature (1) — api (1) · web (1)",
		"*Total LOC*\n12,345|*Total Commits*\n5",
		"Contributors: Grace (3), Ada (2)",
		"📝 *Summary:* Add auth; Fix auth",
		"img:https://c/line",
		"img:https://c/punch",
		"🏗️ *Infrastructure* (2 services, +2 new)\nPostgreSQL, Redis",
		"📦 *Dependencies*: 14 packages (10 prod, 4 dev) (+14 new)",
		"⭐ *Difficulty: Advanced (7.5/10)*\n`████████░░`",
		"Generated by devupdates · Day 2 of 4 · api, web",
	}, texts(out))
	assert.Equal(t, KindDivider, out[len(out)-2].Type)
}

func TestDailyStats_UnchangedSectionsHidden(t *testing.T) {
	prev := sampleDay()
	day := sampleDay()
	day.InfrastructureServices = append(day.InfrastructureServices, "Pub/Sub")
	day.ProjectTags = map[string]int{"api": 2}
	day.CommitTags = map[string]int{"feature": 2, "bugfix": 1}

	out := DailyStats(Day{Stat: day, Prev: &prev, Number: 3, TotalDays: 3})
	got := texts(out)

	assert.Contains(t, got, "🏷️ feature (2) · bugfix (1) — api")
	assert.Contains(t, got, "🏗️ *Infrastructure* (3 services, +1 new)\nPub/Sub")
	for _, s := range got {
		assert.False(t, strings.HasPrefix(s, "📦"), "dependencies unchanged")
		assert.False(t, strings.HasPrefix(s, "⭐"), "difficulty unchanged")
		assert.False(t, strings.HasPrefix(s, "img:"), "charts skipped")
	}
}

func TestDailyStats_DependencyDelta(t *testing.T) {
	prev := sampleDay()
	day := sampleDay()
	day.Dependencies = map[string]int{"total": 12, "production": 9, "dev": 3}
	got := texts(DailyStats(Day{Stat: day, Prev: &prev, Number: 2, TotalDays: 2}))
	assert.Contains(t, got, "📦 *Dependencies*: 12 packages (9 prod, 3 dev) (-2 new)")

	day.Dependencies = map[string]int{"total": 14, "production": 11, "dev": 3}
	got = texts(DailyStats(Day{Stat: day, Prev: &prev, Number: 2, TotalDays: 2}))
	assert.Contains(t, got, "📦 *Dependencies*: 14 packages (11 prod, 3 dev)")
}

func TestDailyStats_SummaryTruncated(t *testing.T) {
	day := sampleDay()
	day.CommitSubjects = []string{strings.Repeat("a", 150), strings.Repeat("b", 150)}
	for _, s := range texts(DailyStats(Day{Stat: day, Number: 1, TotalDays: 1})) {
		if strings.HasPrefix(s, "📝 *Summary:* ") {
			summary := strings.TrimPrefix(s, "📝 *Summary:* ")
			assert.Len(t, summary, 200)
			assert.True(t, strings.HasSuffix(summary, "..."))
			return
		}
	}
	t.Fatal("summary block missing")
}

func TestDailyStats_Estimate(t *testing.T) {
	est := estimate.Result{EstimatedWeeks: 16, CocomoWeeks: 38, CalendarDays: 16, ActiveCodingDays: 5, SpeedupFactor: 16}
	out := DailyStats(Day{Stat: sampleDay(), Number: 1, TotalDays: 1, Estimate: &est})
	got := texts(out)
	require.GreaterOrEqual(t, len(got), 2)
	assert.Equal(t, "⏱️ *Estimated Dev Time*\nSolo developer estimate: ~16 weeks (COCOMO reference: ~38 weeks)\n"+
		"Actual: 16 calendar days (5 active coding days)\nAI-assisted speedup: ~16.0x", got[len(got)-2])

	est.SpeedupFactor = 0.8
	got = texts(DailyStats(Day{Stat: sampleDay(), Number: 1, TotalDays: 1, Estimate: &est}))
	assert.NotContains(t, got[len(got)-2], "speedup")
}

func TestDailyStats_NoTags(t *testing.T) {
	day := sampleDay()
	day.CommitTags = nil
	day.ProjectTags = nil
	day.CommitSubjects = nil
	day.Git.Contributors = nil
	for _, s := range texts(DailyStats(Day{Stat: day, Number: 1, TotalDays: 1})) {
		assert.False(t, strings.HasPrefix(s, "🏷️"))
		assert.False(t, strings.HasPrefix(s, "Contributors"))
		assert.False(t, strings.HasPrefix(s, "📝"))
	}
}
