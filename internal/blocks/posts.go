// SPDX-License-Identifier: AGPL-3.0-or-later

package blocks

import (
	"fmt"
	"strings"
	"time"

	"github.com/bartekus/devupdates/internal/datefmt"
	"github.com/bartekus/devupdates/internal/reports/changelog"
	"github.com/bartekus/devupdates/internal/reports/confluence"
	"github.com/bartekus/devupdates/internal/reports/features"
	"github.com/bartekus/devupdates/internal/reports/roadmap"
)

// Per-section item caps of the release post.
const (
	AddedLimit   = 15
	FixedLimit   = 10
	ChangedLimit = 10
	MinorLimit   = 5

	changelogSectionLimit = 10
	confluenceCommitLimit = 8
	progressWidth         = 16
)

func displayDate(display, raw string) string {
	if display != "" {
		return display
	}
	return raw
}

// Roadmap renders the phase list with a progress bar and the next phase.
func Roadmap(r roadmap.Roadmap, project string) []Block {
	out := []Block{
		Header(fmt.Sprintf("🗺️ %s — Roadmap Progress", project)),
		ContextLine(fmt.Sprintf("%d of %d phases complete · %s",
			r.CompletedCount, r.TotalCount, displayDate(r.DateDisplay, r.Date))),
		Divider(),
	}

	lines := make([]string, 0, len(r.Phases))
	for _, p := range r.Phases {
		switch p.Status {
		case roadmap.StatusComplete:
			line := fmt.Sprintf("✅ Phase %d: %s", p.Number, p.Name)
			if d := displayDate(p.DateDisplay, p.Date); !datefmt.IsSentinel(d) {
				line += fmt.Sprintf(" (%s)", d)
			}
			lines = append(lines, line)
		case roadmap.StatusPending:
			lines = append(lines, fmt.Sprintf("⏳ Phase %d: %s", p.Number, p.Name))
		case roadmap.StatusPlanned:
			lines = append(lines, fmt.Sprintf("📋 Phase %d: %s", p.Number, p.Name))
		default:
			lines = append(lines, fmt.Sprintf("🔮 Phase %d: %s", p.Number, p.Name))
		}
	}
	out = append(out,
		Section(JoinLines(lines)),
		Divider(),
		Section(fmt.Sprintf("*Progress:* `%s`", ProgressBar(r.CompletedCount, r.TotalCount, progressWidth))),
	)
	if r.NextPlanned != nil {
		out = append(out, ContextLine(fmt.Sprintf("Next up: Phase %d — %s", r.NextPlanned.Number, r.NextPlanned.Name)))
	}
	return out
}

type releaseSection struct {
	name  string
	title string
	limit int
}

var releaseSections = []releaseSection{
	{changelog.SectionAdded, "*✨ What's New*", AddedLimit},
	{changelog.SectionFixed, "*🔧 Fixed*", FixedLimit},
	{changelog.SectionChanged, "*♻️ Changed*", ChangedLimit},
	{changelog.SectionDatabase, "*🗄️ Database*", MinorLimit},
	{changelog.SectionDependencies, "*📦 Dependencies*", MinorLimit},
}

// Release announces the first phase of cl. feats, when non-nil, adds a
// platform stats line.
func Release(cl changelog.Changelog, project string, feats *features.Summary, ctx Context) []Block {
	if len(cl.Phases) == 0 {
		return []Block{Section("No releases found in CHANGELOG.md")}
	}
	phase := cl.Phases[0]

	var header string
	switch ctx {
	case ContextSession:
		header = fmt.Sprintf("🛠️ %s — Development Progress", project)
	case ContextWrap:
		header = fmt.Sprintf("🏁 %s — Session Wrap", project)
	case ContextDeploy:
		header = fmt.Sprintf("🚀 %s — %s Shipped!", project, phase.Name)
	}
	out := []Block{Header(header)}
	if d := displayDate(phase.DateDisplay, phase.Date); d != "" {
		out = append(out, ContextLine(d))
	}
	out = append(out, Divider())

	for _, rs := range releaseSections {
		items := phase.Section(rs.name)
		if len(items) == 0 {
			continue
		}
		out = append(out, Section(rs.title+"\n"+Bullets(items, rs.limit)))
	}
	out = append(out, Divider())

	if feats != nil {
		parts := []string{fmt.Sprintf("Features: %d sections", feats.TotalSections)}
		if len(feats.ComingSoon) > 0 {
			parts = append(parts, fmt.Sprintf("Coming Soon: %d planned", len(feats.ComingSoon)))
		}
		out = append(out, Section("*📊 Platform Stats*\n"+strings.Join(parts, " · ")))
	}
	return out
}

// Changelog renders every non-empty section of the first phase of cl and
// refers to the second phase, if any, as the previous one.
func Changelog(cl changelog.Changelog, project string, ctx Context) []Block {
	if len(cl.Phases) == 0 {
		return []Block{Section("No entries found in CHANGELOG.md")}
	}
	phase := cl.Phases[0]

	var header string
	switch ctx {
	case ContextSession:
		header = fmt.Sprintf("📝 %s — Session Update", project)
	case ContextWrap:
		header = fmt.Sprintf("🏁 %s — Session Changes", project)
	case ContextDeploy:
		header = fmt.Sprintf("📝 %s — Changelog", project)
	}
	out := []Block{
		Header(header),
		ContextLine(fmt.Sprintf("%s · %s", phase.Name, displayDate(phase.DateDisplay, phase.Date))),
		Divider(),
	}
	for _, sec := range phase.Sections {
		if len(sec.Items) == 0 {
			continue
		}
		out = append(out, Section(fmt.Sprintf("*%s*\n%s", sec.Name, Bullets(sec.Items, changelogSectionLimit))))
	}
	out = append(out, Divider())

	if len(cl.Phases) > 1 {
		prev := cl.Phases[1]
		out = append(out, ContextLine(fmt.Sprintf("Previous: %s — %s", prev.Name, displayDate(prev.DateDisplay, prev.Date))))
	}
	return out
}

// Confluence renders mirror page counts and the last week's commits. A
// history that could not be read shows as no recent changes.
func Confluence(st confluence.Status, project string, ctx Context, today time.Time) []Block {
	var header string
	switch ctx {
	case ContextWrap:
		header = fmt.Sprintf("📚 %s — Confluence Activity", project)
	case ContextSession:
		header = fmt.Sprintf("📚 %s — Confluence Status", project)
	case ContextDeploy:
		header = fmt.Sprintf("📚 %s — Confluence Sync", project)
	}
	out := []Block{
		Header(header),
		ContextLine("Wiki mirror status · " + today.Format("Jan 2")),
		Divider(),
	}
	if st.TotalPages == 0 {
		return append(out, Section("No Confluence pages found in mirror."))
	}

	lines := make([]string, 0, len(st.Spaces))
	for _, s := range st.Spaces {
		recent := ""
		if s.RecentChanges > 0 {
			recent = fmt.Sprintf(" (%d changed)", s.RecentChanges)
		}
		lines = append(lines, fmt.Sprintf("• *%s*: %d pages%s", s.Name, s.Count, recent))
	}
	out = append(out, Section(fmt.Sprintf("*📊 Mirror Summary*\nTotal pages: *%d*\n\n%s", st.TotalPages, JoinLines(lines))))

	out = append(out, Divider())
	commits := st.RecentCommits
	if len(commits) == 0 {
		return append(out, Section("_No changes in the last 7 days_"))
	}
	if len(commits) > confluenceCommitLimit {
		commits = commits[:confluenceCommitLimit]
	}
	commitLines := make([]string, len(commits))
	for i, c := range commits {
		commitLines[i] = fmt.Sprintf("• `%s` %s (%s)", c.Hash, c.Subject, c.Date)
	}
	return append(out, Section("*🔄 Recent Changes (7 days)*\n"+strings.Join(commitLines, "\n")))
}
