// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bartekus/devupdates/internal/blocks"
	"github.com/bartekus/devupdates/internal/reports/changelog"
	"github.com/bartekus/devupdates/internal/reports/roadmap"
	"github.com/bartekus/devupdates/internal/runner"
)

// replayThrottle separates consecutive replay posts.
const replayThrottle = 2 * time.Second

// all runs every post kind, skipping those whose input or channel is missing.
func (a *app) all(ctx context.Context, w io.Writer) error {
	step := func(name string, fn func(context.Context, io.Writer) error) runner.Step {
		return runner.NewStep(name, func(ctx context.Context) error { return fn(ctx, w) })
	}
	steps := []runner.Step{
		step("Roadmap", a.roadmap),
		step("Release", a.release),
		step("Changelog", a.changelog),
		step("Stats", a.stats),
		step("Confluence", a.confluenceStatus),
	}
	return a.newRunner(steps, w).Run(ctx)
}

// replayItem is one historical post.
type replayItem struct {
	line   string
	name   string
	text   string
	blocks []blocks.Block
}

// replay posts the whole history oldest first.
func (a *app) replay(ctx context.Context, w io.Writer) error {
	repo, err := a.repo()
	if err != nil {
		return err
	}
	t := a.opts.replayType
	ch := a.cfg.Channels

	var ids map[string]string
	if !a.opts.dryRun {
		var needed []string
		for _, k := range []struct {
			kind    ReplayType
			channel string
		}{
			{ReplayRoadmap, ch.Roadmap},
			{ReplayRelease, ch.Releases},
			{ReplayChangelog, ch.Changelog},
			{ReplayStats, ch.Stats},
		} {
			if t.Includes(k.kind) {
				needed = append(needed, k.channel)
			}
		}
		if _, ids, err = a.ensureChannels(ctx, needed...); err != nil {
			return err
		}
	}

	type section struct {
		kind    ReplayType
		name    string
		channel string
		label   string
		items   func(ctx context.Context) ([]replayItem, error)
	}
	sections := []section{
		{ReplayRoadmap, "Roadmap Replay", ch.Roadmap, "snapshot", func(context.Context) ([]replayItem, error) {
			return a.roadmapHistory(repo.Path)
		}},
		{ReplayRelease, "Release Replay", ch.Releases, "phase", func(context.Context) ([]replayItem, error) {
			return a.releaseHistory(repo.Path)
		}},
		{ReplayChangelog, "Changelog Replay", ch.Changelog, "phase", func(context.Context) ([]replayItem, error) {
			return a.changelogHistory(repo.Path)
		}},
		{ReplayStats, "Stats Replay", ch.Stats, "day", func(ctx context.Context) ([]replayItem, error) {
			return a.statsHistory(ctx, w)
		}},
	}

	var steps []runner.Step
	for _, s := range sections {
		if !t.Includes(s.kind) {
			continue
		}
		steps = append(steps, runner.NewStep(s.name, func(ctx context.Context) error {
			items, err := s.items(ctx)
			if err != nil {
				return err
			}
			return a.replayPosts(ctx, w, ids[s.channel], s.label, items)
		}))
	}
	if err := a.newRunner(steps, w).Run(ctx); err != nil {
		return err
	}
	if !a.opts.dryRun {
		fmt.Fprintln(w, "Replay complete!")
	}
	return nil
}

// replayPosts prints each item's line and posts it, pausing between posts.
// A dry run shows only the first item's blocks.
func (a *app) replayPosts(ctx context.Context, w io.Writer, channelID, label string, items []replayItem) error {
	for i, it := range items {
		fmt.Fprintln(w, "  "+it.line)
		if err := a.savePayload(it.name, it.blocks); err != nil {
			return err
		}
		if a.opts.dryRun {
			if i == 0 {
				if err := writeJSON(w, it.blocks); err != nil {
					return err
				}
				fmt.Fprintf(w, "  (showing first %s only)\n", label)
			}
			continue
		}
		if _, err := a.client.PostMessage(ctx, channelID, it.blocks, it.text); err != nil {
			return err
		}
		if i < len(items)-1 {
			if err := a.deps.Sleep(ctx, replayThrottle); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *app) roadmapHistory(repoPath string) ([]replayItem, error) {
	snaps, err := roadmap.LoadSnapshots(repoPath, a.cfg.DocsPath)
	if err != nil {
		return nil, err
	}
	items := make([]replayItem, len(snaps))
	for i, s := range snaps {
		shipped := make([]string, len(s.ShippedPhases))
		for j, p := range s.ShippedPhases {
			shipped[j] = fmt.Sprintf("Phase %d", p.Number)
		}
		items[i] = replayItem{
			line: fmt.Sprintf("[%s] %d/%d complete (%s)",
				s.DateDisplay, s.CompletedCount, s.TotalCount, strings.Join(shipped, ", ")),
			name:   "roadmap-" + s.Date,
			text:   fmt.Sprintf("%s Roadmap — %s", a.project(), s.DateDisplay),
			blocks: blocks.Roadmap(s.Roadmap, a.project()),
		}
	}
	return items, nil
}

// oldestFirst loads every changelog phase in chronological order.
func (a *app) oldestFirst(repoPath string) ([]changelog.Phase, error) {
	cl, err := changelog.Load(repoPath, a.cfg.DocsPath, false)
	if err != nil {
		return nil, err
	}
	phases := make([]changelog.Phase, len(cl.Phases))
	for i, p := range cl.Phases {
		phases[len(phases)-1-i] = p
	}
	return phases, nil
}

func phaseLine(p changelog.Phase) string {
	date := p.DateDisplay
	if date == "" {
		date = p.Date
	}
	if date == "" {
		date = "?"
	}
	return fmt.Sprintf("[%s] %s", date, p.Name)
}

func (a *app) releaseHistory(repoPath string) ([]replayItem, error) {
	phases, err := a.oldestFirst(repoPath)
	if err != nil {
		return nil, err
	}
	feats, err := a.loadFeatures(repoPath)
	if err != nil {
		return nil, err
	}
	items := make([]replayItem, len(phases))
	for i, p := range phases {
		// Platform stats belong to the latest phase only.
		f := feats
		if i != len(phases)-1 {
			f = nil
		}
		single := changelog.Changelog{Phases: []changelog.Phase{p}}
		items[i] = replayItem{
			line:   phaseLine(p),
			name:   "release-" + p.Name,
			text:   fmt.Sprintf("%s — %s", a.project(), p.Name),
			blocks: blocks.Release(single, a.project(), f, blocks.ContextDeploy),
		}
	}
	return items, nil
}

func (a *app) changelogHistory(repoPath string) ([]replayItem, error) {
	phases, err := a.oldestFirst(repoPath)
	if err != nil {
		return nil, err
	}
	items := make([]replayItem, len(phases))
	for i, p := range phases {
		single := changelog.Changelog{Phases: []changelog.Phase{p}}
		if i > 0 {
			single.Phases = append(single.Phases, phases[i-1])
		}
		items[i] = replayItem{
			line:   phaseLine(p),
			name:   "changelog-" + p.Name,
			text:   fmt.Sprintf("%s — %s", a.project(), p.Name),
			blocks: blocks.Changelog(single, a.project(), blocks.ContextDeploy),
		}
	}
	return items, nil
}

func (a *app) statsHistory(ctx context.Context, w io.Writer) ([]replayItem, error) {
	daily, err := a.collectDaily(ctx)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "  Found %d development days\n", len(daily))

	items := make([]replayItem, len(daily))
	for i, s := range daily {
		day := blocks.Day{
			Stat:      s,
			Number:    i + 1,
			TotalDays: len(daily),
			Charts:    a.charts(ctx, s),
		}
		if i > 0 {
			day.Prev = &daily[i-1]
		}
		items[i] = replayItem{
			line:   fmt.Sprintf("[%s] Day %d/%d: %d commits", s.GeneratedAt, i+1, len(daily), s.Git.DailyCommits),
			name:   "stats-" + s.GeneratedAt,
			text:   fmt.Sprintf("%s Stats — %s", a.project(), s.GeneratedAt),
			blocks: blocks.DailyStats(day),
		}
	}
	return items, nil
}
