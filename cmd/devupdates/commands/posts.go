// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bartekus/devupdates/internal/blocks"
	"github.com/bartekus/devupdates/internal/estimate"
	"github.com/bartekus/devupdates/internal/gitstats"
	"github.com/bartekus/devupdates/internal/reports"
	"github.com/bartekus/devupdates/internal/reports/changelog"
	"github.com/bartekus/devupdates/internal/reports/confluence"
	"github.com/bartekus/devupdates/internal/reports/features"
	"github.com/bartekus/devupdates/internal/reports/roadmap"
	"github.com/bartekus/devupdates/internal/runner"
)

func newPostCmd(a *app, use, short string, fn func(ctx context.Context, w io.Writer) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  usageArgs(cobra.NoArgs),
		RunE:  a.runE(fn),
	}
}

func (a *app) roadmap(ctx context.Context, w io.Writer) error {
	repo, err := a.repo()
	if err != nil {
		return err
	}
	r, err := roadmap.Load(repo.Path, a.cfg.DocsPath, a.deps.Now())
	if err != nil {
		return err
	}
	if a.opts.jsonOut {
		return writeJSON(w, r)
	}
	return a.publish(ctx, w, post{
		kind:    "roadmap",
		channel: a.cfg.Channels.Roadmap,
		text:    a.project() + " Roadmap Progress",
		blocks:  blocks.Roadmap(r, a.project()),
	})
}

// loadFeatures returns nil when FEATURES.md does not exist.
func (a *app) loadFeatures(repoPath string) (*features.Summary, error) {
	f, err := features.Load(repoPath, a.cfg.DocsPath)
	if errors.Is(err, reports.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (a *app) release(ctx context.Context, w io.Writer) error {
	repo, err := a.repo()
	if err != nil {
		return err
	}
	cl, err := changelog.Load(repo.Path, a.cfg.DocsPath, true)
	if err != nil {
		return err
	}
	feats, err := a.loadFeatures(repo.Path)
	if err != nil {
		return err
	}
	if a.opts.jsonOut {
		return writeJSON(w, struct {
			Changelog changelog.Changelog `json:"changelog"`
			Features  *features.Summary   `json:"features,omitempty"`
		}{cl, feats})
	}
	return a.publish(ctx, w, post{
		kind:    "release",
		channel: a.cfg.Channels.Releases,
		text:    a.project() + " Release",
		blocks:  blocks.Release(cl, a.project(), feats, a.opts.postContext),
	})
}

func (a *app) changelog(ctx context.Context, w io.Writer) error {
	repo, err := a.repo()
	if err != nil {
		return err
	}
	cl, err := changelog.Load(repo.Path, a.cfg.DocsPath, false)
	if err != nil {
		return err
	}
	if a.opts.jsonOut {
		return writeJSON(w, cl)
	}
	return a.publish(ctx, w, post{
		kind:    "changelog",
		channel: a.cfg.Channels.Changelog,
		text:    a.project() + " Changelog",
		blocks:  blocks.Changelog(cl, a.project(), a.opts.postContext),
	})
}

// statsReport is the --json output of the stats command.
type statsReport struct {
	gitstats.DailyStat
	Estimate estimate.Result `json:"estimate"`
}

func (a *app) stats(ctx context.Context, w io.Writer) error {
	daily, err := a.collectDaily(ctx)
	if err != nil {
		return err
	}
	if len(daily) == 0 {
		fmt.Fprintln(w, "No git history found")
		return nil
	}

	latest := daily[len(daily)-1]
	est := estimate.Estimate(latest.LinesOfCode.Total, latest.Git.CommitsByDate, estimate.Options{MaxGapDays: a.cfg.MaxGapDays})
	if a.opts.jsonOut {
		return writeJSON(w, statsReport{DailyStat: latest, Estimate: est})
	}

	day := blocks.Day{
		Stat:      latest,
		Number:    len(daily),
		TotalDays: len(daily),
		Charts:    a.charts(ctx, latest),
		Estimate:  &est,
	}
	if len(daily) > 1 {
		day.Prev = &daily[len(daily)-2]
	}
	return a.publish(ctx, w, post{
		kind:    "stats",
		channel: a.cfg.Channels.Stats,
		text:    a.project() + " Coding Stats",
		blocks:  blocks.DailyStats(day),
	})
}

// errNoConfluenceChannel skips the confluence post when no channel is set.
var errNoConfluenceChannel = runner.Skip("no confluence channel configured")

func (a *app) confluence(ctx context.Context, w io.Writer) error {
	err := a.confluenceStatus(ctx, w)
	if errors.Is(err, errNoConfluenceChannel) {
		fmt.Fprintln(w, "No confluence channel configured — skipping")
		return nil
	}
	return err
}

func (a *app) confluenceStatus(ctx context.Context, w io.Writer) error {
	repo, err := a.repo()
	if err != nil {
		return err
	}
	if a.cfg.Channels.Confluence == "" {
		return errNoConfluenceChannel
	}
	st, err := confluence.Scan(ctx, a.scanner(repo), a.cfg.ConfluencePath)
	if err != nil {
		return err
	}
	if a.opts.jsonOut {
		return writeJSON(w, st)
	}
	return a.publish(ctx, w, post{
		kind:    "confluence status",
		channel: a.cfg.Channels.Confluence,
		text:    a.project() + " Confluence Status",
		blocks:  blocks.Confluence(st, a.project(), a.opts.postContext, a.deps.Now()),
	})
}
