// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Devupdates - posts project progress (roadmap, releases, changelog, coding stats) from
repository markdown and git history to Slack.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package commands contains the Cobra commands of the devupdates CLI.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bartekus/devupdates/cmd/devupdates/internal/clierr"
	"github.com/bartekus/devupdates/internal/config"
)

// NewRootCmd constructs the devupdates root Cobra command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultDeps())
}

func newRootCmd(deps Deps) *cobra.Command {
	version := os.Getenv("DEVUPDATES_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}
	a := &app{deps: deps}

	cmd := &cobra.Command{
		Use:   "devupdates",
		Short: "Post project progress to Slack",
		Long: `devupdates reads ROADMAP.md, CHANGELOG.md and FEATURES.md from the
documentation root, the git history of one or more repositories and an
optional Confluence mirror, and posts them as Block Kit messages.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.prepare(cmd)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return clierr.WithCode(clierr.ExitUsage, err)
	})

	f := cmd.PersistentFlags()
	f.BoolVar(&a.opts.dryRun, "dry-run", false, "print blocks, don't post")
	f.StringArrayVar(&a.opts.repos, "repo", nil, "path to repo root (can specify multiple)")
	f.StringVar(&a.opts.project, "project", "", "project display name (overrides config)")
	f.StringVar(&a.opts.configPath, "config", config.DefaultPath, "config file path")
	f.BoolVar(&a.opts.jsonOut, "json", false, "output parsed data as JSON")
	f.Var(&a.opts.replayType, "type", "for replay: all, roadmap, release, changelog or stats")
	f.StringVar(&a.opts.channel, "channel", "", "for delete-last and clear-all: channel name (default: all)")
	f.BoolVar(&a.opts.noCharts, "no-charts", false, "skip chart generation for stats")
	f.Var(&a.opts.postContext, "context", "post wording: deploy, session or wrap")
	f.BoolVarP(&a.opts.verbose, "verbose", "v", false, "enable verbose output")
	f.StringVar(&a.opts.out, "out", "", "also write message payloads as JSON files under this directory")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of devupdates",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "devupdates version %s\n", version)
		},
	})

	cmd.AddCommand(
		newPostCmd(a, "roadmap", "Post roadmap progress", a.roadmap),
		newPostCmd(a, "release", "Post the latest release", a.release),
		newPostCmd(a, "changelog", "Post the latest changelog entry", a.changelog),
		newPostCmd(a, "stats", "Post coding stats for the latest development day", a.stats),
		newPostCmd(a, "confluence", "Post Confluence mirror status (if a channel is configured)", a.confluence),
		newPostCmd(a, "all", "Post everything, skipping missing inputs", a.all),
		newPostCmd(a, "replay", "Post the full history oldest first", a.replay),
		newPostCmd(a, "clear-all", "Delete all bot messages from --channel or every channel", a.clearAll),
		newPostCmd(a, "setup-channels", "Create and join the configured channels", a.setupChannels),
		newDeleteLastCmd(a),
	)
	return cmd
}
