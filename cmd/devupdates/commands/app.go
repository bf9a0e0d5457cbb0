// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bartekus/devupdates/cmd/devupdates/internal/clierr"
	"github.com/bartekus/devupdates/internal/blocks"
	"github.com/bartekus/devupdates/internal/chart"
	"github.com/bartekus/devupdates/internal/config"
	"github.com/bartekus/devupdates/internal/gitstats"
	"github.com/bartekus/devupdates/internal/projection"
	"github.com/bartekus/devupdates/internal/reports"
	"github.com/bartekus/devupdates/internal/runner"
	"github.com/bartekus/devupdates/internal/scanner"
	"github.com/bartekus/devupdates/internal/slack"
)

// SlackAPI is the part of the chat client the commands use.
type SlackAPI interface {
	EnsureChannels(ctx context.Context, names []string) (map[string]string, error)
	PostMessage(ctx context.Context, channelID string, blocks any, text string) (string, error)
	DeleteBotMessages(ctx context.Context, channelID string, count int) (int, error)
	DeleteAllBotMessages(ctx context.Context, channelID string) (slack.DeleteResult, error)
}

// Deps are the collaborators with side effects.
type Deps struct {
	Slack  func() (SlackAPI, error)
	Charts *chart.Builder
	Now    func() time.Time
	Sleep  func(ctx context.Context, d time.Duration) error
}

func defaultDeps() Deps {
	return Deps{
		Slack: func() (SlackAPI, error) {
			token, err := slack.TokenFromEnv()
			if err != nil {
				return nil, err
			}
			return slack.New(token), nil
		},
		Charts: chart.New(),
		Now:    time.Now,
		Sleep:  slack.Sleep,
	}
}

type options struct {
	dryRun      bool
	jsonOut     bool
	noCharts    bool
	verbose     bool
	repos       []string
	project     string
	configPath  string
	channel     string
	out         string
	replayType  ReplayType
	postContext blocks.Context
}

type app struct {
	deps   Deps
	opts   options
	cfg    config.Config
	client SlackAPI
}

// prepare configures logging and loads the configuration before any
// subcommand runs.
func (a *app) prepare(cmd *cobra.Command) error {
	log.SetOutput(cmd.ErrOrStderr())
	level := log.InfoLevel
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		l, err := log.ParseLevel(env)
		if err != nil {
			return clierr.Wrap(clierr.ExitUsage, "LOG_LEVEL", err)
		}
		level = l
	}
	if a.opts.verbose {
		level = log.DebugLevel
	}
	log.SetLevel(level)

	cfg, err := config.Load(a.opts.configPath)
	if err != nil {
		return clierr.WithCode(clierr.ExitUsage, err)
	}
	a.cfg = cfg
	return nil
}

// runE adapts a command body to cobra and maps its error to an exit code.
func (a *app) runE(fn func(ctx context.Context, w io.Writer) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		return classify(fn(cmd.Context(), cmd.OutOrStdout()))
	}
}

func classify(err error) error {
	var ec clierr.ExitCoder
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ec):
		return err
	case errors.Is(err, reports.ErrNotFound):
		return clierr.WithCode(clierr.ExitMissingInput, err)
	case errors.Is(err, slack.ErrMissingToken), errors.Is(err, slack.ErrMalformedToken):
		return clierr.WithCode(clierr.ExitCredentials, err)
	}
	return err
}

func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return clierr.WithCode(clierr.ExitUsage, check(cmd, args))
	}
}

func (a *app) project() string {
	if a.opts.project != "" {
		return a.opts.project
	}
	return a.cfg.ProjectName
}

func (a *app) repos() ([]config.Repo, error) {
	repos, err := a.cfg.ResolveRepos(a.opts.repos)
	switch {
	case errors.Is(err, config.ErrNoRepo):
		return nil, clierr.WithCode(clierr.ExitUsage, err)
	case err != nil:
		return nil, clierr.WithCode(clierr.ExitMissingInput, err)
	}
	return repos, nil
}

// repo is the first repository; document-based posts read only one.
func (a *app) repo() (config.Repo, error) {
	repos, err := a.repos()
	if err != nil {
		return config.Repo{}, err
	}
	return repos[0], nil
}

func (a *app) scanner(r config.Repo) *scanner.Scanner {
	return scanner.New(r.Path, scanner.WithTimezone(a.cfg.Timezone))
}

func (a *app) slack() (SlackAPI, error) {
	if a.client != nil {
		return a.client, nil
	}
	c, err := a.deps.Slack()
	if err != nil {
		return nil, clierr.WithCode(clierr.ExitCredentials, err)
	}
	a.client = c
	return c, nil
}

func (a *app) ensureChannels(ctx context.Context, names ...string) (SlackAPI, map[string]string, error) {
	client, err := a.slack()
	if err != nil {
		return nil, nil, err
	}
	ids, err := client.EnsureChannels(ctx, names)
	if err != nil {
		return nil, nil, err
	}
	return client, ids, nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := projection.JSON(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// post is one chat message ready to send.
type post struct {
	kind    string
	channel string
	text    string
	blocks  []blocks.Block
}

// savePayload writes blocks under --out, when set.
func (a *app) savePayload(name string, b []blocks.Block) error {
	if a.opts.out == "" {
		return nil
	}
	path, err := projection.WritePayload(a.opts.out, name, b)
	if err != nil {
		return err
	}
	log.Debugf("wrote %s", path)
	return nil
}

// publish prints the post on a dry run and sends it otherwise.
func (a *app) publish(ctx context.Context, w io.Writer, p post) error {
	if err := a.savePayload(p.kind, p.blocks); err != nil {
		return err
	}
	if a.opts.dryRun {
		if err := writeJSON(w, p.blocks); err != nil {
			return err
		}
		fmt.Fprintf(w, "\n--- Would post to #%s ---\n", p.channel)
		return nil
	}

	client, ids, err := a.ensureChannels(ctx, p.channel)
	if err != nil {
		return err
	}
	if _, err := client.PostMessage(ctx, ids[p.channel], p.blocks, p.text); err != nil {
		return err
	}
	fmt.Fprintf(w, "Posted %s to #%s\n", p.kind, p.channel)
	return nil
}

// collectDaily reads the history of every repository into daily stats.
func (a *app) collectDaily(ctx context.Context) ([]gitstats.DailyStat, error) {
	repos, err := a.repos()
	if err != nil {
		return nil, err
	}
	timelinePath := a.cfg.TimelinePath
	if timelinePath != "" && !filepath.IsAbs(timelinePath) {
		timelinePath = filepath.Join(repos[0].Path, timelinePath)
	}
	timeline, err := gitstats.LoadTimeline(timelinePath)
	if err != nil {
		return nil, err
	}

	sources := make([]gitstats.Source, len(repos))
	for i, r := range repos {
		sources[i] = gitstats.Source{Name: r.Name, History: gitstats.NewGitHistory(a.scanner(r))}
	}
	return gitstats.Collect(ctx, sources, gitstats.Options{
		ProjectName:   a.project(),
		WorkspaceRepo: a.cfg.WorkspaceRepo,
		ExcludePaths:  a.cfg.StatsExcludePaths,
		Timeline:      timeline,
	})
}

// charts builds the day's chart URLs. Failures only drop the images.
func (a *app) charts(ctx context.Context, day gitstats.DailyStat) chart.Daily {
	if a.opts.noCharts {
		return chart.Daily{}
	}
	d, err := a.deps.Charts.ForDay(ctx, day)
	if err != nil {
		log.WithError(err).Warn("chart generation failed")
		return chart.Daily{}
	}
	return d
}

// newRunner returns a batch runner that skips steps whose input is missing
// and records results under --out, when set.
func (a *app) newRunner(steps []runner.Step, w io.Writer) *runner.Runner {
	opts := []runner.Option{runner.WithSkip(func(err error) bool {
		return errors.Is(err, reports.ErrNotFound)
	})}
	if a.opts.out != "" {
		opts = append(opts, runner.WithStore(runner.NewStateStore(filepath.Join(a.opts.out, "run"))))
	}
	r := runner.New(steps, w, opts...)
	log.WithField("run_id", r.RunID()).Debug("starting batch")
	return r
}
