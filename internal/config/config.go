// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads devupdates settings from built-in defaults, an
// optional JSON config file and DEVUPDATES_* environment variables, in that
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"

	"github.com/bartekus/devupdates/internal/estimate"
	"github.com/bartekus/devupdates/internal/reports"
	"github.com/bartekus/devupdates/internal/reports/confluence"
)

const (
	// DefaultPath is used when --config is not given.
	DefaultPath = "config.json"
	// EnvPrefix marks environment overrides, e.g. DEVUPDATES_CHANNELS_STATS.
	EnvPrefix = "DEVUPDATES_"

	DefaultProjectName = "Project"
	// DefaultTimezone is the zone commit dates and hours are grouped in.
	DefaultTimezone = "Australia/Sydney"
)

// ErrNoRepo means neither --repo nor repo_path named a repository.
var ErrNoRepo = errors.New("--repo PATH required (or set repo_path in config.json)")

// Channels names the chat channel of each post kind. Confluence is empty
// unless configured.
type Channels struct {
	Roadmap    string `koanf:"roadmap"`
	Releases   string `koanf:"releases"`
	Changelog  string `koanf:"changelog"`
	Stats      string `koanf:"stats"`
	Confluence string `koanf:"confluence"`
}

// Names lists configured channel names, confluence last when present.
func (c Channels) Names() []string {
	names := []string{c.Roadmap, c.Releases, c.Changelog, c.Stats}
	if c.Confluence != "" {
		names = append(names, c.Confluence)
	}
	return names
}

// Config is the merged configuration.
type Config struct {
	// RepoPaths comes from repo_path, which may be a string or a list.
	RepoPaths         []string `koanf:"-"`
	ProjectName       string   `koanf:"project_name"`
	DocsPath          string   `koanf:"docs_path"`
	Channels          Channels `koanf:"channels"`
	StatsExcludePaths []string `koanf:"stats_exclude_paths"`
	WorkspaceRepo     string   `koanf:"workspace_repo"`
	Timezone          string   `koanf:"timezone"`
	ConfluencePath    string   `koanf:"confluence_path"`
	TimelinePath      string   `koanf:"timeline_path"`
	MaxGapDays        int      `koanf:"max_gap_days"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		ProjectName: DefaultProjectName,
		DocsPath:    reports.DefaultDocsPath,
		Channels: Channels{
			Roadmap:   "dev-roadmap",
			Releases:  "dev-releases",
			Changelog: "dev-changelog",
			Stats:     "coding-stats",
		},
		Timezone:       DefaultTimezone,
		ConfluencePath: confluence.DefaultPath,
		MaxGapDays:     estimate.DefaultMaxGapDays,
	}
}

// Load merges defaults, the file at path and the environment. A missing
// file is not an error. An empty path means DefaultPath.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath
	}
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		log.Errorf("error loading config defaults: %v", err)
		return Config{}, err
	}

	// JSON is a subset of YAML, so the YAML parser reads config.json too.
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
		log.Debugf("Config file not found at %s, using defaults and environment variables", path)
	} else {
		log.Debugf("Loaded configuration from file: %s", path)
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKey,
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("load config from environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	repos, err := stringList(k.Get("repo_path"))
	if err != nil {
		return Config{}, fmt.Errorf("repo_path: %w", err)
	}
	cfg.RepoPaths = repos
	return cfg, nil
}

// envKey maps DEVUPDATES_CHANNELS_STATS to channels.stats and
// DEVUPDATES_REPO_PATH to repo_path. List keys take comma-separated values.
func envKey(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if rest, ok := strings.CutPrefix(key, "channels_"); ok {
		key = "channels." + rest
	}
	switch key {
	case "repo_path", "stats_exclude_paths":
		return key, splitList(value)
	}
	return key, value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func stringList(v any) ([]string, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case string:
		if v == "" {
			return nil, nil
		}
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("want string, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("want string or list, got %T", v)
}

// Repo is a repository to read, with the name used to tag its commits.
type Repo struct {
	Path string
	Name string
}

// ResolveRepos picks flag values over repo_path, expands a leading "~" and
// checks each path is a directory.
func (c Config) ResolveRepos(flagRepos []string) ([]Repo, error) {
	paths := flagRepos
	if len(paths) == 0 {
		paths = c.RepoPaths
	}
	if len(paths) == 0 {
		return nil, ErrNoRepo
	}
	repos := make([]Repo, 0, len(paths))
	for _, p := range paths {
		p = expandHome(p)
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("repo path not found: %s: %w", p, os.ErrNotExist)
		}
		repos = append(repos, Repo{Path: p, Name: filepath.Base(filepath.Clean(p))})
	}
	return repos, nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
