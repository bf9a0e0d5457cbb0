// SPDX-License-Identifier: AGPL-3.0-or-later

package gitstats

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/bartekus/devupdates/internal/datefmt"
)

// TimelineEntry records the infrastructure and dependency counts in use from
// Date onwards.
type TimelineEntry struct {
	Date                   string         `yaml:"date"`
	InfrastructureServices []string       `yaml:"infrastructure_services"`
	Dependencies           map[string]int `yaml:"dependencies"`
}

// Timeline answers "what infrastructure did the project run on this day".
// A nil *Timeline is valid and knows nothing.
type Timeline struct {
	entries []TimelineEntry
}

type timelineFile struct {
	Snapshots []TimelineEntry `yaml:"snapshots"`
}

// NewTimeline validates and sorts entries by date.
func NewTimeline(entries []TimelineEntry) (*Timeline, error) {
	sorted := make([]TimelineEntry, len(entries))
	copy(sorted, entries)
	for _, e := range sorted {
		if _, err := datefmt.ParseISO(e.Date); err != nil {
			return nil, fmt.Errorf("timeline entry %q: %w", e.Date, err)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })
	return &Timeline{entries: sorted}, nil
}

// LoadTimeline reads a YAML timeline file:
//
//	snapshots:
//	  - date: "2026-01-01"
//	    infrastructure_services: [PostgreSQL]
//	    dependencies: {total: 10, production: 7, dev: 3}
//
// An empty path or a missing file yields an empty timeline.
func LoadTimeline(path string) (*Timeline, error) {
	if path == "" {
		return &Timeline{}, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from config
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Timeline{}, nil
		}
		return nil, fmt.Errorf("reading timeline: %w", err)
	}
	var f timelineFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing timeline %s: %w", path, err)
	}
	return NewTimeline(f.Snapshots)
}

// At returns the latest entry dated on or before date, or a zero entry when
// date precedes the timeline.
func (t *Timeline) At(date string) TimelineEntry {
	if t == nil {
		return TimelineEntry{}
	}
	var best TimelineEntry
	for _, e := range t.entries {
		if e.Date > date {
			break
		}
		best = e
	}
	return best
}
