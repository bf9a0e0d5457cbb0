// SPDX-License-Identifier: AGPL-3.0-or-later

package roadmap

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bartekus/devupdates/internal/datefmt"
	"github.com/bartekus/devupdates/internal/reports"
)

// | number | name | date | status |
var rowRegex = regexp.MustCompile(`(?m)^\|\s*(\d+)\s*\|\s*(.+?)\s*\|\s*(.+?)\s*\|\s*(.+?)\s*\|`)

// Parse extracts phases from the table rows of a roadmap document.
// Rows that do not match the four column shape are ignored.
func Parse(content string) []Phase {
	var phases []Phase
	for _, m := range rowRegex.FindAllStringSubmatch(content, -1) {
		number, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		date := strings.TrimSpace(m[3])
		phases = append(phases, Phase{
			Number:      number,
			Name:        strings.TrimSpace(m[2]),
			Date:        date,
			DateDisplay: datefmt.Format(date),
			Status:      Status(strings.TrimSpace(m[4])),
		})
	}
	return phases
}

// Summarize derives the completed/total counters and the next planned phase.
func Summarize(phases []Phase, asOf time.Time) Roadmap {
	today := datefmt.ISO(asOf)
	r := Roadmap{
		Date:        today,
		DateDisplay: datefmt.Format(today),
		Phases:      phases,
		TotalCount:  len(phases),
		NextPlanned: nextPlanned(phases),
	}
	for _, p := range phases {
		if p.Status == StatusComplete {
			r.CompletedCount++
		}
	}
	return r
}

// Load reads ROADMAP.md from the documentation root and summarizes it as of now.
func Load(repoPath, docsPath string, now time.Time) (Roadmap, error) {
	content, err := reports.ReadDoc(repoPath, docsPath, reports.RoadmapFile)
	if err != nil {
		return Roadmap{}, err
	}
	return Summarize(Parse(content), now), nil
}

// LoadSnapshots reads ROADMAP.md and replays it into per-date snapshots.
func LoadSnapshots(repoPath, docsPath string) ([]Snapshot, error) {
	content, err := reports.ReadDoc(repoPath, docsPath, reports.RoadmapFile)
	if err != nil {
		return nil, err
	}
	return Snapshots(Parse(content)), nil
}

// Snapshots groups completed phases by shipping date and returns one
// cumulative snapshot per date, oldest first. Phases with a placeholder date
// never ship in a snapshot. In each snapshot every phase completed on or
// before that date is COMPLETE and every later one is demoted to PENDING.
func Snapshots(phases []Phase) []Snapshot {
	byDate := make(map[string][]Phase)
	for _, p := range phases {
		if p.Status != StatusComplete || datefmt.IsSentinel(p.Date) {
			continue
		}
		byDate[p.Date] = append(byDate[p.Date], p)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	completed := make(map[int]bool)
	snapshots := make([]Snapshot, 0, len(dates))
	for _, date := range dates {
		shipped := byDate[date]
		for _, p := range shipped {
			completed[p.Number] = true
		}

		view := make([]Phase, len(phases))
		for i, p := range phases {
			switch {
			case completed[p.Number]:
				p.Status = StatusComplete
			case p.Status == StatusComplete:
				p.Status = StatusPending
			}
			view[i] = p
		}

		snapshots = append(snapshots, Snapshot{
			Roadmap: Roadmap{
				Date:           date,
				DateDisplay:    datefmt.Format(date),
				Phases:         view,
				CompletedCount: len(completed),
				TotalCount:     len(phases),
				NextPlanned:    nextPlanned(view),
			},
			ShippedPhases: shipped,
		})
	}
	return snapshots
}

func nextPlanned(phases []Phase) *PhaseRef {
	for _, p := range phases {
		if p.Status.Upcoming() {
			return &PhaseRef{Number: p.Number, Name: p.Name}
		}
	}
	return nil
}
