// SPDX-License-Identifier: AGPL-3.0-or-later

package gitstats

import (
	"context"
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/bartekus/devupdates/internal/datefmt"
)

// LinesOfCode carries the running net total and the day's churn.
type LinesOfCode struct {
	Total        int `json:"total"`
	DailyAdded   int `json:"daily_added"`
	DailyDeleted int `json:"daily_deleted"`
}

// Contributor is an author with their cumulative commit count.
type Contributor struct {
	Name    string `json:"name"`
	Commits int    `json:"commits"`
}

// GitTotals are the commit counters of a DailyStat.
type GitTotals struct {
	TotalCommits  int            `json:"total_commits"`
	DailyCommits  int            `json:"daily_commits"`
	Contributors  []Contributor  `json:"contributors"`
	CommitsByDate map[string]int `json:"commits_by_date"`
}

// PunchCell counts the day's commits in one weekday/hour slot.
type PunchCell struct {
	Weekday int `json:"dow"`
	Hour    int `json:"hour"`
	Count   int `json:"count"`
}

// Difficulty is a fixed self-assessed rating shown in daily posts.
type Difficulty struct {
	Rating float64 `json:"rating"`
	Max    int     `json:"max"`
	Label  string  `json:"label"`
}

// ProjectDifficulty is the rating attached to every DailyStat.
var ProjectDifficulty = Difficulty{Rating: 7.5, Max: 10, Label: "Advanced"}

// DailyStat combines one day's activity with the running totals up to and
// including that day.
type DailyStat struct {
	ProjectName    string      `json:"project_name"`
	GeneratedAt    string      `json:"generated_at"`
	FirstCommit    string      `json:"first_commit"`
	LatestCommit   string      `json:"latest_commit"`
	ProjectAgeDays int         `json:"project_age_days"`
	LinesOfCode    LinesOfCode `json:"lines_of_code"`
	Git            GitTotals   `json:"git"`
	PunchCard      []PunchCell `json:"punch_card"`
	CommitSubjects []string    `json:"commit_subjects"`

	InfrastructureServices []string       `json:"infrastructure_services"`
	Dependencies           map[string]int `json:"dependencies"`
	Difficulty             Difficulty     `json:"difficulty"`

	CommitTags  map[string]int `json:"commit_tags"`
	ProjectTags map[string]int `json:"project_tags"`
}

// Aggregate groups classified commits by date and emits one DailyStat per
// active date in ascending order. The result does not depend on the order of
// commits.
func Aggregate(commits []Commit, projectName string, timeline *Timeline) ([]DailyStat, error) {
	byDate := make(map[string][]Commit)
	for _, c := range commits {
		byDate[c.Date] = append(byDate[c.Date], c)
	}
	if len(byDate) == 0 {
		return []DailyStat{}, nil
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	first, err := datefmt.ParseISO(dates[0])
	if err != nil {
		return nil, fmt.Errorf("commit date %q: %w", dates[0], err)
	}

	var (
		cumCommits, cumAdded, cumDeleted int
		cumByDate                        = make(map[string]int)
		cumByAuthor                      = make(map[string]int)
		stats                            = make([]DailyStat, 0, len(dates))
	)

	for _, date := range dates {
		day := byDate[date]
		sortDay(day)

		dayTime, err := datefmt.ParseISO(date)
		if err != nil {
			return nil, fmt.Errorf("commit date %q: %w", date, err)
		}

		var added, deleted int
		punch := make(map[[2]int]int)
		commitTags := make(map[string]int)
		projectTags := make(map[string]int)
		subjects := []string{}
		for _, c := range day {
			added += c.Added
			deleted += c.Deleted
			cumByAuthor[c.Author]++
			punch[[2]int{c.Weekday, c.Hour}]++
			if c.Type != "" {
				commitTags[string(c.Type)]++
			}
			if c.Project != "" {
				projectTags[c.Project]++
			}
			if !strings.HasPrefix(c.Subject, "Merge ") {
				subjects = append(subjects, c.Subject)
			}
		}

		cumCommits += len(day)
		cumAdded += added
		cumDeleted += deleted
		cumByDate[date] = len(day)

		snap := timeline.At(date)
		infra := snap.InfrastructureServices
		if infra == nil {
			infra = []string{}
		}

		stats = append(stats, DailyStat{
			ProjectName:    projectName,
			GeneratedAt:    date,
			FirstCommit:    dates[0],
			LatestCommit:   date,
			ProjectAgeDays: int(dayTime.Sub(first).Hours()/24) + 1,
			LinesOfCode: LinesOfCode{
				Total:        cumAdded - cumDeleted,
				DailyAdded:   added,
				DailyDeleted: deleted,
			},
			Git: GitTotals{
				TotalCommits:  cumCommits,
				DailyCommits:  len(day),
				Contributors:  contributors(cumByAuthor),
				CommitsByDate: copyCounts(cumByDate),
			},
			PunchCard:              punchCard(punch),
			CommitSubjects:         subjects,
			InfrastructureServices: infra,
			Dependencies:           copyCounts(snap.Dependencies),
			Difficulty:             ProjectDifficulty,
			CommitTags:             commitTags,
			ProjectTags:            projectTags,
		})
	}
	return stats, nil
}

// Options configures Collect.
type Options struct {
	ProjectName   string
	WorkspaceRepo string
	ExcludePaths  []string
	Timeline      *Timeline
}

// Collect reads every source, drops excluded paths, classifies commits by
// type and project, discards skipped ones and aggregates the rest into a
// single timeline.
func Collect(ctx context.Context, sources []Source, opts Options) ([]DailyStat, error) {
	var all []Commit
	for _, src := range sources {
		commits, err := src.History.Commits(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading history of %s: %w", src.Name, err)
		}
		commits = ExcludePaths(commits, opts.ExcludePaths)

		kept := 0
		for _, c := range commits {
			typ, ok := ClassifyCommit(c.Subject)
			if !ok {
				continue
			}
			project, ok := ClassifyProject(src.Name, c.Files, opts.WorkspaceRepo)
			if !ok {
				continue
			}
			c.Repo = src.Name
			c.Type = typ
			c.Project = project
			all = append(all, c)
			kept++
		}
		log.WithFields(log.Fields{"repo": src.Name, "commits": len(commits), "kept": kept}).Debug("collected history")
	}
	return Aggregate(all, opts.ProjectName, opts.Timeline)
}

func sortDay(day []Commit) {
	sort.SliceStable(day, func(i, j int) bool {
		a, b := day[i], day[j]
		if a.Hour != b.Hour {
			return a.Hour < b.Hour
		}
		if a.Subject != b.Subject {
			return a.Subject < b.Subject
		}
		return a.Hash < b.Hash
	})
}

func contributors(byAuthor map[string]int) []Contributor {
	out := make([]Contributor, 0, len(byAuthor))
	for name, n := range byAuthor {
		out = append(out, Contributor{Name: name, Commits: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Commits != out[j].Commits {
			return out[i].Commits > out[j].Commits
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func punchCard(cells map[[2]int]int) []PunchCell {
	out := make([]PunchCell, 0, len(cells))
	for k, n := range cells {
		out = append(out, PunchCell{Weekday: k[0], Hour: k[1], Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weekday != out[j].Weekday {
			return out[i].Weekday < out[j].Weekday
		}
		return out[i].Hour < out[j].Hour
	})
	return out
}

func copyCounts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
