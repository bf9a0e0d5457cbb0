// SPDX-License-Identifier: AGPL-3.0-or-later

// Package changelog parses CHANGELOG.md into phase entries with ordered sections.
package changelog

import (
	"regexp"
	"strings"

	"github.com/bartekus/devupdates/internal/datefmt"
	"github.com/bartekus/devupdates/internal/reports"
)

// Well-known section names used by the release post.
const (
	SectionAdded        = "Added"
	SectionFixed        = "Fixed"
	SectionChanged      = "Changed"
	SectionDatabase     = "Database"
	SectionDependencies = "Dependencies"
)

var (
	phaseStartRegex   = regexp.MustCompile(`(?m)^## \[`)
	phaseHeaderRegex  = regexp.MustCompile(`(?m)^## \[(.+?)\]\s*(?:—\s*(.+?))?$`)
	sectionStartRegex = regexp.MustCompile(`(?m)^### `)
	sectionNameRegex  = regexp.MustCompile(`(?m)^### (.+?)$`)
)

// Section is a named list of changelog items in document order.
type Section struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// Phase is one "## [name] — date" block.
type Phase struct {
	Name        string    `json:"name"`
	Date        string    `json:"date"`
	DateDisplay string    `json:"date_display"`
	Sections    []Section `json:"sections"`
}

// Section returns the items of the named section, or nil.
func (p Phase) Section(name string) []string {
	for _, s := range p.Sections {
		if s.Name == name {
			return s.Items
		}
	}
	return nil
}

// Changelog holds the phases newest first, as written in the document.
type Changelog struct {
	Phases []Phase `json:"phases"`
}

// Load reads CHANGELOG.md. With latestOnly only the first phase block is kept.
func Load(repoPath, docsPath string, latestOnly bool) (Changelog, error) {
	content, err := reports.ReadDoc(repoPath, docsPath, reports.ChangelogFile)
	if err != nil {
		return Changelog{}, err
	}
	return Parse(content, latestOnly), nil
}

// Parse splits content at phase headers, then each phase at "### " headers,
// collecting "- item" lines per section.
func Parse(content string, latestOnly bool) Changelog {
	var out Changelog
	for _, block := range splitAt(content, phaseStartRegex) {
		header := phaseHeaderRegex.FindStringSubmatch(block)
		if header == nil {
			continue
		}
		date := strings.TrimSpace(header[2])
		out.Phases = append(out.Phases, Phase{
			Name:        header[1],
			Date:        date,
			DateDisplay: datefmt.Format(date),
			Sections:    parseSections(block),
		})
		if latestOnly {
			break
		}
	}
	return out
}

func parseSections(block string) []Section {
	var sections []Section
	index := make(map[string]int)
	for _, sec := range splitAt(block, sectionStartRegex) {
		header := sectionNameRegex.FindStringSubmatch(sec)
		if header == nil {
			continue
		}
		name := strings.TrimSpace(header[1])

		items := []string{}
		for _, line := range strings.Split(sec, "\n") {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "- ") {
				items = append(items, strings.TrimSpace(line[2:]))
			}
		}

		// A repeated section name keeps its first position and its last items.
		if i, ok := index[name]; ok {
			sections[i].Items = items
			continue
		}
		index[name] = len(sections)
		sections = append(sections, Section{Name: name, Items: items})
	}
	return sections
}

// splitAt cuts s in front of every match of re, keeping the match in the
// following chunk.
func splitAt(s string, re *regexp.Regexp) []string {
	locs := re.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return []string{s}
	}
	chunks := make([]string, 0, len(locs)+1)
	prev := 0
	for _, loc := range locs {
		if loc[0] > prev {
			chunks = append(chunks, s[prev:loc[0]])
		}
		prev = loc[0]
	}
	return append(chunks, s[prev:])
}
