// SPDX-License-Identifier: AGPL-3.0-or-later

// Package features summarizes FEATURES.md: numbered sections with their route
// and bullet count, plus the "Coming Soon" table.
package features

import (
	"regexp"
	"strings"

	"github.com/bartekus/devupdates/internal/reports"
)

const comingSoonName = "Coming Soon"

var (
	sectionStartRegex  = regexp.MustCompile(`(?m)^## \d+\.`)
	sectionHeaderRegex = regexp.MustCompile(`(?m)\A## \d+\.\s+(.+?)$`)
	routeRegex         = regexp.MustCompile("\\*\\*Route:\\*\\*\\s*`(.+?)`")
	boldBulletRegex    = regexp.MustCompile(`(?m)^- \*\*`)
	bulletRegex        = regexp.MustCompile(`(?m)^- `)
	comingSoonRegex    = regexp.MustCompile(`## \d+\.\s+Coming Soon\s*\n`)
	comingSoonRowRegex = regexp.MustCompile(`(?m)^\|\s*\*\*(.+?)\*\*\s*\|\s*(.+?)\s*\|`)
)

// Section is one numbered feature area.
type Section struct {
	Name        string `json:"name"`
	Route       string `json:"route,omitempty"`
	BulletCount int    `json:"bullet_count"`
}

// Upcoming is a row of the "Coming Soon" table.
type Upcoming struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Summary is the parsed feature document.
type Summary struct {
	Sections      []Section  `json:"sections"`
	TotalSections int        `json:"total_sections"`
	ComingSoon    []Upcoming `json:"coming_soon"`
}

// Load reads and parses FEATURES.md.
func Load(repoPath, docsPath string) (Summary, error) {
	content, err := reports.ReadDoc(repoPath, docsPath, reports.FeaturesFile)
	if err != nil {
		return Summary{}, err
	}
	return Parse(content), nil
}

// Parse builds a Summary. Sections whose name mentions "Coming Soon" are
// excluded from Sections and TotalSections.
func Parse(content string) Summary {
	out := Summary{Sections: []Section{}, ComingSoon: []Upcoming{}}

	for _, block := range splitSections(content) {
		header := sectionHeaderRegex.FindStringSubmatch(block)
		if header == nil {
			continue
		}
		name := strings.TrimSpace(header[1])
		if strings.Contains(name, comingSoonName) {
			continue
		}

		sec := Section{Name: name}
		if m := routeRegex.FindStringSubmatch(block); m != nil {
			sec.Route = m[1]
		}
		sec.BulletCount = len(boldBulletRegex.FindAllStringIndex(block, -1))
		if sec.BulletCount == 0 {
			sec.BulletCount = len(bulletRegex.FindAllStringIndex(block, -1))
		}
		out.Sections = append(out.Sections, sec)
	}
	out.TotalSections = len(out.Sections)
	out.ComingSoon = parseComingSoon(content)
	return out
}

func parseComingSoon(content string) []Upcoming {
	rows := []Upcoming{}
	loc := comingSoonRegex.FindStringIndex(content)
	if loc == nil {
		return rows
	}
	table := content[loc[1]:]
	if end := strings.Index(table, "\n## "); end >= 0 {
		table = table[:end]
	}
	for _, m := range comingSoonRowRegex.FindAllStringSubmatch(table, -1) {
		rows = append(rows, Upcoming{
			Name:        strings.TrimSpace(m[1]),
			Description: strings.TrimSpace(m[2]),
		})
	}
	return rows
}

func splitSections(content string) []string {
	locs := sectionStartRegex.FindAllStringIndex(content, -1)
	blocks := make([]string, 0, len(locs))
	for i, loc := range locs {
		end := len(content)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		blocks = append(blocks, content[loc[0]:end])
	}
	return blocks
}
