// SPDX-License-Identifier: AGPL-3.0-or-later

package gitstats

import "regexp"

// CommitType tags a commit by intent, inferred from its subject.
type CommitType string

const (
	TypeFeature  CommitType = "feature"
	TypeBugfix   CommitType = "bugfix"
	TypeRefactor CommitType = "refactor"
	TypeInfra    CommitType = "infra"
	TypeDocs     CommitType = "docs"
	TypeUpdate   CommitType = "update"
)

// FallbackType is assigned to subjects no rule recognises. Unknown work is
// counted as feature work on purpose.
const FallbackType = TypeFeature

type typeRule struct {
	pattern *regexp.Regexp
	typ     CommitType
	skip    bool
}

// Checked in order; the first match wins.
var typeRules = []typeRule{
	{pattern: regexp.MustCompile(`(?i)^(Fix|Bugfix|Hotfix)\b`), typ: TypeBugfix},
	{pattern: regexp.MustCompile(`(?i)^Refactor\b`), typ: TypeRefactor},
	{pattern: regexp.MustCompile(`(?i)(^Deploy|^Provision|infra|GCP|Cloud Run|Cloud Build|Cloud SQL|setup-gcp)`), typ: TypeInfra},
	{pattern: regexp.MustCompile(`(?i)(README|CHANGELOG|ROADMAP|FEATURES|\.md$|^Update docs|^Add docs|^Documentation)`), typ: TypeDocs},
	{pattern: regexp.MustCompile(`(?i)^Ignore\b|^\.gitignore`), skip: true},
	{pattern: regexp.MustCompile(`(?i)^Merge\b`), skip: true},
	{pattern: regexp.MustCompile(`(?i)^(Add|Create|Implement|Build|Wire|Set up|Seed)\b`), typ: TypeFeature},
	{pattern: regexp.MustCompile(`(?i)^(Update|Enhance|Improve|Bump|Upgrade)\b`), typ: TypeUpdate},
}

// ClassifyCommit returns the commit type for subject. ok is false when the
// commit should be left out of the stats entirely (merges, ignore-file churn).
func ClassifyCommit(subject string) (typ CommitType, ok bool) {
	for _, r := range typeRules {
		if r.pattern.MatchString(subject) {
			if r.skip {
				return "", false
			}
			return r.typ, true
		}
	}
	return FallbackType, true
}

// Project tags produced by workspace path rules.
const (
	ProjectTools = "tools"
	ProjectInfra = "infra"
	ProjectDocs  = "docs"
)

type pathRule struct {
	pattern *regexp.Regexp
	project string // empty: the file does not count towards any project
}

var workspacePathRules = []pathRule{
	{regexp.MustCompile(`^scripts/`), ProjectTools},
	{regexp.MustCompile(`^infra/`), ProjectInfra},
	{regexp.MustCompile(`^docs/`), ProjectDocs},
	{regexp.MustCompile(`^\.claude/`), ""},
	{regexp.MustCompile(`^\.gitignore$`), ""},
	{regexp.MustCompile(`^CLAUDE\.md$`), ""},
}

// ClassifyProject picks the project tag of a commit. Commits in repositories
// other than workspaceRepo are tagged with the repository name. Workspace
// commits are classified by their changed paths, preferring tools, then
// infra, then docs, then the repository name; ok is false when every changed
// path is ignored.
func ClassifyProject(repoName string, files []string, workspaceRepo string) (project string, ok bool) {
	if workspaceRepo == "" || repoName != workspaceRepo {
		return repoName, true
	}

	tags := make(map[string]bool)
	for _, f := range files {
		matched := false
		for _, r := range workspacePathRules {
			if r.pattern.MatchString(f) {
				if r.project != "" {
					tags[r.project] = true
				}
				matched = true
				break
			}
		}
		if !matched {
			tags[repoName] = true
		}
	}
	if len(tags) == 0 {
		return "", false
	}
	for _, preferred := range []string{ProjectTools, ProjectInfra, ProjectDocs} {
		if tags[preferred] {
			return preferred, true
		}
	}
	return repoName, true
}
