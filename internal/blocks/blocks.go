// SPDX-License-Identifier: AGPL-3.0-or-later

// Package blocks renders parsed project data as Slack Block Kit messages.
// Builders are pure: the same input always yields the same blocks.
package blocks

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Block kinds.
const (
	KindHeader  = "header"
	KindSection = "section"
	KindDivider = "divider"
	KindContext = "context"
	KindImage   = "image"
)

// Limits imposed by the chat platform or chosen to keep posts readable.
const (
	MaxHeaderRunes  = 150
	MaxSectionChars = 2900
	MaxFields       = 10

	headLines = 10
	tailLines = 3
)

// Text is a plain_text or mrkdwn text object.
type Text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Block is one Block Kit layout block. Only the fields of its kind are set.
type Block struct {
	Type     string `json:"type"`
	Text     *Text  `json:"text,omitempty"`
	Fields   []Text `json:"fields,omitempty"`
	Elements []Text `json:"elements,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	AltText  string `json:"alt_text,omitempty"`
}

// Header returns a header block, cut to MaxHeaderRunes.
func Header(text string) Block {
	return Block{Type: KindHeader, Text: &Text{Type: "plain_text", Text: truncateRunes(text, MaxHeaderRunes)}}
}

// Section returns a mrkdwn section block.
func Section(text string) Block {
	return Block{Type: KindSection, Text: &Text{Type: "mrkdwn", Text: text}}
}

// Fields returns a section block of mrkdwn fields, keeping at most MaxFields.
func Fields(fields ...string) Block {
	if len(fields) > MaxFields {
		fields = fields[:MaxFields]
	}
	b := Block{Type: KindSection, Fields: make([]Text, 0, len(fields))}
	for _, f := range fields {
		b.Fields = append(b.Fields, Text{Type: "mrkdwn", Text: f})
	}
	return b
}

// Divider returns a divider block.
func Divider() Block {
	return Block{Type: KindDivider}
}

// ContextLine returns a context block holding one mrkdwn element.
func ContextLine(text string) Block {
	return Block{Type: KindContext, Elements: []Text{{Type: "mrkdwn", Text: text}}}
}

// Image returns an image block.
func Image(url, alt string) Block {
	return Block{Type: KindImage, ImageURL: url, AltText: alt}
}

// JoinLines joins lines with newlines. When the result is longer than
// MaxSectionChars characters it keeps the first 10 and last 3 lines around an
// ellipsis. Text still over the limit after that is cut and ends in "...".
func JoinLines(lines []string) string {
	text := strings.Join(lines, "\n")
	if utf8.RuneCountInString(text) <= MaxSectionChars {
		return text
	}
	if len(lines) > headLines+tailLines {
		text = strings.Join(lines[:headLines], "\n") + "\n...\n" + strings.Join(lines[len(lines)-tailLines:], "\n")
	}
	if utf8.RuneCountInString(text) > MaxSectionChars {
		text = truncateRunes(text, MaxSectionChars-3) + "..."
	}
	return text
}

// Bullets renders up to limit items as "• item" lines.
func Bullets(items []string, limit int) string {
	if len(items) > limit {
		items = items[:limit]
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "• " + item
	}
	return strings.Join(lines, "\n")
}

// ProgressBar renders "████████░░░░░░░░ 50%" with the given width.
func ProgressBar(completed, total, width int) string {
	if total == 0 {
		return "No phases"
	}
	ratio := float64(completed) / float64(total)
	filled := int(math.RoundToEven(ratio * float64(width)))
	pct := int(math.RoundToEven(ratio * 100))
	return fmt.Sprintf("%s%s %d%%", strings.Repeat("█", filled), strings.Repeat("░", width-filled), pct)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
