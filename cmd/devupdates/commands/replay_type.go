// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bartekus/devupdates/internal/blocks"
)

var (
	_ pflag.Value = (*ReplayType)(nil)
	_ pflag.Value = (*blocks.Context)(nil)
)

// ReplayType selects which history `replay` posts.
type ReplayType int

const (
	ReplayAll ReplayType = iota
	ReplayRoadmap
	ReplayRelease
	ReplayChangelog
	ReplayStats
)

var replayNames = []string{"all", "roadmap", "release", "changelog", "stats"}

func (t ReplayType) String() string {
	if int(t) < 0 || int(t) >= len(replayNames) {
		return fmt.Sprintf("ReplayType(%d)", int(t))
	}
	return replayNames[t]
}

// ParseReplayType maps a flag value to a ReplayType.
func ParseReplayType(s string) (ReplayType, error) {
	for i, name := range replayNames {
		if name == s {
			return ReplayType(i), nil
		}
	}
	return 0, fmt.Errorf("invalid replay type %q (want %s)", s, strings.Join(replayNames, ", "))
}

// Set implements pflag.Value.
func (t *ReplayType) Set(s string) error {
	v, err := ParseReplayType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Type implements pflag.Value.
func (t *ReplayType) Type() string { return "type" }

// Includes reports whether replaying t covers kind.
func (t ReplayType) Includes(kind ReplayType) bool {
	return t == ReplayAll || t == kind
}
