// SPDX-License-Identifier: AGPL-3.0-or-later

package blocks

import "fmt"

// Context selects the wording of release, changelog and confluence headers
// depending on why a post is made.
type Context int

const (
	// ContextDeploy announces shipped work. It is the default.
	ContextDeploy Context = iota
	// ContextSession reports progress during a working session.
	ContextSession
	// ContextWrap summarizes a finished session.
	ContextWrap
)

// Contexts lists every context in flag order.
var Contexts = []Context{ContextDeploy, ContextSession, ContextWrap}

func (c Context) String() string {
	switch c {
	case ContextDeploy:
		return "deploy"
	case ContextSession:
		return "session"
	case ContextWrap:
		return "wrap"
	}
	return fmt.Sprintf("Context(%d)", int(c))
}

// ParseContext maps a flag value to a Context.
func ParseContext(s string) (Context, error) {
	for _, c := range Contexts {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("invalid context %q (want deploy, session or wrap)", s)
}

// Set implements pflag.Value.
func (c *Context) Set(s string) error {
	v, err := ParseContext(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Type implements pflag.Value.
func (c *Context) Type() string { return "context" }
