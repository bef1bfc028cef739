// Package cmd provides a transport-agnostic command core: a command is something
// with a name, description, and Run(ctx, invocation). How it is registered and
// dispatched is defined by adapters that wrap this.
package cmd

import (
	"context"
	"strings"
	"unicode"
)

// Invocation carries what any command runner can pass: the command name as
// typed, its arguments, the raw argument text and an opaque payload. Adapters
// set Data to their context (e.g. the message the command arrived in).
type Invocation struct {
	Name string
	Args []string
	Raw  string
	Data any
}

// Parse splits "name arg1 arg2" after prefix. ok is false when text does not
// start with prefix or names no command.
func Parse(prefix, text string) (inv *Invocation, ok bool) {
	rest, found := strings.CutPrefix(strings.TrimSpace(text), prefix)
	if !found || prefix == "" {
		return nil, false
	}
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	name, raw := rest, ""
	if i := strings.IndexFunc(rest, unicode.IsSpace); i >= 0 {
		name, raw = rest[:i], rest[i:]
	}
	if name == "" {
		return nil, false
	}
	raw = strings.TrimSpace(raw)
	return &Invocation{Name: name, Args: strings.Fields(raw), Raw: raw}, true
}

// Command is the universal contract: identity plus execution. Permissions and
// transport-specific registration stay in adapters and middleware.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}
