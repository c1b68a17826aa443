// Package command implements the command registry, the matcher and
// dispatcher that binds a tokenized line to one definition, and the ranker
// that produces live suggestions while the user types.
package command

import (
	"context"
	"strings"

	"github.com/devggaurav/KShell-UI/internal/args"
	"github.com/devggaurav/KShell-UI/internal/domain"
	"github.com/devggaurav/KShell-UI/internal/suggest"
)

// Unbounded is the MaxArgs value for commands taking any number of arguments.
const Unbounded = -1

// MergePolicy selects the merge action the ranker attaches to a command's
// suggestion batches.
type MergePolicy int

const (
	// MergeAppend appends the replacement to the text.
	MergeAppend MergePolicy = iota
	// MergeToken replaces the trailing partial token.
	MergeToken
	// MergeArgs replaces everything after the command name. Used by commands
	// whose single logical argument may contain spaces (app and contact names).
	MergeArgs
)

// Session is the interpreter surface available to a running handler. Every
// side effect a handler has goes through it.
type Session interface {
	// Print appends a line to the log.
	Print(msg string)
	// PrintAction appends a line carrying a follow-up action.
	PrintAction(msg string, action func())
	// RequestPermissions asks the presentation layer for names and blocks
	// until it answers. A cancelled request reports false.
	RequestPermissions(ctx context.Context, names ...string) (bool, error)
	// StartForResult launches intent and blocks until it reports back. A
	// cancelled request reports a zero result.
	StartForResult(ctx context.Context, intent domain.Intent) (domain.ActivityResult, error)
	// Navigate asks the presentation layer to launch intent without waiting.
	Navigate(intent domain.Intent)
	// ToggleTheme flips the theme flag.
	ToggleTheme()
	// Exit raises the exit flag.
	Exit()
	// ClearLog empties the log.
	ClearLog()
	// WorkDir returns the current directory for file commands.
	WorkDir() string
	// SetWorkDir changes the current directory.
	SetWorkDir(dir string)
	// Prompt routes the next submitted line to next, showing hint as the
	// input placeholder.
	Prompt(hint string, next *Definition)
}

// Handler executes a command with its bound arguments (the command name
// itself is not included).
type Handler func(ctx context.Context, s Session, a args.Arguments) error

// Query is what a suggestion source is asked to complete.
type Query struct {
	// Args are the arguments already completed, before the partial one.
	Args args.Arguments
	// Partial is the text being completed. For MergeArgs commands it is the
	// whole argument text.
	Partial string
	// WorkDir is the interpreter's current directory.
	WorkDir string
}

// Source produces completion candidates in its own relevance order.
type Source func(ctx context.Context, q Query) []suggest.Suggestion

// Definition is one command. Definitions are plain records; the registry
// matches them by name and the dispatcher calls Run.
type Definition struct {
	Name        string
	Aliases     []string
	Usage       string
	Description string
	MinArgs     int
	MaxArgs     int
	Run         Handler
	Suggest     Source
	Merge       MergePolicy
	// Hidden definitions are matched but never offered as suggestions.
	Hidden bool
}

// Names returns the name followed by the aliases.
func (d *Definition) Names() []string {
	return append([]string{d.Name}, d.Aliases...)
}

// Matches reports whether name equals the name or an alias, ignoring case.
func (d *Definition) Matches(name string) bool {
	for _, n := range d.Names() {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// CheckArity validates an argument count.
func (d *Definition) CheckArity(n int) error {
	if n < d.MinArgs || (d.MaxArgs != Unbounded && n > d.MaxArgs) {
		return &ArityError{Command: d.Name, Min: d.MinArgs, Max: d.MaxArgs, Got: n, Usage: d.UsageText()}
	}
	return nil
}

// UsageText returns the usage line, defaulting to the name.
func (d *Definition) UsageText() string {
	if d.Usage != "" {
		return d.Usage
	}
	return d.Name
}

// TakesArgs reports whether the command accepts any argument.
func (d *Definition) TakesArgs() bool {
	return d.MaxArgs != 0
}
