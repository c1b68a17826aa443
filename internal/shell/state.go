// Package shell implements the interpreter state machine: it owns the input
// text, the mode, the busy flag and the log, runs one command at a time and
// publishes every transition as an immutable State snapshot.
package shell

import (
	"github.com/devggaurav/KShell-UI/internal/broker"
	"github.com/devggaurav/KShell-UI/internal/command"
	"github.com/devggaurav/KShell-UI/internal/domain"
	"github.com/devggaurav/KShell-UI/internal/suggest"
)

// Request kinds served by the interpreter brokers.
const (
	KindPermission = "permission"
	KindActivity   = "activity"
)

// LogEntry is one line of the log.
type LogEntry struct {
	ID   string
	Text string
	// Input marks a line echoing a submitted command.
	Input bool
	// Action is an optional follow-up run when the entry is selected.
	Action func()
}

// State is a snapshot of the interpreter. Snapshots are never modified after
// they are published; slices must be treated as read-only.
type State struct {
	// Version increases by one on every transition.
	Version uint64

	Text   string
	Cursor int
	Mode   command.Mode
	Busy   bool

	Log         []LogEntry
	Suggestions suggest.Batch
	Pinned      []suggest.Suggestion

	// Permission and Activity mirror the pending broker requests.
	Permission *broker.Request[[]string]
	Activity   *broker.Request[domain.Intent]

	WorkDir string

	// One-shot requests cleared by the presentation layer.
	ThemeRequested bool
	ExitRequested  bool
	Navigate       *domain.Intent
}

// Idle reports whether a new line would be accepted.
func (s State) Idle() bool {
	return !s.Busy
}

// DefaultPlaceholder is the input hint outside prompt mode.
const DefaultPlaceholder = "Enter a command..."

// Placeholder returns the input hint for the current mode.
func (s State) Placeholder() string {
	if s.Mode.Hint == "" {
		return DefaultPlaceholder
	}
	return s.Mode.Hint
}

// Row lays out the suggestion row for the current text.
func (s State) Row() []suggest.RowItem {
	return suggest.Row(s.Text, s.Pinned, s.Suggestions)
}
