package state

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/devggaurav/KShell-UI/internal/domain"
	"github.com/devggaurav/KShell-UI/internal/shell"
	"github.com/devggaurav/KShell-UI/internal/tui/app"
)

// SnapshotMsg carries a published interpreter state.
type SnapshotMsg struct {
	State shell.State
}

// ClosedMsg is sent when the interpreter subscription ends.
type ClosedMsg struct{}

// LaunchedMsg reports the outcome of a navigation intent.
type LaunchedMsg struct {
	Intent domain.Intent
	Err    error
}

// waitForSnapshot blocks on the subscription and turns the next state into a
// message.
func waitForSnapshot(ch <-chan shell.State) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return ClosedMsg{}
		}
		return SnapshotMsg{State: s}
	}
}

// launchCmd starts intent off the UI goroutine.
func launchCmd(l app.Launcher, intent domain.Intent) tea.Cmd {
	return func() tea.Msg {
		return LaunchedMsg{Intent: intent, Err: l.Launch(context.Background(), intent)}
	}
}
