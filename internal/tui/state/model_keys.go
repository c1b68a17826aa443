package state

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/devggaurav/KShell-UI/internal/domain"
)

// handleKeyMsg processes keyboard input for the TUI.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	key := msg.String()

	if key == "ctrl+c" {
		return m, m.interruptOrQuit()
	}
	if m.asking != "" {
		return m, m.handleDialogKey(key)
	}
	if m.picking != "" {
		if key == "esc" {
			m.finishPick(domain.ActivityResult{})
			return m, nil
		}
		return m, m.updatePicker(msg)
	}

	switch key {
	case "enter":
		m.submit()
		return m, nil
	case "tab":
		m.acceptFirst()
		return m, nil
	case "esc":
		if m.selected >= 0 {
			m.selected = -1
			m.refreshLog()
		} else if m.snap.Mode.IsPrompt() {
			m.interp.Interrupt()
		}
		return m, nil
	case "up":
		m.moveSelection(-1)
		return m, nil
	case "down":
		m.moveSelection(1)
		return m, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	if n, ok := altDigit(key); ok {
		m.accept(n - 1)
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.interp.ChangeText(after, m.input.Position())
	}
	return m, cmd
}

// interruptOrQuit cancels running work when there is any, and quits
// otherwise.
func (m *Model) interruptOrQuit() tea.Cmd {
	if m.snap.Busy || m.snap.Mode.IsPrompt() || m.asking != "" || m.picking != "" {
		m.asking, m.askingPerms, m.picking = "", nil, ""
		m.interp.Interrupt()
		return nil
	}
	return tea.Quit
}

func (m *Model) handleDialogKey(key string) tea.Cmd {
	switch strings.ToLower(key) {
	case "y", "enter":
		m.answerPermission(true)
	case "n", "esc":
		m.answerPermission(false)
	}
	return nil
}

// submit runs the input line, or the selected log entry's action when the
// input is empty.
func (m *Model) submit() {
	line := m.input.Value()
	if line == "" && m.selected >= 0 {
		if action := m.snap.Log[m.selected].Action; action != nil {
			m.selected = -1
			m.refreshLog()
			action()
			return
		}
	}
	if m.interp.Submit(line) {
		m.input.Reset()
		m.selected = -1
	}
}

// acceptFirst accepts the first non-separator item of the suggestion row.
func (m *Model) acceptFirst() {
	for i, item := range m.snap.Row() {
		if !item.Separator {
			m.accept(i)
			return
		}
	}
}

// accept applies row item i and adopts the resulting text.
func (m *Model) accept(i int) {
	if !m.interp.Accept(i) {
		return
	}
	cur := m.interp.Snapshot()
	m.snap.Text = cur.Text
	m.input.SetValue(cur.Text)
	m.input.CursorEnd()
}

// moveSelection walks the actionable log entries. Moving down past the last
// one clears the selection.
func (m *Model) moveSelection(dir int) {
	log := m.snap.Log
	start := m.selected
	if start < 0 {
		if dir > 0 {
			return
		}
		start = len(log)
	}
	for i := start + dir; i >= 0 && i < len(log); i += dir {
		if log[i].Action != nil {
			m.selected = i
			m.refreshLog()
			return
		}
	}
	if dir > 0 {
		m.selected = -1
		m.refreshLog()
	}
}

func altDigit(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, "alt+")
	if !ok || len(rest) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
