package state

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/devggaurav/KShell-UI/internal/domain"
	"github.com/devggaurav/KShell-UI/internal/shell"
	"github.com/devggaurav/KShell-UI/internal/tui/render"
)

// handleSnapshot adopts s and serves every request it carries. Requests are
// read from the live brokers, not from s, so a stale snapshot never revives
// an answered request.
func (m *Model) handleSnapshot(s shell.State) tea.Cmd {
	wasBusy := m.snap.Busy
	m.snap = s
	m.input.Placeholder = s.Placeholder()
	if m.selected >= len(s.Log) || (m.selected >= 0 && s.Log[m.selected].Action == nil) {
		m.selected = -1
	}
	m.refreshLog()

	var cmds []tea.Cmd
	if s.Busy && !wasBusy {
		cmds = append(cmds, m.spinner.Tick)
	}
	m.syncPermission()
	cmds = append(cmds, m.syncActivity())
	if m.interp.AckTheme() {
		m.styles = render.NewStyles(m.styles.Palette.Toggle())
		m.refreshLog()
	}
	if s.Navigate != nil {
		if live := m.interp.Snapshot().Navigate; live != nil && m.interp.AckNavigate() {
			cmds = append(cmds, launchCmd(m.launcher, *live))
		}
	}
	if m.interp.AckExit() {
		return tea.Quit
	}
	cmds = append(cmds, waitForSnapshot(m.updates))
	return tea.Batch(cmds...)
}

// syncPermission shows the dialog for a new permission request, or answers it
// directly when every permission was granted earlier in the session.
func (m *Model) syncPermission() {
	perms := m.interp.Permissions()
	req, ok := perms.Current()
	if !ok {
		m.asking, m.askingPerms = "", nil
		return
	}
	if req.ID == m.asking {
		return
	}
	if !req.Triggered {
		if err := perms.MarkTriggered(); err != nil {
			m.logger.Warn("tui: mark permission triggered", "error", err)
		}
	}
	if m.allGranted(req.Params) {
		perms.Complete(true)
		return
	}
	m.asking, m.askingPerms = req.ID, slices.Clone(req.Params)
}

func (m *Model) allGranted(perms []string) bool {
	for _, p := range perms {
		if !m.granted[p] {
			return false
		}
	}
	return true
}

// answerPermission completes the shown dialog.
func (m *Model) answerPermission(allow bool) {
	if allow {
		for _, p := range m.askingPerms {
			m.granted[p] = true
		}
	}
	m.asking, m.askingPerms = "", nil
	m.interp.Permissions().Complete(allow)
}

// syncActivity opens the file picker for a new pick request. Other activity
// kinds have no handler in the terminal and are cancelled.
func (m *Model) syncActivity() tea.Cmd {
	acts := m.interp.Activities()
	req, ok := acts.Current()
	if !ok {
		m.picking = ""
		return nil
	}
	if req.ID == m.picking {
		return nil
	}
	if req.Params.Action != domain.ActionPickFile {
		m.logger.Warn("tui: unsupported activity", "intent", req.Params.String())
		acts.Cancel()
		return nil
	}
	if !req.Triggered {
		if err := acts.MarkTriggered(); err != nil {
			m.logger.Warn("tui: mark activity triggered", "error", err)
		}
	}
	m.picking = req.ID
	dir := req.Params.Target
	if dir == "" {
		dir = m.snap.WorkDir
	}
	m.picker.CurrentDirectory = dir
	return m.picker.Init()
}

// updatePicker forwards msg to the picker and completes the request once a
// file is chosen.
func (m *Model) updatePicker(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.finishPick(domain.ActivityResult{OK: true, Data: path})
		return nil
	}
	return cmd
}

func (m *Model) finishPick(result domain.ActivityResult) {
	m.picking = ""
	m.interp.Activities().Complete(result)
}
