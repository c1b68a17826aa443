package state

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/devggaurav/KShell-UI/internal/tui/render"
)

// View renders the TUI.
func (m *Model) View() string {
	width := m.width
	if width == 0 {
		width = defaultViewportWidth
	}

	body := m.viewport.View()
	if m.picking != "" {
		body = m.picker.View()
	}
	lower := render.SuggestionRow(m.snap.Row(), width, m.styles)
	if m.asking != "" {
		lower = render.PermissionDialog(m.askingPerms, m.styles)
	}

	input := render.InputPrefix(m.snap.Mode.IsPrompt(), m.snap.Busy, m.spinner.View(), m.styles) + m.input.View()

	footer := render.Footer(render.FooterState{
		Busy:     m.snap.Busy,
		Prompt:   m.snap.Mode.IsPrompt(),
		Picking:  m.picking != "",
		Asking:   m.asking != "",
		Selected: m.selected >= 0,
		WorkDir:  m.snap.WorkDir,
		Status:   m.status,
		Width:    width,
	}, m.styles)

	return lipgloss.JoinVertical(lipgloss.Left, body, lower, input, footer)
}
