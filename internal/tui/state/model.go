// Package state holds the bubbletea model of the interactive shell.
package state

import (
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/devggaurav/KShell-UI/internal/logging"
	"github.com/devggaurav/KShell-UI/internal/shell"
	"github.com/devggaurav/KShell-UI/internal/tui/app"
	"github.com/devggaurav/KShell-UI/internal/tui/render"
)

const (
	// input, suggestion row and footer
	chromeLines           = 3
	defaultViewportWidth  = 80
	defaultViewportHeight = 21
	pickerHeight          = 12
)

// Options configures a Model.
type Options struct {
	Theme    string
	Launcher app.Launcher
	Logger   logging.Logger
}

// Model is the bubbletea model of the shell. It renders interpreter
// snapshots and acts as the presentation layer for permission, activity,
// navigation, theme and exit requests.
type Model struct {
	interp *shell.Interpreter
	snap   shell.State

	updates     <-chan shell.State
	unsubscribe func()

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	picker   filepicker.Model

	styles   render.Styles
	launcher app.Launcher
	logger   logging.Logger

	// asking is the id of the permission request whose dialog is shown.
	asking      string
	askingPerms []string
	// granted remembers permissions allowed during this session.
	granted map[string]bool
	// picking is the id of the activity request served by the file picker.
	picking string

	// selected indexes the highlighted actionable log entry, or -1.
	selected int
	status   string
	width    int
	height   int
}

// NewModel creates a model for interp.
func NewModel(interp *shell.Interpreter, opts Options) *Model {
	if opts.Launcher == nil {
		opts.Launcher = app.NewExecLauncher(nil, opts.Logger)
	}
	if opts.Logger == nil {
		opts.Logger = logging.GetGlobal()
	}

	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = shell.DefaultPlaceholder
	input.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	picker := filepicker.New()
	picker.AutoHeight = false
	picker.Height = pickerHeight

	m := &Model{
		interp:   interp,
		snap:     interp.Snapshot(),
		input:    input,
		spinner:  sp,
		viewport: viewport.New(defaultViewportWidth, defaultViewportHeight),
		picker:   picker,
		styles:   render.NewStyles(render.PaletteFor(opts.Theme)),
		launcher: opts.Launcher,
		logger:   opts.Logger,
		granted:  make(map[string]bool),
		selected: -1,
	}
	m.refreshLog()
	return m
}

// Init subscribes to the interpreter.
func (m *Model) Init() tea.Cmd {
	if m.updates == nil {
		m.updates, m.unsubscribe = m.interp.Subscribe()
	}
	return tea.Batch(textinput.Blink, waitForSnapshot(m.updates))
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case SnapshotMsg:
		return m, m.handleSnapshot(msg.State)
	case ClosedMsg:
		return m, tea.Quit
	case LaunchedMsg:
		if msg.Err != nil {
			m.logger.Warn("tui: launch failed", "intent", msg.Intent.String(), "error", msg.Err)
			m.status = "Could not open " + msg.Intent.Target + ": " + msg.Err.Error()
		}
		return m, nil
	case spinner.TickMsg:
		if !m.snap.Busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)
		return m, nil
	}

	if m.picking != "" {
		return m, m.updatePicker(msg)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Close drops the interpreter subscription.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Theme returns the active palette name.
func (m *Model) Theme() string {
	return m.styles.Palette.Name
}

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width, m.height = msg.Width, msg.Height
	m.viewport.Width = msg.Width
	m.viewport.Height = max(1, msg.Height-chromeLines)
	m.input.Width = max(1, msg.Width-2)
	m.picker.Height = max(1, min(pickerHeight, msg.Height-chromeLines))
	m.refreshLog()
}

// refreshLog rerenders the log into the viewport, following the tail unless
// the user scrolled up.
func (m *Model) refreshLog() {
	follow := m.viewport.AtBottom() || m.viewport.TotalLineCount() == 0
	m.viewport.SetContent(render.Log(render.LogState{
		Entries:  m.snap.Log,
		Selected: m.selected,
		Width:    m.viewport.Width,
	}, m.styles))
	if follow {
		m.viewport.GotoBottom()
	}
}
