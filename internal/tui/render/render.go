// Package render turns interpreter snapshots into terminal strings.
package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/devggaurav/KShell-UI/internal/colors"
	"github.com/devggaurav/KShell-UI/internal/shell"
	"github.com/devggaurav/KShell-UI/internal/suggest"
)

const (
	inputPrefix     = "❯ "
	promptPrefix    = "? "
	selectedMarker  = "›"
	maxRowLabel     = 24
	defaultWidth    = 80
	ellipsis        = "…"
	dialogMinWidth  = 36
	suggestionSpace = "  "
)

// Theme names accepted by the theme config key.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Palette is the set of colors for one theme.
type Palette struct {
	Name      string
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Accent    lipgloss.Color
	Input     lipgloss.Color
	Error     lipgloss.Color
	Highlight lipgloss.Color
	Border    lipgloss.Color
}

// Dark is the default palette.
var Dark = Palette{
	Name:      ThemeDark,
	Text:      lipgloss.Color("252"),
	Muted:     lipgloss.Color("241"),
	Accent:    lipgloss.Color(ansiColorNumber(colors.Cyan)),
	Input:     lipgloss.Color(ansiColorNumber(colors.Blue)),
	Error:     lipgloss.Color(ansiColorNumber(colors.Red)),
	Highlight: lipgloss.Color("237"),
	Border:    lipgloss.Color("63"),
}

// Light is the palette for bright terminals.
var Light = Palette{
	Name:      ThemeLight,
	Text:      lipgloss.Color("235"),
	Muted:     lipgloss.Color("245"),
	Accent:    lipgloss.Color("25"),
	Input:     lipgloss.Color("26"),
	Error:     lipgloss.Color("160"),
	Highlight: lipgloss.Color("254"),
	Border:    lipgloss.Color("33"),
}

// PaletteFor returns the palette named name, falling back to Dark.
func PaletteFor(name string) Palette {
	if strings.EqualFold(name, ThemeLight) {
		return Light
	}
	return Dark
}

// Toggle returns the other palette.
func (p Palette) Toggle() Palette {
	if p.Name == ThemeLight {
		return Dark
	}
	return Light
}

// Styles are the lipgloss styles derived from a palette.
type Styles struct {
	Palette    Palette
	Output     lipgloss.Style
	Echo       lipgloss.Style
	Action     lipgloss.Style
	Selected   lipgloss.Style
	Suggestion lipgloss.Style
	Runnable   lipgloss.Style
	Pinned     lipgloss.Style
	Separator  lipgloss.Style
	Prompt     lipgloss.Style
	Help       lipgloss.Style
	Status     lipgloss.Style
	Dialog     lipgloss.Style
}

// NewStyles builds styles for p.
func NewStyles(p Palette) Styles {
	return Styles{
		Palette:    p,
		Output:     lipgloss.NewStyle().Foreground(p.Text),
		Echo:       lipgloss.NewStyle().Foreground(p.Input).Bold(true),
		Action:     lipgloss.NewStyle().Foreground(p.Accent).Underline(true),
		Selected:   lipgloss.NewStyle().Background(p.Highlight).Foreground(p.Accent),
		Suggestion: lipgloss.NewStyle().Foreground(p.Text),
		Runnable:   lipgloss.NewStyle().Foreground(p.Accent),
		Pinned:     lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Separator:  lipgloss.NewStyle().Foreground(p.Muted),
		Prompt:     lipgloss.NewStyle().Foreground(p.Input).Bold(true),
		Help:       lipgloss.NewStyle().Foreground(p.Muted),
		Status:     lipgloss.NewStyle().Foreground(p.Error),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
	}
}

// LogState defines the inputs needed to render the log.
type LogState struct {
	Entries []shell.LogEntry
	// Selected is the index of the highlighted actionable entry, or -1.
	Selected int
	Width    int
}

// Log renders every entry, oldest first, one per line. Multi-line output
// keeps its line breaks.
func Log(state LogState, styles Styles) string {
	width := state.Width
	if width <= 0 {
		width = defaultWidth
	}
	lines := make([]string, 0, len(state.Entries))
	for i, e := range state.Entries {
		lines = append(lines, LogLine(e, i == state.Selected, width, styles))
	}
	return strings.Join(lines, "\n")
}

// LogLine renders a single entry.
func LogLine(e shell.LogEntry, selected bool, width int, styles Styles) string {
	switch {
	case e.Input:
		return styles.Echo.Render(truncate(inputPrefix+e.Text, width))
	case selected:
		return styles.Selected.Render(truncate(selectedMarker+" "+e.Text, width))
	case e.Action != nil:
		return styles.Action.Render(truncate(e.Text, width))
	default:
		return styles.Output.Render(wrap(e.Text, width))
	}
}

// SuggestionRow renders the row under the input. Items are numbered from 1
// so alt+N accepts item N.
func SuggestionRow(items []suggest.RowItem, width int, styles Styles) string {
	if len(items) == 0 {
		return ""
	}
	if width <= 0 {
		width = defaultWidth
	}
	var b strings.Builder
	used := 0
	for i, item := range items {
		cell := suggestionCell(i, item)
		cellWidth := utf8.RuneCountInString(cell) + utf8.RuneCountInString(suggestionSpace)
		if used > 0 && used+cellWidth > width {
			b.WriteString(styles.Separator.Render(ellipsis))
			break
		}
		if used > 0 {
			b.WriteString(suggestionSpace)
		}
		b.WriteString(suggestionStyle(item, styles).Render(cell))
		used += cellWidth
	}
	return b.String()
}

func suggestionCell(i int, item suggest.RowItem) string {
	if item.Separator {
		return suggest.Separator
	}
	label := truncate(item.Suggestion.Label, maxRowLabel)
	if i < 9 {
		return fmt.Sprintf("%d:%s", i+1, label)
	}
	return label
}

func suggestionStyle(item suggest.RowItem, styles Styles) lipgloss.Style {
	switch {
	case item.Separator:
		return styles.Separator
	case item.Pinned:
		return styles.Pinned
	case item.Suggestion.Runnable:
		return styles.Runnable
	default:
		return styles.Suggestion
	}
}

// InputPrefix is drawn before the text input. Prompt mode uses a question
// mark; a busy shell shows the spinner frame instead.
func InputPrefix(prompt, busy bool, spinner string, styles Styles) string {
	switch {
	case busy:
		return styles.Prompt.Render(spinner + " ")
	case prompt:
		return styles.Prompt.Render(promptPrefix)
	default:
		return styles.Prompt.Render(inputPrefix)
	}
}

// PermissionDialog renders the grant dialog for a permission request.
func PermissionDialog(perms []string, styles Styles) string {
	var b strings.Builder
	b.WriteString("Allow kshell to use:\n")
	for _, p := range perms {
		b.WriteString("  • " + p + "\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.Help.Render("y: allow  n/esc: deny"))
	return styles.Dialog.Width(dialogMinWidth).Render(b.String())
}

// FooterState defines the inputs needed to render footer help text.
type FooterState struct {
	Busy     bool
	Prompt   bool
	Picking  bool
	Asking   bool
	Selected bool
	WorkDir  string
	Status   string
	Width    int
}

// Footer renders the footer with help text, or the status message when one
// is set.
func Footer(state FooterState, styles Styles) string {
	if state.Status != "" {
		return styles.Status.Render(truncate(state.Status, widthOr(state.Width)))
	}

	var help []string
	switch {
	case state.Asking:
		help = append(help, "y: allow", "n: deny")
	case state.Picking:
		help = append(help, "enter: pick", "esc: cancel")
	default:
		help = append(help, "tab: complete", "alt+N: accept")
		if state.Selected {
			help = append(help, "enter: open")
		} else {
			help = append(help, "↑/↓: select")
		}
		if state.Busy || state.Prompt {
			help = append(help, "ctrl+c: interrupt")
		} else {
			help = append(help, "ctrl+c: quit")
		}
	}
	if state.WorkDir != "" {
		help = append(help, state.WorkDir)
	}
	return styles.Help.Render(truncate(strings.Join(help, "  |  "), widthOr(state.Width)))
}

func widthOr(width int) int {
	if width <= 0 {
		return defaultWidth
	}
	return width
}

// truncate shortens s to width runes, ending with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	if width == 1 {
		return ellipsis
	}
	return string([]rune(s)[:width-1]) + ellipsis
}

// wrap breaks every line of s that is wider than width.
func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		runes := []rune(line)
		for len(runes) > width {
			out = append(out, string(runes[:width]))
			runes = runes[width:]
		}
		out = append(out, string(runes))
	}
	return strings.Join(out, "\n")
}

// ansiColorNumber extracts the color number from an ANSI escape sequence.
// Example: "\033[0;34m" -> "34"
func ansiColorNumber(ansi string) string {
	if len(ansi) < 2 {
		return ""
	}
	lastSemicolon := strings.LastIndex(ansi, ";")
	if lastSemicolon == -1 {
		return ""
	}
	return ansi[lastSemicolon+1 : len(ansi)-1]
}
