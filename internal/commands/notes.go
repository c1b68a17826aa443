package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/devggaurav/KShell-UI/internal/args"
	"github.com/devggaurav/KShell-UI/internal/command"
	"github.com/devggaurav/KShell-UI/internal/domain"
	"github.com/devggaurav/KShell-UI/internal/suggest"
)

// ClearNotesQuestion is printed before clearing all notes.
const ClearNotesQuestion = "Clear all notes? (yes/no)"

func noteCommand(d Deps) *command.Definition {
	return &command.Definition{
		Name:        "note",
		Usage:       "note <text>",
		Description: "Save a note",
		MinArgs:     1,
		MaxArgs:     command.Unbounded,
		Merge:       command.MergeAppend,
		Run: func(ctx context.Context, s command.Session, a args.Arguments) error {
			note, err := d.Notes.AddNote(ctx, a.Join())
			if err != nil {
				return err
			}
			s.Print(fmt.Sprintf("Note #%d added: %s", note.ID, note.Text))
			return nil
		},
	}
}

func notesCommand(d Deps) *command.Definition {
	confirm := confirmClearCommand(d)
	return &command.Definition{
		Name:        "notes",
		Usage:       "notes [list | rm <id> | clear]",
		Description: "List or remove notes",
		MaxArgs:     2,
		Merge:       command.MergeToken,
		Suggest: func(ctx context.Context, q command.Query) []suggest.Suggestion {
			if q.Args.IsEmpty() {
				return subcommands(q.Partial, []string{"list", "rm", "clear"}, map[string]bool{"list": true, "clear": true})
			}
			if q.Args.First() != "rm" {
				return nil
			}
			notes, err := d.Notes.ListNotes(ctx)
			if err != nil {
				return nil
			}
			var out []suggest.Suggestion
			for _, n := range notes {
				id := strconv.FormatInt(n.ID, 10)
				if strings.HasPrefix(id, q.Partial) || domain.ContainsFold(n.Text, q.Partial) {
					out = append(out, suggest.Suggestion{Label: fmt.Sprintf("#%s %s", id, n.Text), Replacement: id, Runnable: true})
				}
			}
			return out
		},
		Run: func(ctx context.Context, s command.Session, a args.Arguments) error {
			sub := "list"
			if !a.IsEmpty() {
				sub = strings.ToLower(a.First())
			}
			switch {
			case sub == "list" && a.Len() <= 1:
				return listNotes(ctx, d, s)
			case sub == "rm" && a.Len() == 2:
				return removeNote(ctx, d, s, a.Last())
			case sub == "clear" && a.Len() == 1:
				s.Print(ClearNotesQuestion)
				s.Prompt("yes/no", confirm)
				return nil
			default:
				return fmt.Errorf("usage: notes [list | rm <id> | clear]")
			}
		},
	}
}

func listNotes(ctx context.Context, d Deps, s command.Session) error {
	notes, err := d.Notes.ListNotes(ctx)
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		s.Print("No notes")
		return nil
	}
	for _, n := range notes {
		s.Print(fmt.Sprintf("#%d %s", n.ID, n.Text))
	}
	return nil
}

func removeNote(ctx context.Context, d Deps, s command.Session, raw string) error {
	id, err := strconv.ParseInt(strings.TrimPrefix(raw, "#"), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid note id %s: %w", quoteName(raw), domain.ErrInvalidInput)
	}
	removed, err := d.Notes.RemoveNote(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		s.Print(fmt.Sprintf("No note #%d", id))
		return nil
	}
	s.Print(fmt.Sprintf("Removed note #%d", id))
	return nil
}

// confirmClearCommand answers ClearNotesQuestion. It is reached only through
// prompt mode and never registered.
func confirmClearCommand(d Deps) *command.Definition {
	return &command.Definition{
		Name:    "notes clear",
		Usage:   "yes | no",
		MinArgs: 1,
		MaxArgs: 1,
		Hidden:  true,
		Merge:   command.MergeToken,
		Suggest: func(_ context.Context, q command.Query) []suggest.Suggestion {
			return subcommands(q.Partial, []string{"yes", "no"}, map[string]bool{"yes": true, "no": true})
		},
		Run: func(ctx context.Context, s command.Session, a args.Arguments) error {
			switch strings.ToLower(a.First()) {
			case "yes", "y":
				n, err := d.Notes.ClearNotes(ctx)
				if err != nil {
					return err
				}
				s.Print(fmt.Sprintf("Cleared %d notes", n))
			default:
				s.Print("Kept all notes")
			}
			return nil
		},
	}
}

// subcommands suggests the words starting with partial, in the given order.
func subcommands(partial string, words []string, runnable map[string]bool) []suggest.Suggestion {
	var out []suggest.Suggestion
	for _, w := range words {
		if strings.HasPrefix(w, strings.ToLower(partial)) {
			repl := w
			if !runnable[w] {
				repl += " "
			}
			out = append(out, suggest.Suggestion{Label: w, Replacement: repl, Runnable: runnable[w]})
		}
	}
	return out
}
