package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/devggaurav/KShell-UI/internal/args"
	"github.com/devggaurav/KShell-UI/internal/command"
	"github.com/devggaurav/KShell-UI/internal/suggest"
)

func themeCommand() *command.Definition {
	return &command.Definition{
		Name:        "theme",
		Usage:       "theme",
		Description: "Toggle dark and light theme",
		Run: func(_ context.Context, s command.Session, _ args.Arguments) error {
			s.ToggleTheme()
			return nil
		},
	}
}

func clearCommand() *command.Definition {
	return &command.Definition{
		Name:        "clear",
		Aliases:     []string{"cls"},
		Usage:       "clear",
		Description: "Clear the log",
		Run: func(_ context.Context, s command.Session, _ args.Arguments) error {
			s.ClearLog()
			return nil
		},
	}
}

func exitCommand() *command.Definition {
	return &command.Definition{
		Name:        "exit",
		Aliases:     []string{"quit"},
		Usage:       "exit",
		Description: "Leave the shell",
		Run: func(_ context.Context, s command.Session, _ args.Arguments) error {
			s.Exit()
			return nil
		},
	}
}

func helpCommand(reg *command.Registry) *command.Definition {
	return &command.Definition{
		Name:        "help",
		Aliases:     []string{"?"},
		Usage:       "help [command]",
		Description: "Show commands or the usage of one",
		MaxArgs:     1,
		Merge:       command.MergeToken,
		Suggest: func(_ context.Context, q command.Query) []suggest.Suggestion {
			var out []suggest.Suggestion
			for _, def := range reg.All() {
				if !def.Hidden && strings.HasPrefix(def.Name, strings.ToLower(q.Partial)) {
					out = append(out, suggest.Suggestion{Label: def.Name, Replacement: def.Name, Runnable: true})
				}
			}
			return out
		},
		Run: func(_ context.Context, s command.Session, a args.Arguments) error {
			if a.IsEmpty() {
				for _, def := range reg.All() {
					if !def.Hidden {
						s.Print(fmt.Sprintf("%-10s %s", def.Name, def.Description))
					}
				}
				return nil
			}
			def, ok := reg.Lookup(a.First())
			if !ok || def.Hidden {
				return &command.NoSuchCommandError{Name: a.First(), DidYouMean: reg.Closest(a.First())}
			}
			s.Print("Usage: " + def.UsageText())
			if def.Description != "" {
				s.Print(def.Description)
			}
			if len(def.Aliases) > 0 {
				s.Print("Aliases: " + strings.Join(def.Aliases, ", "))
			}
			return nil
		},
	}
}
