package commands

import (
	"context"
	"strings"

	"github.com/devggaurav/KShell-UI/internal/args"
	"github.com/devggaurav/KShell-UI/internal/command"
	"github.com/devggaurav/KShell-UI/internal/domain"
	"github.com/devggaurav/KShell-UI/internal/suggest"
)

// appSource suggests installed apps whose label contains the argument text.
func appSource(d Deps) command.Source {
	return func(ctx context.Context, q command.Query) []suggest.Suggestion {
		apps, err := d.Apps.List(ctx, q.Partial)
		if err != nil {
			return nil
		}
		out := make([]suggest.Suggestion, len(apps))
		for i, a := range apps {
			out[i] = suggest.Suggestion{Label: a.Label, Replacement: a.Label, Runnable: true}
		}
		return out
	}
}

// findApp resolves the joined arguments to one app, printing when none
// matches.
func findApp(ctx context.Context, d Deps, s command.Session, a args.Arguments) (domain.App, bool, error) {
	name := a.Join()
	app, ok, err := d.Apps.Find(ctx, name)
	if err != nil {
		return domain.App{}, false, err
	}
	if !ok {
		s.Print("No app matches " + quoteName(name))
	}
	return app, ok, nil
}

func openCommand(d Deps) *command.Definition {
	return &command.Definition{
		Name:        "open",
		Aliases:     []string{"launch"},
		Usage:       "open <app>",
		Description: "Launch an app",
		MinArgs:     1,
		MaxArgs:     command.Unbounded,
		Merge:       command.MergeArgs,
		Suggest:     appSource(d),
		Run: func(ctx context.Context, s command.Session, a args.Arguments) error {
			app, ok, err := findApp(ctx, d, s, a)
			if err != nil || !ok {
				return err
			}
			s.Navigate(domain.LaunchIntent(app))
			s.Print("Opening " + app.Label)
			return nil
		},
	}
}

func pinCommand(d Deps) *command.Definition {
	return &command.Definition{
		Name:        "pin",
		Usage:       "pin <app>",
		Description: "Pin an app to the shortcut row",
		MinArgs:     1,
		MaxArgs:     command.Unbounded,
		Merge:       command.MergeArgs,
		Suggest:     appSource(d),
		Run: func(ctx context.Context, s command.Session, a args.Arguments) error {
			app, ok, err := findApp(ctx, d, s, a)
			if err != nil || !ok {
				return err
			}
			if err := d.Pinned.Pin(ctx, app.Package); err != nil {
				return err
			}
			s.Print("Pinned " + app.Label)
			return nil
		},
	}
}

func unpinCommand(d Deps) *command.Definition {
	return &command.Definition{
		Name:        "unpin",
		Usage:       "unpin <app>",
		Description: "Remove an app from the shortcut row",
		MinArgs:     1,
		MaxArgs:     command.Unbounded,
		Merge:       command.MergeArgs,
		Suggest: func(ctx context.Context, q command.Query) []suggest.Suggestion {
			apps, err := pinnedApps(ctx, d)
			if err != nil {
				return nil
			}
			var out []suggest.Suggestion
			for _, a := range apps {
				if domain.ContainsFold(a.Label, q.Partial) {
					out = append(out, suggest.Suggestion{Label: a.Label, Replacement: a.Label, Runnable: true})
				}
			}
			return out
		},
		Run: func(ctx context.Context, s command.Session, a args.Arguments) error {
			name := a.Join()
			apps, err := pinnedApps(ctx, d)
			if err != nil {
				return err
			}
			for _, app := range apps {
				if !strings.EqualFold(app.Label, name) && app.Package != name {
					continue
				}
				if _, err := d.Pinned.Unpin(ctx, app.Package); err != nil {
					return err
				}
				s.Print("Unpinned " + app.Label)
				return nil
			}
			// Packages whose app was uninstalled can still be unpinned by id.
			removed, err := d.Pinned.Unpin(ctx, name)
			if err != nil {
				return err
			}
			if removed {
				s.Print("Unpinned " + name)
				return nil
			}
			s.Print("Not pinned: " + quoteName(name))
			return nil
		},
	}
}

func pinnedCommand(d Deps) *command.Definition {
	return &command.Definition{
		Name:        "pinned",
		Usage:       "pinned",
		Description: "List pinned apps",
		Run: func(ctx context.Context, s command.Session, _ args.Arguments) error {
			apps, err := pinnedApps(ctx, d)
			if err != nil {
				return err
			}
			if len(apps) == 0 {
				s.Print("No pinned apps")
				return nil
			}
			for _, app := range apps {
				intent := domain.LaunchIntent(app)
				s.PrintAction(app.Label, func() { s.Navigate(intent) })
			}
			return nil
		},
	}
}
