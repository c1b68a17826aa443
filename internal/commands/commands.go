// Package commands defines the built-in command set.
package commands

import (
	"context"
	"fmt"

	"github.com/devggaurav/KShell-UI/internal/command"
	"github.com/devggaurav/KShell-UI/internal/domain"
	"github.com/devggaurav/KShell-UI/internal/suggest"
)

// Permission names requested by commands.
const (
	PermContactsRead = "contacts.read"
	PermPhoneCall    = "phone.call"
	PermStorageRead  = "storage.read"
)

// Deps are the collaborators the built-in commands use.
type Deps struct {
	Apps     domain.AppProvider
	Contacts domain.ContactProvider
	Files    domain.FileProvider
	Notes    domain.NoteRepository
	Pinned   domain.PinnedRepository
	Feeds    domain.FeedRepository
	// HomeDir is where cd goes without an argument.
	HomeDir string
}

// NewRegistry returns the built-in commands in registration order.
func NewRegistry(d Deps) *command.Registry {
	reg := command.NewRegistry()
	for _, def := range []*command.Definition{
		openCommand(d),
		pinCommand(d),
		unpinCommand(d),
		pinnedCommand(d),
		contactsCommand(d),
		callCommand(d),
		lsCommand(d),
		cdCommand(d),
		pickCommand(),
		noteCommand(d),
		notesCommand(d),
		rssCommand(d),
		themeCommand(),
		clearCommand(),
		helpCommand(reg),
		exitCommand(),
	} {
		reg.Register(def)
	}
	return reg
}

// PinnedSuggestions returns the entries shown ahead of the suggestion row:
// one runnable "open <label>" per pinned app still installed.
func PinnedSuggestions(d Deps) func(ctx context.Context) ([]suggest.Suggestion, error) {
	return func(ctx context.Context) ([]suggest.Suggestion, error) {
		apps, err := pinnedApps(ctx, d)
		if err != nil {
			return nil, err
		}
		out := make([]suggest.Suggestion, 0, len(apps))
		for _, a := range apps {
			out = append(out, suggest.Suggestion{Label: a.Label, Replacement: "open " + a.Label, Runnable: true})
		}
		return out, nil
	}
}

// pinnedApps resolves pinned packages to installed apps, in pin order.
func pinnedApps(ctx context.Context, d Deps) ([]domain.App, error) {
	pinned, err := d.Pinned.ListPinned(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.App, 0, len(pinned))
	for _, p := range pinned {
		app, ok, err := d.Apps.ByPackage(ctx, p.Package)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, app)
		}
	}
	return out, nil
}

func quoteName(name string) string {
	return fmt.Sprintf("%q", name)
}
