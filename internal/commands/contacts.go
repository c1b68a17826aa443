package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/devggaurav/KShell-UI/internal/args"
	"github.com/devggaurav/KShell-UI/internal/command"
	"github.com/devggaurav/KShell-UI/internal/domain"
	"github.com/devggaurav/KShell-UI/internal/suggest"
)

func contactSource(d Deps, runnable bool) command.Source {
	return func(ctx context.Context, q command.Query) []suggest.Suggestion {
		contacts, err := d.Contacts.List(ctx, q.Partial)
		if err != nil {
			return nil
		}
		out := make([]suggest.Suggestion, len(contacts))
		for i, c := range contacts {
			out[i] = suggest.Suggestion{Label: c.Name, Replacement: c.Name, Runnable: runnable}
		}
		return out
	}
}

func contactsCommand(d Deps) *command.Definition {
	return &command.Definition{
		Name:        "contacts",
		Usage:       "contacts [name]",
		Description: "Search contacts",
		MaxArgs:     command.Unbounded,
		Merge:       command.MergeArgs,
		Suggest:     contactSource(d, true),
		Run: func(ctx context.Context, s command.Session, a args.Arguments) error {
			granted, err := s.RequestPermissions(ctx, PermContactsRead)
			if err != nil {
				return err
			}
			if !granted {
				return command.Denied("Contacts permission")
			}
			query := a.Join()
			contacts, err := d.Contacts.List(ctx, query)
			if err != nil {
				return err
			}
			if len(contacts) == 0 {
				s.Print("No contacts match " + quoteName(query))
				return nil
			}
			for _, c := range contacts {
				intent := domain.DialIntent(c.Phone)
				s.PrintAction(fmt.Sprintf("%s  %s", c.Name, c.Phone), func() { s.Navigate(intent) })
			}
			return nil
		},
	}
}

func callCommand(d Deps) *command.Definition {
	return &command.Definition{
		Name:        "call",
		Aliases:     []string{"dial"},
		Usage:       "call <name>",
		Description: "Call a contact",
		MinArgs:     1,
		MaxArgs:     command.Unbounded,
		Merge:       command.MergeArgs,
		Suggest:     contactSource(d, true),
		Run: func(ctx context.Context, s command.Session, a args.Arguments) error {
			granted, err := s.RequestPermissions(ctx, PermContactsRead, PermPhoneCall)
			if err != nil {
				return err
			}
			if !granted {
				return command.Denied("Call permission")
			}
			name := a.Join()
			contacts, err := d.Contacts.List(ctx, name)
			if err != nil {
				return err
			}
			contact, ok := pickContact(contacts, name)
			switch {
			case ok:
				s.Navigate(domain.DialIntent(contact.Phone))
				s.Print(fmt.Sprintf("Calling %s (%s)", contact.Name, contact.Phone))
			case len(contacts) == 0:
				s.Print("No contact matches " + quoteName(name))
			default:
				names := make([]string, len(contacts))
				for i, c := range contacts {
					names[i] = c.Name
				}
				s.Print("Multiple contacts match: " + strings.Join(names, ", "))
			}
			return nil
		},
	}
}

// pickContact prefers an exact name match, then a single candidate.
func pickContact(contacts []domain.Contact, name string) (domain.Contact, bool) {
	for _, c := range contacts {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	if len(contacts) == 1 {
		return contacts[0], true
	}
	return domain.Contact{}, false
}
