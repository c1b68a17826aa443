package commands

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/devggaurav/KShell-UI/internal/args"
	"github.com/devggaurav/KShell-UI/internal/command"
	"github.com/devggaurav/KShell-UI/internal/domain"
	"github.com/devggaurav/KShell-UI/internal/suggest"
)

var errFeedUsage = errors.New("usage: rss add <name> <url> | rm <name> | list | open <name>")

func rssCommand(d Deps) *command.Definition {
	return &command.Definition{
		Name:        "rss",
		Aliases:     []string{"feed"},
		Usage:       "rss add <name> <url> | rm <name> | list | open <name>",
		Description: "Manage RSS feed subscriptions",
		MinArgs:     1,
		MaxArgs:     3,
		Merge:       command.MergeToken,
		Suggest: func(ctx context.Context, q command.Query) []suggest.Suggestion {
			switch {
			case q.Args.IsEmpty():
				return subcommands(q.Partial, []string{"add", "list", "open", "rm"}, map[string]bool{"list": true})
			case q.Args.Len() == 1 && (q.Args.First() == "rm" || q.Args.First() == "open"):
				feeds, err := d.Feeds.ListFeeds(ctx)
				if err != nil {
					return nil
				}
				var out []suggest.Suggestion
				for _, f := range feeds {
					if domain.ContainsFold(f.Name, q.Partial) {
						out = append(out, suggest.Suggestion{Label: f.Name, Replacement: args.Quote(f.Name), Runnable: true})
					}
				}
				return out
			default:
				return nil
			}
		},
		Run: func(ctx context.Context, s command.Session, a args.Arguments) error {
			sub := strings.ToLower(a.First())
			rest := a.DropFirst()
			switch {
			case sub == "add" && rest.Len() == 2:
				return addFeed(ctx, d, s, rest.First(), rest.Last())
			case sub == "rm" && rest.Len() == 1:
				removed, err := d.Feeds.RemoveFeed(ctx, rest.First())
				if err != nil {
					return err
				}
				if !removed {
					s.Print("No feed named " + quoteName(rest.First()))
					return nil
				}
				s.Print("Removed feed " + rest.First())
				return nil
			case sub == "list" && rest.IsEmpty():
				return listFeeds(ctx, d, s)
			case sub == "open" && rest.Len() == 1:
				feed, err := d.Feeds.GetFeed(ctx, rest.First())
				if errors.Is(err, domain.ErrNotFound) {
					s.Print("No feed named " + quoteName(rest.First()))
					return nil
				}
				if err != nil {
					return err
				}
				s.Navigate(domain.ViewIntent(feed.URL))
				s.Print("Opening " + feed.URL)
				return nil
			default:
				return errFeedUsage
			}
		},
	}
}

func addFeed(ctx context.Context, d Deps, s command.Session, name, raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid feed url %s: %w", quoteName(raw), domain.ErrInvalidInput)
	}
	added, err := d.Feeds.AddFeed(ctx, domain.Feed{Name: name, URL: u.String()})
	if err != nil {
		return err
	}
	if !added {
		s.Print("Feed " + quoteName(name) + " already exists")
		return nil
	}
	s.Print("Added feed " + name)
	return nil
}

func listFeeds(ctx context.Context, d Deps, s command.Session) error {
	feeds, err := d.Feeds.ListFeeds(ctx)
	if err != nil {
		return err
	}
	if len(feeds) == 0 {
		s.Print("No feeds")
		return nil
	}
	for _, f := range feeds {
		intent := domain.ViewIntent(f.URL)
		s.PrintAction(fmt.Sprintf("%s  %s", f.Name, f.URL), func() { s.Navigate(intent) })
	}
	return nil
}
