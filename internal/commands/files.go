package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/devggaurav/KShell-UI/internal/args"
	"github.com/devggaurav/KShell-UI/internal/command"
	"github.com/devggaurav/KShell-UI/internal/domain"
	"github.com/devggaurav/KShell-UI/internal/files"
	"github.com/devggaurav/KShell-UI/internal/suggest"
)

// ErrNotADirectory is returned by cd for a path that is not a directory.
var ErrNotADirectory = errors.New("not a directory")

// fileSource completes the trailing path token against the directory it
// names.
func fileSource(d Deps, dirsOnly bool) command.Source {
	return func(ctx context.Context, q command.Query) []suggest.Suggestion {
		dirPart, name := files.SplitPartial(q.Partial)
		dir := q.WorkDir
		if dirPart != "" {
			dir = files.Resolve(d.HomeDir, q.WorkDir, dirPart)
		}
		entries, err := d.Files.List(ctx, dir, name, dirsOnly)
		if err != nil {
			return nil
		}
		out := make([]suggest.Suggestion, len(entries))
		for i, e := range entries {
			label := e.Name
			if e.Dir {
				label += "/"
			}
			out[i] = suggest.Suggestion{Label: label, Replacement: args.Quote(dirPart + label)}
		}
		return out
	}
}

func lsCommand(d Deps) *command.Definition {
	return &command.Definition{
		Name:        "ls",
		Usage:       "ls [dir]",
		Description: "List a directory",
		MaxArgs:     1,
		Merge:       command.MergeToken,
		Suggest:     fileSource(d, false),
		Run: func(ctx context.Context, s command.Session, a args.Arguments) error {
			granted, err := s.RequestPermissions(ctx, PermStorageRead)
			if err != nil {
				return err
			}
			if !granted {
				return command.Denied("Storage permission")
			}
			dir := s.WorkDir()
			if !a.IsEmpty() {
				dir = files.Resolve(d.HomeDir, s.WorkDir(), a.First())
			}
			entries, err := d.Files.List(ctx, dir, "", false)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				s.Print(dir + " is empty")
				return nil
			}
			for _, e := range entries {
				if e.Dir {
					s.Print(e.Name + "/")
				} else {
					s.Print(e.Name)
				}
			}
			return nil
		},
	}
}

func cdCommand(d Deps) *command.Definition {
	return &command.Definition{
		Name:        "cd",
		Usage:       "cd [dir]",
		Description: "Change the working directory",
		MaxArgs:     1,
		Merge:       command.MergeToken,
		Suggest:     fileSource(d, true),
		Run: func(ctx context.Context, s command.Session, a args.Arguments) error {
			target := ""
			if !a.IsEmpty() {
				target = a.First()
			}
			dir := files.Resolve(d.HomeDir, s.WorkDir(), target)
			info, err := d.Files.Stat(ctx, dir)
			if err != nil {
				return err
			}
			if !info.Dir {
				return fmt.Errorf("%s: %w", dir, ErrNotADirectory)
			}
			s.SetWorkDir(dir)
			s.Print(dir)
			return nil
		},
	}
}

func pickCommand() *command.Definition {
	return &command.Definition{
		Name:        "pick",
		Usage:       "pick",
		Description: "Pick a file",
		Run: func(ctx context.Context, s command.Session, _ args.Arguments) error {
			res, err := s.StartForResult(ctx, domain.PickFileIntent(s.WorkDir()))
			if err != nil {
				return err
			}
			if !res.OK || res.Data == "" {
				s.Print("No file picked")
				return nil
			}
			s.Print("Picked " + res.Data)
			return nil
		},
	}
}
