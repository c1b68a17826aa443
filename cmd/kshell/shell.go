package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/devggaurav/KShell-UI/cmd"
	"github.com/devggaurav/KShell-UI/internal/config"
	"github.com/devggaurav/KShell-UI/internal/logging"
	"github.com/devggaurav/KShell-UI/internal/tui/app"
	"github.com/devggaurav/KShell-UI/internal/tui/state"
	"github.com/spf13/cobra"
)

type programClient interface {
	RunProgram(model tea.Model) error
}

// newShellRunE returns the root command action: the interactive shell.
func newShellRunE(build runtimeFactory, client programClient, launcher app.Launcher) func(*cobra.Command, []string) error {
	if build == nil {
		panic("newShellRunE: runtime factory cannot be nil")
	}
	if client == nil {
		panic("newShellRunE: client dependency cannot be nil")
	}

	return func(c *cobra.Command, args []string) (err error) {
		rt, err := build(c.Context())
		if err != nil {
			return err
		}
		defer func() {
			if cerr := rt.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()

		model := state.NewModel(rt.interp, state.Options{
			Theme:    config.Get("theme", "dark"),
			Launcher: launcher,
			Logger:   logging.GetGlobal().With("component", "tui"),
		})
		defer model.Close()
		return client.RunProgram(model)
	}
}

func init() {
	cmd.RootCmd.Args = cobra.NoArgs
	cmd.RootCmd.RunE = newShellRunE(newRuntime, app.NewClient(nil), nil)
}
