package main

import (
	"fmt"

	"github.com/devggaurav/KShell-UI/cmd"
	"github.com/devggaurav/KShell-UI/internal/storage/sqlite"
	"github.com/devggaurav/KShell-UI/internal/version"
	"github.com/spf13/cobra"
)

type versionClient interface {
	Detail() string
}

type buildInfo struct{}

func (buildInfo) Detail() string {
	return version.Detail(sqlite.SchemaVersion())
}

// NewVersionCmd creates the version command with explicit dependencies.
func NewVersionCmd(client versionClient) *cobra.Command {
	if client == nil {
		panic("NewVersionCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show the kshell version, the Go toolchain and the database schema version.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), client.Detail())
			return nil
		},
	}
}

func init() {
	cmd.RootCmd.AddCommand(NewVersionCmd(buildInfo{}))
}
