package main

import (
	"os"

	"github.com/devggaurav/KShell-UI/cmd"
)

func main() {
	os.Exit(run(cmd.Execute))
}

// run returns the process exit code for execute.
func run(execute func() error) int {
	if err := execute(); err != nil {
		return 1
	}
	return 0
}
