package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/devggaurav/KShell-UI/cmd"
	"github.com/devggaurav/KShell-UI/internal/shell"
	"github.com/devggaurav/KShell-UI/internal/tui/app"
	"github.com/spf13/cobra"
)

var errBlankLine = errors.New("nothing to run")

type execOptions struct {
	grant    bool
	answers  []string
	noLaunch bool
}

// NewExecCmd creates the exec command with explicit dependencies.
func NewExecCmd(build runtimeFactory, launcher app.Launcher) *cobra.Command {
	if build == nil {
		panic("NewExecCmd: runtime factory cannot be nil")
	}
	if launcher == nil {
		panic("NewExecCmd: launcher dependency cannot be nil")
	}

	var opts execOptions
	execCmd := &cobra.Command{
		Use:   "exec LINE...",
		Short: "Run one command line without the interactive shell",
		Long: `Run one command line without the interactive shell and print its output.

Permission requests are answered with --grant. Commands that ask a follow-up
question read their answers from --answer, in order. Activities such as the
file picker are cancelled.

EXAMPLES:
    kshell exec note buy milk
    kshell exec --grant ls Documents
    kshell exec --answer y notes clear`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) (err error) {
			line := strings.Join(args, " ")
			if strings.TrimSpace(line) == "" {
				return errBlankLine
			}
			rt, err := build(c.Context())
			if err != nil {
				return err
			}
			defer func() {
				if cerr := rt.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()
			return runHeadless(c.Context(), rt.interp, line, opts, launcher, c.OutOrStdout(), c.ErrOrStderr())
		},
	}

	// Flags after the first word belong to the command line.
	execCmd.Flags().SetInterspersed(false)
	execCmd.Flags().BoolVar(&opts.grant, "grant", false, "grant every permission request")
	execCmd.Flags().StringArrayVarP(&opts.answers, "answer", "a", nil, "answer to a follow-up prompt (repeatable)")
	execCmd.Flags().BoolVar(&opts.noLaunch, "no-launch", false, "print navigation targets instead of opening them")
	return execCmd
}

// runHeadless submits line and any prompt answers, standing in for the
// presentation layer, and writes the resulting log to out.
func runHeadless(ctx context.Context, interp *shell.Interpreter, line string, opts execOptions, launcher app.Launcher, out, errOut io.Writer) error {
	start := len(interp.Snapshot().Log)

	updates, unsubscribe := interp.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range updates {
			answerRequests(interp, opts.grant)
		}
	}()

	queue := append([]string{line}, opts.answers...)
	for idx, next := range queue {
		if idx > 0 && !interp.Snapshot().Mode.IsPrompt() {
			fmt.Fprintf(errOut, "ignoring %d unused answer(s)\n", len(queue)-idx)
			break
		}
		if !interp.Submit(next) {
			unsubscribe()
			<-done
			return fmt.Errorf("exec: %q was not accepted", next)
		}
		interp.Wait()
	}

	snap := interp.Snapshot()
	if snap.Mode.IsPrompt() {
		fmt.Fprintf(errOut, "unanswered prompt: %s\n", snap.Mode.Hint)
		interp.Interrupt()
	}
	unsubscribe()
	<-done

	log := snap.Log
	if start > len(log) {
		// the log was cleared
		start = 0
	}
	for _, entry := range log[start:] {
		if entry.Input {
			continue
		}
		fmt.Fprintln(out, entry.Text)
	}
	var launchErr error
	if snap.Navigate != nil {
		intent := *snap.Navigate
		interp.AckNavigate()
		if opts.noLaunch {
			fmt.Fprintln(out, intent.String())
		} else if err := launcher.Launch(ctx, intent); err != nil {
			launchErr = fmt.Errorf("could not open %s: %w", intent.Target, err)
		}
	}
	interp.AckTheme()
	interp.AckExit()

	return launchErr
}

// answerRequests resolves whatever the running command is waiting for.
func answerRequests(interp *shell.Interpreter, grant bool) {
	if perms := interp.Permissions(); perms.Pending() {
		if err := perms.MarkTriggered(); err == nil {
			perms.Complete(grant)
		}
	}
	if acts := interp.Activities(); acts.Pending() {
		if err := acts.MarkTriggered(); err == nil {
			acts.Cancel()
		}
	}
}

func init() {
	cmd.RootCmd.AddCommand(NewExecCmd(newRuntime, app.NewExecLauncher(nil, nil)))
}
