package app

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/devggaurav/KShell-UI/internal/args"
	"github.com/devggaurav/KShell-UI/internal/domain"
	"github.com/devggaurav/KShell-UI/internal/logging"
)

// ErrUnsupportedIntent is returned for intents no launcher can start.
var ErrUnsupportedIntent = errors.New("unsupported intent")

// Launcher starts navigation intents outside the shell.
type Launcher interface {
	Launch(ctx context.Context, intent domain.Intent) error
}

// StartFunc starts name with argv and returns once the process is running.
type StartFunc func(ctx context.Context, name string, argv ...string) error

// ExecLauncher starts apps from their Exec line and hands URIs (tel:, http)
// to the desktop opener.
type ExecLauncher struct {
	Opener string
	start  StartFunc
	logger logging.Logger
}

// NewExecLauncher creates a launcher. A nil start runs real processes and a
// nil logger uses the global logger at launch time.
func NewExecLauncher(start StartFunc, logger logging.Logger) *ExecLauncher {
	if start == nil {
		start = startDetached
	}
	return &ExecLauncher{Opener: "xdg-open", start: start, logger: logger}
}

// Launch starts intent.
func (l *ExecLauncher) Launch(ctx context.Context, intent domain.Intent) error {
	switch intent.Action {
	case domain.ActionLaunch:
		argv := args.Tokenize(intent.Target).Slice()
		if len(argv) == 0 {
			return fmt.Errorf("launch %q: empty exec line", intent.Extras["package"])
		}
		l.log().Info("launching app", "package", intent.Extras["package"], "exec", argv[0])
		return l.start(ctx, argv[0], argv[1:]...)
	case domain.ActionDial, domain.ActionView:
		if intent.Target == "" {
			return fmt.Errorf("%s: empty target", intent.Action)
		}
		l.log().Info("opening uri", "action", intent.Action)
		return l.start(ctx, l.Opener, intent.Target)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedIntent, intent)
	}
}

// startDetached runs the process without tying it to ctx: launched apps
// outlive the shell. The child is reaped in the background.
func startDetached(_ context.Context, name string, argv ...string) error {
	cmd := exec.Command(name, argv...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func (l *ExecLauncher) log() logging.Logger {
	if l.logger == nil {
		return logging.GetGlobal()
	}
	return l.logger
}
