package command

import (
	"context"
	"sync"

	"github.com/devggaurav/KShell-UI/internal/args"
	"github.com/devggaurav/KShell-UI/internal/domain"
)

// recordingSession captures what handlers print.
type recordingSession struct {
	mu      sync.Mutex
	lines   []string
	workDir string
	prompt  *Definition
	hint    string
}

func (s *recordingSession) Print(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, msg)
}

func (s *recordingSession) PrintAction(msg string, _ func()) { s.Print(msg) }

func (s *recordingSession) RequestPermissions(context.Context, ...string) (bool, error) {
	return true, nil
}

func (s *recordingSession) StartForResult(context.Context, domain.Intent) (domain.ActivityResult, error) {
	return domain.ActivityResult{}, nil
}

func (s *recordingSession) Navigate(domain.Intent) {}
func (s *recordingSession) ToggleTheme()           {}
func (s *recordingSession) Exit()                  {}
func (s *recordingSession) ClearLog()              {}
func (s *recordingSession) WorkDir() string        { return s.workDir }
func (s *recordingSession) SetWorkDir(dir string)  { s.workDir = dir }

func (s *recordingSession) Prompt(hint string, next *Definition) {
	s.hint = hint
	s.prompt = next
}

func (s *recordingSession) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

// def builds a definition whose handler records its arguments into calls.
func def(name string, minArgs, maxArgs int, calls *[]args.Arguments, aliases ...string) *Definition {
	return &Definition{
		Name:    name,
		Aliases: aliases,
		MinArgs: minArgs,
		MaxArgs: maxArgs,
		Run: func(_ context.Context, _ Session, a args.Arguments) error {
			if calls != nil {
				*calls = append(*calls, a)
			}
			return nil
		},
	}
}
