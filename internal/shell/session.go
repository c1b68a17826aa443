package shell

import (
	"context"
	"slices"

	"github.com/devggaurav/KShell-UI/internal/command"
	"github.com/devggaurav/KShell-UI/internal/domain"
)

// session is the command.Session handed to a running handler.
type session struct {
	i *Interpreter
}

var _ command.Session = (*session)(nil)

func (s *session) Print(msg string) {
	s.i.appendLog(msg, false, nil)
}

func (s *session) PrintAction(msg string, action func()) {
	s.i.appendLog(msg, false, action)
}

func (s *session) RequestPermissions(ctx context.Context, names ...string) (bool, error) {
	ticket, err := s.i.permissions.Request(slices.Clone(names))
	if err != nil {
		return false, err
	}
	outcome := ticket.Await(ctx)
	if outcome.Cancelled() {
		return false, nil
	}
	return outcome.Value, nil
}

func (s *session) StartForResult(ctx context.Context, intent domain.Intent) (domain.ActivityResult, error) {
	ticket, err := s.i.activities.Request(intent)
	if err != nil {
		return domain.ActivityResult{}, err
	}
	outcome := ticket.Await(ctx)
	if outcome.Cancelled() {
		return domain.ActivityResult{}, nil
	}
	return outcome.Value, nil
}

func (s *session) Navigate(intent domain.Intent) {
	s.i.update(func(st *State) { st.Navigate = &intent })
}

func (s *session) ToggleTheme() {
	s.i.update(func(st *State) { st.ThemeRequested = true })
}

func (s *session) Exit() {
	s.i.update(func(st *State) { st.ExitRequested = true })
}

func (s *session) ClearLog() {
	s.i.update(func(st *State) { st.Log = nil })
}

func (s *session) WorkDir() string {
	return s.i.Snapshot().WorkDir
}

func (s *session) SetWorkDir(dir string) {
	s.i.update(func(st *State) { st.WorkDir = dir })
}

func (s *session) Prompt(hint string, next *command.Definition) {
	s.i.update(func(st *State) { st.Mode = command.PromptMode(hint, next) })
}
