package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/devggaurav/KShell-UI/internal/config"
	"github.com/devggaurav/KShell-UI/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const firefoxEntry = "[Desktop Entry]\nType=Application\nName=Firefox\nExec=firefox %u\n"

// isolate points every kshell path into a temp dir and loads config. It
// returns the home directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	home := filepath.Join(dir, "home")
	appsDir := filepath.Join(dir, "apps")
	require.NoError(t, os.MkdirAll(home, 0o755))
	require.NoError(t, os.MkdirAll(appsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(appsDir, "firefox.desktop"), []byte(firefoxEntry), 0o644))

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("KSHELL_HOME_DIR", home)
	t.Setenv("KSHELL_APPS_DIRS", appsDir)
	t.Setenv(config.EnvConfigPath, "")
	config.Load()
	return home
}

type fakeLauncher struct {
	mu      sync.Mutex
	intents []domain.Intent
	err     error
}

func (f *fakeLauncher) Launch(_ context.Context, intent domain.Intent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.intents = append(f.intents, intent)
	return f.err
}

func (f *fakeLauncher) launched() []domain.Intent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Intent(nil), f.intents...)
}

func runExec(t *testing.T, launcher *fakeLauncher, args ...string) (string, string, error) {
	t.Helper()
	if launcher == nil {
		launcher = &fakeLauncher{}
	}
	c := NewExecCmd(newRuntime, launcher)
	var out, errOut bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&errOut)
	c.SetArgs(args)
	err := c.Execute()
	return out.String(), errOut.String(), err
}

func TestExecPersistsNotes(t *testing.T) {
	isolate(t)

	out, _, err := runExec(t, nil, "note", "buy", "milk")
	require.NoError(t, err)
	assert.Equal(t, "Note #1 added: buy milk\n", out)

	out, _, err = runExec(t, nil, "notes")
	require.NoError(t, err)
	assert.Equal(t, "#1 buy milk\n", out)
}

func TestExecPermissions(t *testing.T) {
	home := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, "a.txt"), []byte("a"), 0o644))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "denied without grant", args: []string{"ls"}, want: "Storage permission denied\n"},
		{name: "granted", args: []string{"--grant", "ls"}, want: "a.txt\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runExec(t, nil, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestExecCancelsActivities(t *testing.T) {
	isolate(t)

	out, _, err := runExec(t, nil, "pick")
	require.NoError(t, err)
	assert.Equal(t, "No file picked\n", out)
}

func TestExecAnswersPrompts(t *testing.T) {
	isolate(t)

	_, _, err := runExec(t, nil, "note", "one")
	require.NoError(t, err)

	out, errOut, err := runExec(t, nil, "notes", "clear")
	require.NoError(t, err)
	assert.Equal(t, "Clear all notes? (yes/no)\n", out)
	assert.Equal(t, "unanswered prompt: yes/no\n", errOut)

	out, errOut, err = runExec(t, nil, "--answer", "yes", "notes", "clear")
	require.NoError(t, err)
	assert.Equal(t, "Clear all notes? (yes/no)\nCleared 1 notes\n", out)
	assert.Empty(t, errOut)
}

func TestExecUnusedAnswers(t *testing.T) {
	isolate(t)

	out, errOut, err := runExec(t, nil, "-a", "yes", "note", "x")
	require.NoError(t, err)
	assert.Equal(t, "Note #1 added: x\n", out)
	assert.Equal(t, "ignoring 1 unused answer(s)\n", errOut)
}

func TestExecOpenLaunches(t *testing.T) {
	isolate(t)
	launcher := &fakeLauncher{}

	out, _, err := runExec(t, launcher, "open", "Firefox")
	require.NoError(t, err)
	assert.Equal(t, "Opening Firefox\n", out)

	intents := launcher.launched()
	require.Len(t, intents, 1)
	assert.Equal(t, domain.ActionLaunch, intents[0].Action)
	assert.Equal(t, "firefox", intents[0].Target)
	assert.Equal(t, "firefox", intents[0].Extras["package"])
}

func TestExecOpenNoLaunch(t *testing.T) {
	isolate(t)
	launcher := &fakeLauncher{}

	out, _, err := runExec(t, launcher, "--no-launch", "open", "Firefox")
	require.NoError(t, err)
	assert.Equal(t, "Opening Firefox\nlaunch firefox\n", out)
	assert.Empty(t, launcher.launched())
}

func TestExecLaunchFailure(t *testing.T) {
	isolate(t)
	launcher := &fakeLauncher{err: errors.New("boom")}

	_, _, err := runExec(t, launcher, "open", "Firefox")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not open firefox")
}

func TestExecRejectsBlankLine(t *testing.T) {
	isolate(t)

	_, _, err := runExec(t, nil, "  ")
	assert.ErrorIs(t, err, errBlankLine)

	_, _, err = runExec(t, nil)
	assert.Error(t, err)
}

func TestExecUnknownCommand(t *testing.T) {
	isolate(t)

	out, _, err := runExec(t, nil, "frobnicate")
	require.NoError(t, err)
	assert.Contains(t, out, "No such command: frobnicate")
}

func TestNewExecCmdRequiresDeps(t *testing.T) {
	assert.Panics(t, func() { NewExecCmd(nil, &fakeLauncher{}) })
	assert.Panics(t, func() { NewExecCmd(newRuntime, nil) })
}
