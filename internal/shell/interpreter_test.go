package shell

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/devggaurav/KShell-UI/internal/args"
	"github.com/devggaurav/KShell-UI/internal/broker"
	"github.com/devggaurav/KShell-UI/internal/command"
	"github.com/devggaurav/KShell-UI/internal/domain"
	"github.com/devggaurav/KShell-UI/internal/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const waitFor = 2 * time.Second

// newInterpreter builds an interpreter over defs that fails the test on any
// defect unless allowDefects is set.
func newInterpreter(t *testing.T, allowDefects bool, defs ...*command.Definition) (*Interpreter, *[]error) {
	t.Helper()
	reg := command.NewRegistry(defs...)
	var (
		mu      sync.Mutex
		defects []error
	)
	i := New(command.NewDispatcher(reg, nil), command.NewRanker(reg, 0),
		WithWorkDir("/home/test"),
		WithOnDefect(func(err error) {
			mu.Lock()
			defer mu.Unlock()
			defects = append(defects, err)
			if !allowDefects {
				t.Errorf("unexpected defect: %v", err)
			}
		}),
	)
	t.Cleanup(func() { _ = i.Close() })
	return i, &defects
}

func logTexts(s State) []string {
	out := make([]string, len(s.Log))
	for i, e := range s.Log {
		out[i] = e.Text
	}
	return out
}

func echo() *command.Definition {
	return &command.Definition{
		Name:    "echo",
		MaxArgs: command.Unbounded,
		Run: func(_ context.Context, s command.Session, a args.Arguments) error {
			s.Print(a.Join())
			return nil
		},
	}
}

func TestSubmitRunsCommandAndReturnsToIdle(t *testing.T) {
	i, _ := newInterpreter(t, false, echo())
	i.ChangeText("echo hi there", 14)

	require.True(t, i.Submit("echo hi there"))
	i.Wait()

	s := i.Snapshot()
	assert.True(t, s.Idle())
	assert.Equal(t, []string{"echo hi there", "hi there"}, logTexts(s))
	assert.True(t, s.Log[0].Input)
	assert.False(t, s.Log[1].Input)
	assert.NotEqual(t, s.Log[0].ID, s.Log[1].ID)
	assert.Empty(t, s.Text)
	assert.True(t, s.Suggestions.Empty())
}

func TestBlankSubmitIsIgnored(t *testing.T) {
	i, _ := newInterpreter(t, false, echo())
	assert.False(t, i.Submit("   "))
	assert.Empty(t, i.Snapshot().Log)
}

func TestSubmitWhileBusyIsIgnored(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	block := &command.Definition{Name: "block", Run: func(ctx context.Context, s command.Session, _ args.Arguments) error {
		close(started)
		<-release
		s.Print("done")
		return nil
	}}
	i, _ := newInterpreter(t, false, block, echo())

	require.True(t, i.Submit("block"))
	<-started
	assert.True(t, i.Snapshot().Busy)
	assert.False(t, i.Submit("echo ignored"))

	// Editing still works while busy.
	i.ChangeText("ec", 2)
	assert.Equal(t, "ec", i.Snapshot().Text)
	batch := i.Suggest(context.Background())
	require.Len(t, batch.Items, 1)
	assert.Equal(t, "echo", batch.Items[0].Label)

	close(release)
	i.Wait()
	assert.Equal(t, []string{"block", "done"}, logTexts(i.Snapshot()))
	assert.False(t, i.Snapshot().Busy)
}

func permissionCommand() *command.Definition {
	return &command.Definition{Name: "secret", Run: func(ctx context.Context, s command.Session, _ args.Arguments) error {
		ok, err := s.RequestPermissions(ctx, "contacts.read")
		if err != nil {
			return err
		}
		if !ok {
			return command.Denied("contacts permission")
		}
		s.Print("granted")
		return nil
	}}
}

func waitPermission(t *testing.T, i *Interpreter) *broker.Request[[]string] {
	t.Helper()
	var req *broker.Request[[]string]
	require.Eventually(t, func() bool {
		req = i.Snapshot().Permission
		return req != nil
	}, waitFor, time.Millisecond)
	return req
}

func TestPermissionGranted(t *testing.T) {
	i, _ := newInterpreter(t, false, permissionCommand())
	require.True(t, i.Submit("secret"))

	req := waitPermission(t, i)
	assert.Equal(t, []string{"contacts.read"}, req.Params)
	assert.False(t, req.Triggered)

	require.NoError(t, i.Permissions().MarkTriggered())
	require.Eventually(t, func() bool {
		p := i.Snapshot().Permission
		return p != nil && p.Triggered
	}, waitFor, time.Millisecond)

	assert.True(t, i.Permissions().Complete(true))
	i.Wait()

	s := i.Snapshot()
	assert.Nil(t, s.Permission)
	assert.True(t, s.Idle())
	assert.Equal(t, []string{"secret", "granted"}, logTexts(s))
}

func TestPermissionDenied(t *testing.T) {
	i, _ := newInterpreter(t, false, permissionCommand())
	require.True(t, i.Submit("secret"))
	waitPermission(t, i)

	require.NoError(t, i.Permissions().MarkTriggered())
	i.Permissions().Complete(false)
	i.Wait()

	assert.Equal(t, []string{"secret", "Contacts permission denied"}, logTexts(i.Snapshot()))
}

func TestInterruptCancelsTriggeredRequest(t *testing.T) {
	i, _ := newInterpreter(t, false, permissionCommand(), echo())
	require.True(t, i.Submit("secret"))
	waitPermission(t, i)
	require.NoError(t, i.Permissions().MarkTriggered())

	i.Interrupt()
	i.Wait()

	s := i.Snapshot()
	assert.True(t, s.Idle())
	assert.Nil(t, s.Permission)
	assert.False(t, i.Permissions().Pending())
	assert.Equal(t, []string{"secret", "Contacts permission denied"}, logTexts(s))

	// A late answer is ignored and the broker accepts new requests.
	assert.False(t, i.Permissions().Complete(true))
	require.True(t, i.Submit("secret"))
	waitPermission(t, i)
	i.Permissions().Complete(true)
	i.Wait()
	assert.Equal(t, "granted", i.Snapshot().Log[3].Text)
}

func TestSnapshotMatchesBrokersUnderConcurrentTransitions(t *testing.T) {
	i, _ := newInterpreter(t, false)
	for range 200 {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := i.Activities().Request(domain.PickFileIntent("/tmp"))
			assert.NoError(t, err)
			i.Activities().Cancel()
		}()
		go func() {
			defer wg.Done()
			_, err := i.Permissions().Request([]string{"contacts.read"})
			assert.NoError(t, err)
		}()
		wg.Wait()

		s := i.Snapshot()
		cur, ok := i.Permissions().Current()
		require.True(t, ok)
		require.NotNil(t, s.Permission)
		assert.Equal(t, cur, *s.Permission)
		assert.Nil(t, s.Activity)

		require.True(t, i.Permissions().Cancel())
		s = i.Snapshot()
		assert.Nil(t, s.Permission)
		assert.Nil(t, s.Activity)
	}
}

func TestActivityForResult(t *testing.T) {
	pick := &command.Definition{Name: "pick", Run: func(ctx context.Context, s command.Session, _ args.Arguments) error {
		res, err := s.StartForResult(ctx, domain.PickFileIntent(s.WorkDir()))
		if err != nil {
			return err
		}
		if !res.OK {
			return command.Denied("file pick")
		}
		s.Print("picked " + res.Data)
		return nil
	}}
	i, _ := newInterpreter(t, false, pick)

	require.True(t, i.Submit("pick"))
	require.Eventually(t, func() bool { return i.Snapshot().Activity != nil }, waitFor, time.Millisecond)
	act := i.Snapshot().Activity
	assert.Equal(t, domain.ActionPickFile, act.Params.Action)
	assert.Equal(t, "/home/test", act.Params.Target)

	require.NoError(t, i.Activities().MarkTriggered())
	i.Activities().Complete(domain.ActivityResult{OK: true, Data: "/home/test/a.txt"})
	i.Wait()

	assert.Equal(t, "picked /home/test/a.txt", i.Snapshot().Log[1].Text)
}

func TestSecondRequestIsADefect(t *testing.T) {
	i, defects := newInterpreter(t, true, permissionCommand(), echo())

	outstanding, err := i.Permissions().Request([]string{"other"})
	require.NoError(t, err)

	require.True(t, i.Submit("secret"))
	i.Wait()

	require.Len(t, *defects, 1)
	assert.ErrorIs(t, (*defects)[0], broker.ErrAlreadyPending)
	assert.Equal(t, []string{"secret", command.SomethingWentWrong}, logTexts(i.Snapshot()))

	assert.True(t, i.Permissions().Cancel())
	assert.True(t, outstanding.Await(context.Background()).Cancelled())

	// Still usable.
	require.True(t, i.Submit("echo ok"))
	i.Wait()
	assert.Equal(t, "ok", i.Snapshot().Log[3].Text)
}

func TestPanickingHandlerIsRecovered(t *testing.T) {
	bad := &command.Definition{Name: "bad", MaxArgs: command.Unbounded, Run: func(_ context.Context, s command.Session, a args.Arguments) error {
		s.Print(a.First())
		return nil
	}}
	i, defects := newInterpreter(t, true, bad, echo())

	require.True(t, i.Submit("bad"))
	i.Wait()

	require.Len(t, *defects, 1)
	assert.ErrorIs(t, (*defects)[0], args.ErrOutOfBounds)
	s := i.Snapshot()
	assert.True(t, s.Idle())
	assert.Equal(t, []string{"bad", command.SomethingWentWrong}, logTexts(s))

	require.True(t, i.Submit("echo next"))
	i.Wait()
	assert.Equal(t, "next", i.Snapshot().Log[3].Text)
}

func TestPromptModeRoutesNextLine(t *testing.T) {
	var got []string
	confirm := &command.Definition{Name: "confirm", MinArgs: 1, MaxArgs: 1, Hidden: true,
		Run: func(_ context.Context, s command.Session, a args.Arguments) error {
			got = append(got, a.First())
			s.Print("answered " + a.First())
			return nil
		}}
	ask := &command.Definition{Name: "ask", Run: func(_ context.Context, s command.Session, _ args.Arguments) error {
		s.Print("Sure? (yes/no)")
		s.Prompt("yes/no", confirm)
		return nil
	}}
	i, _ := newInterpreter(t, false, ask, echo())

	require.True(t, i.Submit("ask"))
	i.Wait()
	s := i.Snapshot()
	assert.True(t, s.Mode.IsPrompt())
	assert.Equal(t, "yes/no", s.Placeholder())

	require.True(t, i.Submit("echo"))
	i.Wait()
	assert.Equal(t, []string{"echo"}, got)
	assert.False(t, i.Snapshot().Mode.IsPrompt())
	assert.Equal(t, DefaultPlaceholder, i.Snapshot().Placeholder())
	assert.Equal(t, "answered echo", i.Snapshot().Log[len(i.Snapshot().Log)-1].Text)
}

func TestInterruptLeavesPromptMode(t *testing.T) {
	confirm := &command.Definition{Name: "confirm", MaxArgs: 1, Run: func(context.Context, command.Session, args.Arguments) error { return nil }}
	ask := &command.Definition{Name: "ask", Run: func(_ context.Context, s command.Session, _ args.Arguments) error {
		s.Prompt("yes/no", confirm)
		return nil
	}}
	i, _ := newInterpreter(t, false, ask)
	require.True(t, i.Submit("ask"))
	i.Wait()
	require.True(t, i.Snapshot().Mode.IsPrompt())

	i.Interrupt()
	assert.False(t, i.Snapshot().Mode.IsPrompt())
}

func TestChangeTextComputesSuggestions(t *testing.T) {
	i, _ := newInterpreter(t, false, echo(), &command.Definition{Name: "exit", Run: func(context.Context, command.Session, args.Arguments) error { return nil }})

	i.ChangeText("e", 1)
	require.Eventually(t, func() bool { return len(i.Snapshot().Suggestions.Items) == 2 }, waitFor, time.Millisecond)
	assert.Equal(t, suggest.Replace(0, 0), i.Snapshot().Suggestions.Merge)

	i.ChangeText("", 0)
	assert.True(t, i.Snapshot().Suggestions.Empty())
	i.Wait()
	assert.True(t, i.Snapshot().Suggestions.Empty())
}

func TestAcceptRunnableSuggestionSubmits(t *testing.T) {
	ran := make(chan struct{}, 1)
	i, _ := newInterpreter(t, false, &command.Definition{Name: "theme", Run: func(_ context.Context, s command.Session, _ args.Arguments) error {
		s.ToggleTheme()
		ran <- struct{}{}
		return nil
	}})

	i.ChangeText("th", 2)
	i.Suggest(context.Background())
	require.True(t, i.Accept(0))
	<-ran
	i.Wait()

	assert.Equal(t, "theme", i.Snapshot().Log[0].Text)
	assert.True(t, i.Snapshot().ThemeRequested)
	assert.False(t, i.Accept(5))
}

func TestOneShotFlagsAreIdempotent(t *testing.T) {
	flags := &command.Definition{Name: "flags", Run: func(_ context.Context, s command.Session, _ args.Arguments) error {
		s.ToggleTheme()
		s.Exit()
		s.Navigate(domain.ViewIntent("https://example.com"))
		return nil
	}}
	i, _ := newInterpreter(t, false, flags)
	require.True(t, i.Submit("flags"))
	i.Wait()

	s := i.Snapshot()
	assert.True(t, s.ThemeRequested)
	assert.True(t, s.ExitRequested)
	require.NotNil(t, s.Navigate)
	assert.Equal(t, "https://example.com", s.Navigate.Target)

	assert.True(t, i.AckTheme())
	assert.False(t, i.AckTheme())
	assert.True(t, i.AckExit())
	assert.False(t, i.AckExit())
	assert.True(t, i.AckNavigate())
	assert.False(t, i.AckNavigate())

	s = i.Snapshot()
	assert.False(t, s.ThemeRequested || s.ExitRequested)
	assert.Nil(t, s.Navigate)
}

func TestWorkDirAndClearLog(t *testing.T) {
	cd := &command.Definition{Name: "cd", MaxArgs: 1, Run: func(_ context.Context, s command.Session, a args.Arguments) error {
		s.SetWorkDir(a.First())
		return nil
	}}
	clearDef := &command.Definition{Name: "clear", Run: func(_ context.Context, s command.Session, _ args.Arguments) error {
		s.ClearLog()
		return nil
	}}
	i, _ := newInterpreter(t, false, cd, clearDef)
	assert.Equal(t, "/home/test", i.Snapshot().WorkDir)

	require.True(t, i.Submit("cd /tmp"))
	i.Wait()
	assert.Equal(t, "/tmp", i.Snapshot().WorkDir)

	require.True(t, i.Submit("clear"))
	i.Wait()
	assert.Empty(t, i.Snapshot().Log)
}

func TestPinnedRefreshedAfterCommand(t *testing.T) {
	var (
		mu     sync.Mutex
		pinned []suggest.Suggestion
	)
	source := func(context.Context) ([]suggest.Suggestion, error) {
		mu.Lock()
		defer mu.Unlock()
		return slices.Clone(pinned), nil
	}
	pin := &command.Definition{Name: "pin", MinArgs: 1, MaxArgs: 1, Run: func(_ context.Context, _ command.Session, a args.Arguments) error {
		mu.Lock()
		defer mu.Unlock()
		pinned = append(pinned, suggest.Suggestion{Label: a.First(), Replacement: "open " + a.First(), Runnable: true})
		return nil
	}}
	reg := command.NewRegistry(pin)
	i := New(command.NewDispatcher(reg, nil), command.NewRanker(reg, 0), WithPinned(source))
	t.Cleanup(func() { _ = i.Close() })

	require.NoError(t, i.RefreshPinned(context.Background()))
	assert.Empty(t, i.Snapshot().Pinned)

	require.True(t, i.Submit("pin Camera"))
	i.Wait()

	row := i.Snapshot().Row()
	require.Len(t, row, 2)
	assert.True(t, row[0].Pinned)
	assert.Equal(t, "Camera", row[0].Suggestion.Label)
	assert.True(t, row[1].Separator)
}

func TestSubscribeSeesLatestSnapshot(t *testing.T) {
	i, _ := newInterpreter(t, false, echo())
	ch, cancel := i.Subscribe()
	defer cancel()

	first := <-ch
	assert.Equal(t, uint64(0), first.Version)

	require.True(t, i.Submit("echo hi"))
	i.Wait()

	var last State
	require.Eventually(t, func() bool {
		select {
		case s := <-ch:
			last = s
		default:
		}
		return last.Version == i.Snapshot().Version
	}, waitFor, time.Millisecond)
	assert.True(t, last.Idle())
	assert.Equal(t, []string{"echo hi", "hi"}, logTexts(last))

	cancel()
	for range ch {
	}
}

func TestCloseStopsSubmissions(t *testing.T) {
	i, _ := newInterpreter(t, false, echo())
	ch, _ := i.Subscribe()
	require.NoError(t, i.Close())
	assert.False(t, i.Submit("echo x"))
	for range ch {
	}
	require.NoError(t, i.Close())
}

type recordingMetrics struct {
	mu       sync.Mutex
	commands []string
	done     []string
	busy     []bool
	batches  int
}

func (m *recordingMetrics) CommandDispatched(cmd, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands = append(m.commands, cmd+":"+outcome)
}

func (m *recordingMetrics) SuggestionsComputed(int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches++
}

func (m *recordingMetrics) ContinuationDone(kind, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.done = append(m.done, kind+":"+status)
}

func (m *recordingMetrics) SetBusy(busy bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = append(m.busy, busy)
}

func TestMetricsAreRecorded(t *testing.T) {
	m := &recordingMetrics{}
	reg := command.NewRegistry(echo(), permissionCommand())
	i := New(command.NewDispatcher(reg, nil), command.NewRanker(reg, 0), WithMetrics(m))
	t.Cleanup(func() { _ = i.Close() })

	require.True(t, i.Submit("echo a"))
	i.Wait()
	require.True(t, i.Submit("nope"))
	i.Wait()
	require.True(t, i.Submit("secret"))
	waitPermission(t, i)
	i.Interrupt()
	i.Wait()
	i.ChangeText("e", 1)
	i.Suggest(context.Background())

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Equal(t, []string{"echo:ok", "unknown:no_such_command", "secret:denied"}, m.commands)
	assert.Equal(t, []string{"permission:cancelled"}, m.done)
	assert.Equal(t, []bool{true, false, true, false, true, false}, m.busy)
	assert.GreaterOrEqual(t, m.batches, 1)
}
