package shell

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/devggaurav/KShell-UI/internal/broker"
	"github.com/devggaurav/KShell-UI/internal/command"
	"github.com/devggaurav/KShell-UI/internal/domain"
	"github.com/devggaurav/KShell-UI/internal/logging"
	"github.com/devggaurav/KShell-UI/internal/suggest"
	"github.com/google/uuid"
)

// Metrics receives interpreter events.
type Metrics interface {
	CommandDispatched(command, outcome string)
	SuggestionsComputed(items int)
	ContinuationDone(kind, status string)
	SetBusy(busy bool)
}

// PinnedSource loads the pinned entries shown while the input is empty.
type PinnedSource func(ctx context.Context) ([]suggest.Suggestion, error)

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the structured logger.
func WithLogger(l logging.Logger) Option {
	return func(i *Interpreter) { i.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(i *Interpreter) { i.metrics = m }
}

// WithPinned sets the pinned entries source.
func WithPinned(src PinnedSource) Option {
	return func(i *Interpreter) { i.pinned = src }
}

// WithWorkDir sets the initial working directory.
func WithWorkDir(dir string) Option {
	return func(i *Interpreter) { i.initialDir = dir }
}

// WithOnDefect registers fn to receive broken-invariant errors. Tests use it
// to fail loudly; the default only logs.
func WithOnDefect(fn func(error)) Option {
	return func(i *Interpreter) { i.onDefect = fn }
}

// Interpreter runs submitted lines and computes suggestions.
type Interpreter struct {
	dispatcher *command.Dispatcher
	ranker     *command.Ranker
	logger     logging.Logger
	metrics    Metrics
	pinned     PinnedSource
	onDefect   func(error)
	initialDir string

	permissions *broker.Broker[[]string, bool]
	activities  *broker.Broker[domain.Intent, domain.ActivityResult]

	state atomic.Pointer[State]

	// mu serializes transitions and guards the fields below.
	mu          sync.Mutex
	runCancel   context.CancelFunc
	rankCancel  context.CancelFunc
	rankGen     uint64
	subscribers map[chan State]struct{}
	closed      bool

	wg sync.WaitGroup
}

// New creates an idle interpreter.
func New(dispatcher *command.Dispatcher, ranker *command.Ranker, opts ...Option) *Interpreter {
	i := &Interpreter{
		dispatcher:  dispatcher,
		ranker:      ranker,
		logger:      logging.GetGlobal(),
		subscribers: make(map[chan State]struct{}),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.permissions = broker.New[[]string, bool](KindPermission,
		broker.WithOnChange(i.syncRequests), broker.WithOnDone(i.continuationDone))
	i.activities = broker.New[domain.Intent, domain.ActivityResult](KindActivity,
		broker.WithOnChange(i.syncRequests), broker.WithOnDone(i.continuationDone))
	i.state.Store(&State{WorkDir: i.initialDir})
	return i
}

// Snapshot returns the latest state.
func (i *Interpreter) Snapshot() State {
	return *i.state.Load()
}

// Permissions returns the permission broker for the presentation layer.
func (i *Interpreter) Permissions() *broker.Broker[[]string, bool] {
	return i.permissions
}

// Activities returns the activity-for-result broker for the presentation
// layer.
func (i *Interpreter) Activities() *broker.Broker[domain.Intent, domain.ActivityResult] {
	return i.activities
}

// Subscribe returns a channel receiving the latest snapshot after each
// transition. Intermediate snapshots may be skipped when the reader is slow.
// The returned func unsubscribes and closes the channel.
func (i *Interpreter) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)
	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	i.subscribers[ch] = struct{}{}
	ch <- *i.state.Load()
	i.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			i.mu.Lock()
			defer i.mu.Unlock()
			if _, ok := i.subscribers[ch]; ok {
				delete(i.subscribers, ch)
				close(ch)
			}
		})
	}
}

// update applies fn to a copy of the current state and publishes it.
func (i *Interpreter) update(fn func(*State)) State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.updateLocked(fn)
}

func (i *Interpreter) updateLocked(fn func(*State)) State {
	next := *i.state.Load()
	fn(&next)
	next.Version++
	i.state.Store(&next)
	for ch := range i.subscribers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- next:
		default:
		}
	}
	return next
}

// appendLog publishes text as a new log entry.
func (i *Interpreter) appendLog(text string, input bool, action func()) {
	i.update(func(s *State) {
		s.Log = append(slices.Clip(s.Log), LogEntry{ID: uuid.NewString(), Text: text, Input: input, Action: action})
	})
}

// Submit runs line. It returns false when the interpreter is busy, closed,
// or the line is blank outside prompt mode.
func (i *Interpreter) Submit(line string) bool {
	i.mu.Lock()
	cur := i.state.Load()
	if i.closed || cur.Busy || (strings.TrimSpace(line) == "" && !cur.Mode.IsPrompt()) {
		i.mu.Unlock()
		return false
	}
	mode := cur.Mode
	ctx, cancel := context.WithCancel(context.Background())
	i.runCancel = cancel
	if i.rankCancel != nil {
		i.rankCancel()
		i.rankCancel = nil
	}
	i.rankGen++
	i.updateLocked(func(s *State) {
		s.Busy = true
		s.Text = ""
		s.Cursor = 0
		s.Mode = command.Regular()
		s.Suggestions = suggest.Batch{}
		s.Log = append(slices.Clip(s.Log), LogEntry{ID: uuid.NewString(), Text: line, Input: true})
	})
	i.wg.Add(1)
	i.mu.Unlock()

	if i.metrics != nil {
		i.metrics.SetBusy(true)
	}
	go i.run(ctx, cancel, mode, line)
	return true
}

func (i *Interpreter) run(ctx context.Context, cancel context.CancelFunc, mode command.Mode, line string) {
	defer i.wg.Done()
	defer cancel()

	name, outcome := i.dispatch(ctx, mode, line)
	if i.metrics != nil {
		i.metrics.CommandDispatched(name, string(outcome))
	}
	pinned, refreshed := i.loadPinned(ctx)

	i.mu.Lock()
	i.runCancel = nil
	i.updateLocked(func(s *State) {
		s.Busy = false
		if refreshed {
			s.Pinned = pinned
		}
	})
	i.mu.Unlock()
	if i.metrics != nil {
		i.metrics.SetBusy(false)
	}
}

// dispatch runs the dispatcher and turns panics and returned defects into a
// log line so the interpreter stays usable.
func (i *Interpreter) dispatch(ctx context.Context, mode command.Mode, line string) (name string, outcome command.Outcome) {
	name = "unknown"
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("%v", r)
			}
			i.appendLog(command.SomethingWentWrong, false, nil)
			i.defect(fmt.Errorf("panic running %q: %w", line, err))
			outcome = command.OutcomeDefect
		}
	}()

	res, err := i.dispatcher.Dispatch(ctx, mode, line, &session{i: i})
	if res.Command != nil {
		name = res.Command.Name
	}
	if err != nil {
		i.defect(err)
	}
	return name, res.Outcome
}

func (i *Interpreter) defect(err error) {
	i.logger.Error("something went wrong", "error", err)
	if i.onDefect != nil {
		i.onDefect(err)
	}
}

// Interrupt cancels the running command and any pending request, and leaves
// prompt mode. The command finishes as if its requests were denied.
func (i *Interpreter) Interrupt() {
	i.mu.Lock()
	cancel := i.runCancel
	if !i.state.Load().Busy {
		i.updateLocked(func(s *State) { s.Mode = command.Regular() })
	}
	i.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	i.permissions.Cancel()
	i.activities.Cancel()
}

// ChangeText replaces the input text and recomputes suggestions in the
// background. Editing is allowed while busy.
func (i *Interpreter) ChangeText(text string, cursor int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return
	}
	if i.rankCancel != nil {
		i.rankCancel()
		i.rankCancel = nil
	}
	i.rankGen++
	gen := i.rankGen

	next := i.updateLocked(func(s *State) {
		s.Text = text
		s.Cursor = cursor
		if text == "" {
			s.Suggestions = suggest.Batch{}
		}
	})
	if text == "" {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	i.rankCancel = cancel
	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		defer cancel()
		batch, ok := i.rank(ctx, next.Mode, text, next.WorkDir)
		if !ok || ctx.Err() != nil {
			return
		}
		i.mu.Lock()
		defer i.mu.Unlock()
		if gen != i.rankGen {
			return
		}
		i.updateLocked(func(s *State) { s.Suggestions = batch })
	}()
}

// Suggest computes suggestions for the current text synchronously and
// publishes them.
func (i *Interpreter) Suggest(ctx context.Context) suggest.Batch {
	i.mu.Lock()
	i.rankGen++
	gen := i.rankGen
	cur := *i.state.Load()
	i.mu.Unlock()

	batch, ok := i.rank(ctx, cur.Mode, cur.Text, cur.WorkDir)
	if !ok {
		return suggest.Batch{}
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if gen == i.rankGen {
		i.updateLocked(func(s *State) { s.Suggestions = batch })
	}
	return batch
}

func (i *Interpreter) rank(ctx context.Context, mode command.Mode, text, workDir string) (batch suggest.Batch, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			i.defect(fmt.Errorf("panic ranking %q: %v", text, r))
			batch, ok = suggest.Batch{}, false
		}
	}()
	batch = i.ranker.Rank(ctx, mode, text, workDir)
	if i.metrics != nil {
		i.metrics.SuggestionsComputed(len(batch.Items))
	}
	return batch, true
}

// Accept applies the suggestion row item at index to the text. A runnable
// suggestion submits the merged line. It reports whether the item existed.
func (i *Interpreter) Accept(index int) bool {
	cur := i.Snapshot()
	row := cur.Row()
	if index < 0 || index >= len(row) {
		return false
	}
	text, submit, ok := row[index].Accept(cur.Text, cur.Suggestions.Merge)
	if !ok {
		return false
	}
	if submit && cur.Idle() {
		i.Submit(text)
		return true
	}
	i.ChangeText(text, len([]rune(text)))
	return true
}

// RefreshPinned reloads the pinned entries.
func (i *Interpreter) RefreshPinned(ctx context.Context) error {
	if i.pinned == nil {
		return nil
	}
	pinned, err := i.pinned(ctx)
	if err != nil {
		return err
	}
	i.update(func(s *State) { s.Pinned = pinned })
	return nil
}

func (i *Interpreter) loadPinned(ctx context.Context) ([]suggest.Suggestion, bool) {
	if i.pinned == nil {
		return nil, false
	}
	pinned, err := i.pinned(context.WithoutCancel(ctx))
	if err != nil {
		i.logger.Warn("shell: refresh pinned", "error", err)
		return nil, false
	}
	return pinned, true
}

// AckTheme clears the theme request. It reports whether one was set.
func (i *Interpreter) AckTheme() bool {
	return i.clearFlag(func(s *State) *bool { return &s.ThemeRequested })
}

// AckExit clears the exit request. It reports whether one was set.
func (i *Interpreter) AckExit() bool {
	return i.clearFlag(func(s *State) *bool { return &s.ExitRequested })
}

// AckNavigate clears the navigate request. It reports whether one was set.
func (i *Interpreter) AckNavigate() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.state.Load().Navigate == nil {
		return false
	}
	i.updateLocked(func(s *State) { s.Navigate = nil })
	return true
}

func (i *Interpreter) clearFlag(field func(*State) *bool) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	cur := *i.state.Load()
	if !*field(&cur) {
		return false
	}
	i.updateLocked(func(s *State) { *field(s) = false })
	return true
}

// syncRequests publishes both brokers' pending requests. They are read
// under i.mu so concurrent transitions publish in order and the last
// snapshot always matches the brokers.
func (i *Interpreter) syncRequests() {
	i.update(func(s *State) {
		perm, permOK := i.permissions.Current()
		act, actOK := i.activities.Current()
		s.Permission, s.Activity = nil, nil
		if permOK {
			s.Permission = &perm
		}
		if actOK {
			s.Activity = &act
		}
	})
}

func (i *Interpreter) continuationDone(kind string, status broker.Status) {
	if i.metrics != nil {
		i.metrics.ContinuationDone(kind, status.String())
	}
}

// Wait blocks until the running command and suggestion passes finish.
func (i *Interpreter) Wait() {
	i.wg.Wait()
}

// Close interrupts any work, waits for it, and closes every subscription.
func (i *Interpreter) Close() error {
	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		return nil
	}
	i.closed = true
	if i.rankCancel != nil {
		i.rankCancel()
	}
	i.mu.Unlock()

	i.Interrupt()
	i.wg.Wait()

	i.mu.Lock()
	for ch := range i.subscribers {
		delete(i.subscribers, ch)
		close(ch)
	}
	i.mu.Unlock()
	return nil
}
