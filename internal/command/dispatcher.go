package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/devggaurav/KShell-UI/internal/args"
	"github.com/devggaurav/KShell-UI/internal/broker"
	"github.com/devggaurav/KShell-UI/internal/logging"
)

// Mode is the interpreter input mode. The zero value is regular mode.
type Mode struct {
	// Hint is the input placeholder while prompting.
	Hint string
	// Command receives every token of the next line while prompting.
	Command *Definition
}

// Regular returns the regular mode.
func Regular() Mode {
	return Mode{}
}

// PromptMode returns a mode routing the next line to next.
func PromptMode(hint string, next *Definition) Mode {
	return Mode{Hint: hint, Command: next}
}

// IsPrompt reports whether the mode routes input to a remembered command.
func (m Mode) IsPrompt() bool {
	return m.Command != nil
}

// Outcome labels how a dispatch ended.
type Outcome string

const (
	OutcomeOK            Outcome = "ok"
	OutcomeEmpty         Outcome = "empty"
	OutcomeNoSuchCommand Outcome = "no_such_command"
	OutcomeArity         Outcome = "arity"
	OutcomeDenied        Outcome = "denied"
	OutcomeError         Outcome = "error"
	OutcomeDefect        Outcome = "defect"
)

// Result reports what Dispatch did.
type Result struct {
	// Command is the matched definition, nil when nothing matched.
	Command *Definition
	Outcome Outcome
}

// IsDefect reports whether err signals a broken invariant rather than a
// user-facing failure.
func IsDefect(err error) bool {
	return errors.Is(err, args.ErrOutOfBounds) || errors.Is(err, broker.ErrAlreadyPending) ||
		errors.Is(err, broker.ErrAlreadyTriggered)
}

// Dispatcher binds tokenized input to a definition and runs it.
type Dispatcher struct {
	registry *Registry
	logger   logging.Logger
}

// NewDispatcher creates a dispatcher over registry.
func NewDispatcher(registry *Registry, logger logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.GetGlobal()
	}
	return &Dispatcher{registry: registry, logger: logger}
}

// Registry returns the dispatcher's registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Resolve selects the definition for a and returns it with its bound
// arguments. In prompt mode every token is bound to the remembered command.
func (d *Dispatcher) Resolve(mode Mode, a args.Arguments) (*Definition, args.Arguments, error) {
	if mode.IsPrompt() {
		return mode.Command, a, nil
	}
	name := a.First()
	def, ok := d.registry.Lookup(name)
	if !ok {
		return nil, args.Arguments{}, &NoSuchCommandError{Name: name, DidYouMean: d.registry.Closest(name)}
	}
	return def, a.DropFirst(), nil
}

// Dispatch interprets line in mode and runs the matched handler.
//
// User-facing failures (unknown command, wrong arity, denial, handler errors)
// are printed to s and reported through Result only. Defects are printed as
// a generic line and returned so the caller can escalate them.
func (d *Dispatcher) Dispatch(ctx context.Context, mode Mode, line string, s Session) (Result, error) {
	a := args.Tokenize(line)
	if a.IsEmpty() && !mode.IsPrompt() {
		return Result{Outcome: OutcomeEmpty}, nil
	}

	def, bound, err := d.Resolve(mode, a)
	if err != nil {
		s.Print(capitalize(err.Error()))
		d.logger.Debug("dispatch: no such command", "input", line)
		return Result{Outcome: OutcomeNoSuchCommand}, nil
	}
	result := Result{Command: def}

	if err := def.CheckArity(bound.Len()); err != nil {
		s.Print(capitalize(err.Error()))
		result.Outcome = OutcomeArity
		return result, nil
	}

	d.logger.Debug("dispatch: run", "command", def.Name, "args", bound.Len())
	err = def.Run(ctx, s, bound)
	switch {
	case err == nil:
		result.Outcome = OutcomeOK
		return result, nil
	case IsDefect(err):
		s.Print(SomethingWentWrong)
		result.Outcome = OutcomeDefect
		return result, fmt.Errorf("command %s: %w", def.Name, err)
	case errors.Is(err, ErrDenied):
		s.Print(capitalize(err.Error()))
		result.Outcome = OutcomeDenied
		return result, nil
	default:
		d.logger.Warn("dispatch: command failed", "command", def.Name, "error", err)
		s.Print(fmt.Sprintf("%s: %v", def.Name, err))
		result.Outcome = OutcomeError
		return result, nil
	}
}

// SomethingWentWrong is the log line shown for defects.
const SomethingWentWrong = "Something went wrong"

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}
