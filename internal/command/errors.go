package command

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoSuchCommand is wrapped by NoSuchCommandError.
	ErrNoSuchCommand = errors.New("no such command")
	// ErrArity is wrapped by ArityError.
	ErrArity = errors.New("wrong number of arguments")
	// ErrDenied is wrapped by DeniedError.
	ErrDenied = errors.New("denied")
)

// NoSuchCommandError reports an unknown first token.
type NoSuchCommandError struct {
	Name       string
	DidYouMean []string
}

func (e *NoSuchCommandError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrNoSuchCommand, e.Name)
	if len(e.DidYouMean) > 0 {
		msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(e.DidYouMean, ", "))
	}
	return msg
}

func (e *NoSuchCommandError) Unwrap() error {
	return ErrNoSuchCommand
}

// ArityError reports an argument count outside a command's bounds.
type ArityError struct {
	Command string
	Min     int
	Max     int
	Got     int
	Usage   string
}

func (e *ArityError) Error() string {
	var want string
	switch {
	case e.Max == Unbounded:
		want = fmt.Sprintf("at least %d", e.Min)
	case e.Min == e.Max:
		want = fmt.Sprintf("%d", e.Min)
	default:
		want = fmt.Sprintf("%d to %d", e.Min, e.Max)
	}
	return fmt.Sprintf("%s: %s expects %s, got %d; usage: %s", ErrArity, e.Command, want, e.Got, e.Usage)
}

func (e *ArityError) Unwrap() error {
	return ErrArity
}

// DeniedError reports a refused permission or an activity that produced no
// usable result.
type DeniedError struct {
	What string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("%s %s", e.What, ErrDenied)
}

func (e *DeniedError) Unwrap() error {
	return ErrDenied
}

// Denied returns a DeniedError for what.
func Denied(what string) error {
	return &DeniedError{What: what}
}
