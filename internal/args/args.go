// Package args turns a raw input line into an immutable, positional argument
// sequence.
package args

import (
	"errors"
	"fmt"
	"strings"
)

// ErrOutOfBounds is the sentinel wrapped by every OutOfBoundsError.
var ErrOutOfBounds = errors.New("argument index out of bounds")

// OutOfBoundsError reports an access past the end of an Arguments value.
// Accessors panic with it; arity checks are expected to make it unreachable.
type OutOfBoundsError struct {
	Op    string
	Index int
	Len   int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("%s: index %d with length %d: %v", e.Op, e.Index, e.Len, ErrOutOfBounds)
}

func (e *OutOfBoundsError) Unwrap() error {
	return ErrOutOfBounds
}

// Arguments is an immutable ordered sequence of tokens.
type Arguments struct {
	tokens []string
}

// New builds an Arguments value from tokens. The slice is copied.
func New(tokens ...string) Arguments {
	if len(tokens) == 0 {
		return Arguments{}
	}
	copied := make([]string, len(tokens))
	copy(copied, tokens)
	return Arguments{tokens: copied}
}

// At returns the token at index i.
func (a Arguments) At(i int) string {
	if i < 0 || i >= len(a.tokens) {
		panic(&OutOfBoundsError{Op: "at", Index: i, Len: len(a.tokens)})
	}
	return a.tokens[i]
}

// First returns the first token.
func (a Arguments) First() string {
	if len(a.tokens) == 0 {
		panic(&OutOfBoundsError{Op: "first", Index: 0, Len: 0})
	}
	return a.tokens[0]
}

// Last returns the last token.
func (a Arguments) Last() string {
	if len(a.tokens) == 0 {
		panic(&OutOfBoundsError{Op: "last", Index: -1, Len: 0})
	}
	return a.tokens[len(a.tokens)-1]
}

// DropFirst returns a new sequence without the first token.
func (a Arguments) DropFirst() Arguments {
	if len(a.tokens) == 0 {
		panic(&OutOfBoundsError{Op: "drop-first", Index: 0, Len: 0})
	}
	return Arguments{tokens: a.tokens[1:]}
}

// Len returns the number of tokens.
func (a Arguments) Len() int {
	return len(a.tokens)
}

// IsEmpty reports whether the sequence has no tokens.
func (a Arguments) IsEmpty() bool {
	return len(a.tokens) == 0
}

// Slice returns a copy of the tokens.
func (a Arguments) Slice() []string {
	out := make([]string, len(a.tokens))
	copy(out, a.tokens)
	return out
}

// Join joins the tokens with single spaces.
func (a Arguments) Join() string {
	return strings.Join(a.tokens, " ")
}

// All iterates over index and token pairs.
func (a Arguments) All() func(yield func(int, string) bool) {
	return func(yield func(int, string) bool) {
		for i, tok := range a.tokens {
			if !yield(i, tok) {
				return
			}
		}
	}
}
