// Package suggest holds the suggestion model shared by the ranker, the
// interpreter and the presentation layer, and the rules for merging an
// accepted suggestion into the input text.
package suggest

import (
	"fmt"
	"unicode"
)

// Suggestion is one completion candidate.
type Suggestion struct {
	// Label is the display text.
	Label string
	// Replacement is the text spliced into the input when accepted.
	Replacement string
	// Runnable means accepting the suggestion submits the line immediately.
	Runnable bool
}

// MergeKind tags a MergeAction.
type MergeKind int

const (
	// MergeAppend attaches the replacement at the end of the text.
	MergeAppend MergeKind = iota
	// MergeReplace splices the replacement over a rune range.
	MergeReplace
)

// MergeAction describes how every suggestion of a batch is merged into the
// current text. For MergeReplace, Start is the first replaced rune and End the
// last one, both inclusive; End == Start-1 denotes an empty range (insertion
// at Start).
type MergeAction struct {
	Kind  MergeKind
	Start int
	End   int
}

// Append returns the append merge action.
func Append() MergeAction {
	return MergeAction{Kind: MergeAppend}
}

// Replace returns a merge action replacing runes start..end inclusive.
func Replace(start, end int) MergeAction {
	return MergeAction{Kind: MergeReplace, Start: start, End: end}
}

// Insert returns a replace action with an empty range at pos.
func Insert(pos int) MergeAction {
	return MergeAction{Kind: MergeReplace, Start: pos, End: pos - 1}
}

func (m MergeAction) String() string {
	if m.Kind == MergeReplace {
		return fmt.Sprintf("Replace(%d,%d)", m.Start, m.End)
	}
	return "Append"
}

// Apply merges replacement into text. Out-of-range replace bounds are
// clamped to the text.
func (m MergeAction) Apply(text, replacement string) string {
	switch m.Kind {
	case MergeReplace:
		runes := []rune(text)
		start := clamp(m.Start, 0, len(runes))
		end := clamp(m.End+1, start, len(runes))
		out := make([]rune, 0, len(runes)-(end-start)+len(replacement))
		out = append(out, runes[:start]...)
		out = append(out, []rune(replacement)...)
		out = append(out, runes[end:]...)
		return string(out)
	default:
		if text == "" {
			return replacement
		}
		runes := []rune(text)
		if unicode.IsSpace(runes[len(runes)-1]) {
			return text + replacement
		}
		return text + " " + replacement
	}
}

// Batch is the result of one ranking pass.
type Batch struct {
	Items []Suggestion
	Merge MergeAction
}

// Empty reports whether the batch has no suggestions.
func (b Batch) Empty() bool {
	return len(b.Items) == 0
}

// Accept applies the batch merge action for item i to text and reports
// whether the result should be submitted right away.
func (b Batch) Accept(text string, i int) (string, bool) {
	item := b.Items[i]
	return b.Merge.Apply(text, item.Replacement), item.Runnable
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
