package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendMerge(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		replacement string
		want        string
	}{
		{name: "trailing space is reused", text: "ls ", replacement: "notes", want: "ls notes"},
		{name: "space inserted", text: "ls", replacement: "notes", want: "ls notes"},
		{name: "empty text", text: "", replacement: "open Camera", want: "open Camera"},
		{name: "tab counts as whitespace", text: "note\t", replacement: "x", want: "note\tx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Append().Apply(tt.text, tt.replacement))
		})
	}
}

func TestReplaceMerge(t *testing.T) {
	tests := []struct {
		name        string
		action      MergeAction
		text        string
		replacement string
		want        string
	}{
		{name: "path token", action: Replace(3, 7), text: "cd /home", replacement: "/tmp", want: "cd /tmp"},
		{name: "command token", action: Replace(0, 1), text: "no", replacement: "notes ", want: "notes "},
		{name: "insert at end", action: Insert(3), text: "ls ", replacement: "docs", want: "ls docs"},
		{name: "middle of text", action: Replace(5, 7), text: "open cam now", replacement: "Camera", want: "open Camera now"},
		{name: "multibyte runes", action: Replace(5, 8), text: "open Über", replacement: "Uber", want: "open Uber"},
		{name: "end clamped", action: Replace(3, 40), text: "cd /ho", replacement: "/home", want: "cd /home"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.action.Apply(tt.text, tt.replacement))
		})
	}
}

func TestMergeActionString(t *testing.T) {
	assert.Equal(t, "Append", Append().String())
	assert.Equal(t, "Replace(3,7)", Replace(3, 7).String())
}

func TestBatchAccept(t *testing.T) {
	b := Batch{
		Items: []Suggestion{
			{Label: "notes", Replacement: "notes"},
			{Label: "exit", Replacement: "exit", Runnable: true},
		},
		Merge: Replace(0, 1),
	}
	text, submit := b.Accept("no", 0)
	assert.Equal(t, "notes", text)
	assert.False(t, submit)

	text, submit = b.Accept("ex", 1)
	assert.Equal(t, "exit", text)
	assert.True(t, submit)
}

func TestRowPinnedOnlyWhenTextEmpty(t *testing.T) {
	pinned := []Suggestion{{Label: "Camera", Replacement: "open Camera", Runnable: true}}
	batch := Batch{Items: []Suggestion{{Label: "help", Replacement: "help"}}, Merge: Insert(0)}

	row := Row("", pinned, batch)
	require.Len(t, row, 3)
	assert.True(t, row[0].Pinned)
	assert.True(t, row[1].Separator)
	assert.Equal(t, Separator, row[1].Suggestion.Label)
	assert.Equal(t, "help", row[2].Suggestion.Label)

	row = Row("he", pinned, batch)
	require.Len(t, row, 1)
	assert.False(t, row[0].Pinned)

	row = Row("", nil, batch)
	require.Len(t, row, 1)
}

func TestRowItemAccept(t *testing.T) {
	pinned := RowItem{Suggestion: Suggestion{Label: "Camera", Replacement: "open Camera", Runnable: true}, Pinned: true}
	text, submit, ok := pinned.Accept("", Replace(0, 3))
	require.True(t, ok)
	assert.Equal(t, "open Camera", text)
	assert.True(t, submit)

	sep := RowItem{Separator: true}
	text, _, ok = sep.Accept("abc", Append())
	assert.False(t, ok)
	assert.Equal(t, "abc", text)
}
