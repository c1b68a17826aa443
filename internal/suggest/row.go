package suggest

// Separator is the label rendered between pinned entries and ranked
// suggestions.
const Separator = "●"

// RowItem is one cell of the rendered suggestion row.
type RowItem struct {
	Suggestion Suggestion
	// Pinned items are merged as a whole-line replacement rather than
	// through the batch merge action.
	Pinned    bool
	Separator bool
}

// Row lays out the suggestion row shown under the input field. Pinned
// entries come first, followed by a separator, and only when the input text
// is empty. They are never interleaved with the ranked batch.
func Row(text string, pinned []Suggestion, batch Batch) []RowItem {
	var row []RowItem
	if text == "" && len(pinned) > 0 {
		for _, p := range pinned {
			row = append(row, RowItem{Suggestion: p, Pinned: true})
		}
		row = append(row, RowItem{Suggestion: Suggestion{Label: Separator}, Separator: true})
	}
	for _, s := range batch.Items {
		row = append(row, RowItem{Suggestion: s})
	}
	return row
}

// Accept resolves a click on a row item against text. Pinned entries use the
// append rule (the text is empty whenever they are shown). Separators are
// inert and return ok=false.
func (r RowItem) Accept(text string, merge MergeAction) (newText string, submit bool, ok bool) {
	if r.Separator {
		return text, false, false
	}
	if r.Pinned {
		merge = Append()
	}
	return merge.Apply(text, r.Suggestion.Replacement), r.Suggestion.Runnable, true
}
