package domain

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// newCollator returns a case-insensitive collator. Collators keep internal
// buffers, so each sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}

// SortAppsByLabel sorts apps by label, stable on ties.
func SortAppsByLabel(apps []App) {
	c := newCollator()
	sort.SliceStable(apps, func(i, j int) bool {
		return c.CompareString(apps[i].Label, apps[j].Label) < 0
	})
}

// SortContactsByName sorts contacts by name.
func SortContactsByName(contacts []Contact) {
	c := newCollator()
	sort.SliceStable(contacts, func(i, j int) bool {
		return c.CompareString(contacts[i].Name, contacts[j].Name) < 0
	})
}

// SortFilesByName sorts files by name.
func SortFilesByName(files []File) {
	c := newCollator()
	sort.SliceStable(files, func(i, j int) bool {
		return c.CompareString(files[i].Name, files[j].Name) < 0
	})
}

// SortStrings sorts names with the same collation as the typed helpers.
func SortStrings(names []string) {
	c := newCollator()
	sort.SliceStable(names, func(i, j int) bool {
		return c.CompareString(names[i], names[j]) < 0
	})
}

// ContainsFold reports whether s contains substr, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
