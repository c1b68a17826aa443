package domain

import "context"

// AppProvider lists launchable apps.
type AppProvider interface {
	// List returns apps whose label contains query, sorted by label.
	List(ctx context.Context, query string) ([]App, error)
	// Find resolves name to a single app: an exact label match wins,
	// otherwise a unique containment match.
	Find(ctx context.Context, name string) (App, bool, error)
	// ByPackage looks an app up by its package identifier.
	ByPackage(ctx context.Context, pkg string) (App, bool, error)
}

// ContactProvider lists contacts.
type ContactProvider interface {
	// List returns contacts whose name contains query, sorted by name.
	List(ctx context.Context, query string) ([]Contact, error)
}

// FileProvider lists directory entries.
type FileProvider interface {
	// List returns the entries of dir whose name contains query, sorted by
	// name. With dirsOnly, regular files are skipped.
	List(ctx context.Context, dir, query string, dirsOnly bool) ([]File, error)
	// Stat reports whether path exists and is a directory.
	Stat(ctx context.Context, path string) (File, error)
}

// NoteRepository stores notes.
type NoteRepository interface {
	AddNote(ctx context.Context, text string) (Note, error)
	// ListNotes returns notes most recent first.
	ListNotes(ctx context.Context) ([]Note, error)
	GetNote(ctx context.Context, id int64) (Note, error)
	RemoveNote(ctx context.Context, id int64) (bool, error)
	ClearNotes(ctx context.Context) (int, error)
}

// PinnedRepository stores pinned app shortcuts.
type PinnedRepository interface {
	Pin(ctx context.Context, pkg string) error
	Unpin(ctx context.Context, pkg string) (bool, error)
	ListPinned(ctx context.Context) ([]PinnedApp, error)
}

// FeedRepository stores RSS subscriptions keyed by name.
type FeedRepository interface {
	// AddFeed returns false if a feed with the same name exists.
	AddFeed(ctx context.Context, feed Feed) (bool, error)
	RemoveFeed(ctx context.Context, name string) (bool, error)
	GetFeed(ctx context.Context, name string) (Feed, error)
	ListFeeds(ctx context.Context) ([]Feed, error)
}
