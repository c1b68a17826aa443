// Package domain provides the value types the shell works with and the
// collaborator interfaces command handlers reach the outside world through.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a keyed lookup has no match.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when a collaborator rejects its arguments.
	ErrInvalidInput = errors.New("invalid input")
)

// App is a launchable application.
type App struct {
	// Label is the user-visible name.
	Label string
	// Package uniquely identifies the app (desktop entry id).
	Package string
	// Exec is the command line used to start it.
	Exec string
}

// Contact is an address book entry with a phone number.
type Contact struct {
	Name  string
	Phone string
}

// File is a directory entry.
type File struct {
	Name string
	Path string
	Dir  bool
}

// Note is a stored free-form note.
type Note struct {
	ID        int64
	Text      string
	CreatedAt time.Time
}

// PinnedApp is a user-designated shortcut.
type PinnedApp struct {
	Package  string
	PinnedAt time.Time
}

// Feed is an RSS feed subscription.
type Feed struct {
	Name    string
	URL     string
	AddedAt time.Time
}
