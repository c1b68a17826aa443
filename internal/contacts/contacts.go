// Package contacts reads the address book from a TOML file:
//
//	[[contact]]
//	name = "Ada Lovelace"
//	phone = "+44 20 7946 0000"
package contacts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/devggaurav/KShell-UI/internal/domain"
	"github.com/pelletier/go-toml/v2"
)

type bookFile struct {
	Contact []entry `toml:"contact"`
}

type entry struct {
	Name  string `toml:"name"`
	Phone string `toml:"phone"`
}

// Book is a ContactProvider backed by a TOML file. The file is re-read when
// its modification time changes. A missing file is an empty book.
type Book struct {
	path string

	mu       sync.Mutex
	modTime  time.Time
	loaded   bool
	contacts []domain.Contact
}

var _ domain.ContactProvider = (*Book)(nil)

// NewBook creates a book reading path.
func NewBook(path string) *Book {
	return &Book{path: path}
}

// List returns contacts whose name contains query, sorted by name.
func (b *Book) List(ctx context.Context, query string) ([]domain.Contact, error) {
	all, err := b.load()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Contact, 0, len(all))
	for _, c := range all {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if domain.ContainsFold(c.Name, query) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (b *Book) load() ([]domain.Contact, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	info, err := os.Stat(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		b.contacts, b.loaded = nil, true
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("contacts: stat %s: %w", b.path, err)
	}
	if b.loaded && info.ModTime().Equal(b.modTime) {
		return b.contacts, nil
	}

	data, err := os.ReadFile(b.path)
	if err != nil {
		return nil, fmt.Errorf("contacts: read %s: %w", b.path, err)
	}
	contacts, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("contacts: %s: %w", b.path, err)
	}
	b.contacts, b.modTime, b.loaded = contacts, info.ModTime(), true
	return contacts, nil
}

// Parse decodes a contact book, dropping entries without a name or phone,
// and sorts it by name.
func Parse(data []byte) ([]domain.Contact, error) {
	var f bookFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse contact book: %w", err)
	}
	out := make([]domain.Contact, 0, len(f.Contact))
	for _, e := range f.Contact {
		name, phone := strings.TrimSpace(e.Name), strings.TrimSpace(e.Phone)
		if name == "" || phone == "" {
			continue
		}
		out = append(out, domain.Contact{Name: name, Phone: phone})
	}
	domain.SortContactsByName(out)
	return out, nil
}

// Encode renders contacts in the book format.
func Encode(contacts []domain.Contact) ([]byte, error) {
	f := bookFile{Contact: make([]entry, len(contacts))}
	for i, c := range contacts {
		f.Contact[i] = entry{Name: c.Name, Phone: c.Phone}
	}
	data, err := toml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode contact book: %w", err)
	}
	return data, nil
}
