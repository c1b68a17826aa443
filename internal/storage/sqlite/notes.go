package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/devggaurav/KShell-UI/internal/domain"
)

// AddNote stores text and returns the new note.
func (s *SQLiteStorage) AddNote(ctx context.Context, text string) (domain.Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Note{}, fmt.Errorf("sqlite storage: add note: empty text: %w", domain.ErrInvalidInput)
	}
	created := s.stamp()
	res, err := s.db.ExecContext(ctx, `INSERT INTO notes(text, created_at) VALUES (?, ?)`, text, created)
	if err != nil {
		return domain.Note{}, fmt.Errorf("sqlite storage: add note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Note{}, fmt.Errorf("sqlite storage: add note id: %w", err)
	}
	return domain.Note{ID: id, Text: text, CreatedAt: parseTime(created)}, nil
}

// ListNotes returns notes most recent first.
func (s *SQLiteStorage) ListNotes(ctx context.Context) ([]domain.Note, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, text, created_at FROM notes ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: list notes: %w", err)
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		var (
			n       domain.Note
			created string
		)
		if err := rows.Scan(&n.ID, &n.Text, &created); err != nil {
			return nil, fmt.Errorf("sqlite storage: scan note: %w", err)
		}
		n.CreatedAt = parseTime(created)
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite storage: list notes: %w", err)
	}
	return notes, nil
}

// GetNote returns the note with id or domain.ErrNotFound.
func (s *SQLiteStorage) GetNote(ctx context.Context, id int64) (domain.Note, error) {
	var (
		n       = domain.Note{ID: id}
		created string
	)
	err := s.db.QueryRowContext(ctx, `SELECT text, created_at FROM notes WHERE id = ?`, id).Scan(&n.Text, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Note{}, fmt.Errorf("sqlite storage: note %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Note{}, fmt.Errorf("sqlite storage: get note %d: %w", id, err)
	}
	n.CreatedAt = parseTime(created)
	return n, nil
}

// RemoveNote deletes the note with id and reports whether it existed.
func (s *SQLiteStorage) RemoveNote(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("sqlite storage: remove note %d: %w", id, err)
	}
	return affected(res) > 0, nil
}

// ClearNotes deletes every note and returns how many were removed.
func (s *SQLiteStorage) ClearNotes(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes`)
	if err != nil {
		return 0, fmt.Errorf("sqlite storage: clear notes: %w", err)
	}
	return int(affected(res)), nil
}

func affected(res sql.Result) int64 {
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}
