package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/devggaurav/KShell-UI/internal/domain"
)

// AddFeed stores feed. It returns false when a feed with the same name
// exists.
func (s *SQLiteStorage) AddFeed(ctx context.Context, feed domain.Feed) (bool, error) {
	if strings.TrimSpace(feed.Name) == "" || strings.TrimSpace(feed.URL) == "" {
		return false, fmt.Errorf("sqlite storage: add feed: name and url are required: %w", domain.ErrInvalidInput)
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO rss_feeds(name, url, added_at) VALUES (?, ?, ?) ON CONFLICT(name) DO NOTHING`, feed.Name, feed.URL, s.stamp())
	if err != nil {
		return false, fmt.Errorf("sqlite storage: add feed %s: %w", feed.Name, err)
	}
	return affected(res) > 0, nil
}

// RemoveFeed deletes the feed called name and reports whether it existed.
func (s *SQLiteStorage) RemoveFeed(ctx context.Context, name string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM rss_feeds WHERE name = ?`, name)
	if err != nil {
		return false, fmt.Errorf("sqlite storage: remove feed %s: %w", name, err)
	}
	return affected(res) > 0, nil
}

// GetFeed returns the feed called name or domain.ErrNotFound.
func (s *SQLiteStorage) GetFeed(ctx context.Context, name string) (domain.Feed, error) {
	var (
		f     = domain.Feed{Name: name}
		added string
	)
	err := s.db.QueryRowContext(ctx, `SELECT url, added_at FROM rss_feeds WHERE name = ?`, name).Scan(&f.URL, &added)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Feed{}, fmt.Errorf("sqlite storage: feed %s: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Feed{}, fmt.Errorf("sqlite storage: get feed %s: %w", name, err)
	}
	f.AddedAt = parseTime(added)
	return f, nil
}

// ListFeeds returns feeds sorted by name.
func (s *SQLiteStorage) ListFeeds(ctx context.Context) ([]domain.Feed, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, url, added_at FROM rss_feeds ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: list feeds: %w", err)
	}
	defer rows.Close()

	var out []domain.Feed
	for rows.Next() {
		var (
			f     domain.Feed
			added string
		)
		if err := rows.Scan(&f.Name, &f.URL, &added); err != nil {
			return nil, fmt.Errorf("sqlite storage: scan feed: %w", err)
		}
		f.AddedAt = parseTime(added)
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite storage: list feeds: %w", err)
	}
	return out, nil
}
