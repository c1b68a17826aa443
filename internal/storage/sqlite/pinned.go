package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/devggaurav/KShell-UI/internal/domain"
)

// Pin records pkg as pinned. Pinning twice keeps the first timestamp.
func (s *SQLiteStorage) Pin(ctx context.Context, pkg string) error {
	if strings.TrimSpace(pkg) == "" {
		return fmt.Errorf("sqlite storage: pin: empty package: %w", domain.ErrInvalidInput)
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO pinned_apps(package_name, pinned_at) VALUES (?, ?) ON CONFLICT(package_name) DO NOTHING`, pkg, s.stamp())
	if err != nil {
		return fmt.Errorf("sqlite storage: pin %s: %w", pkg, err)
	}
	return nil
}

// Unpin removes pkg and reports whether it was pinned.
func (s *SQLiteStorage) Unpin(ctx context.Context, pkg string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pinned_apps WHERE package_name = ?`, pkg)
	if err != nil {
		return false, fmt.Errorf("sqlite storage: unpin %s: %w", pkg, err)
	}
	return affected(res) > 0, nil
}

// ListPinned returns pinned apps in the order they were pinned.
func (s *SQLiteStorage) ListPinned(ctx context.Context) ([]domain.PinnedApp, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT package_name, pinned_at FROM pinned_apps ORDER BY pinned_at, package_name`)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: list pinned: %w", err)
	}
	defer rows.Close()

	var out []domain.PinnedApp
	for rows.Next() {
		var (
			p      domain.PinnedApp
			pinned string
		)
		if err := rows.Scan(&p.Package, &pinned); err != nil {
			return nil, fmt.Errorf("sqlite storage: scan pinned: %w", err)
		}
		p.PinnedAt = parseTime(pinned)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite storage: list pinned: %w", err)
	}
	return out, nil
}
