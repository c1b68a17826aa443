// Package files lists directory entries for the file commands.
package files

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/devggaurav/KShell-UI/internal/domain"
)

// Provider reads the local filesystem.
type Provider struct {
	// ShowHidden includes dot entries.
	ShowHidden bool
}

// NewProvider creates a provider that skips dot entries.
func NewProvider() *Provider {
	return &Provider{}
}

var _ domain.FileProvider = (*Provider)(nil)

// List returns the entries of dir whose name contains query, sorted by name.
func (p *Provider) List(ctx context.Context, dir, query string, dirsOnly bool) ([]domain.File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("files: list %s: %w", dir, mapErr(err))
	}
	out := make([]domain.File, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := e.Name()
		if !p.ShowHidden && strings.HasPrefix(name, ".") && !strings.HasPrefix(query, ".") {
			continue
		}
		isDir := e.IsDir()
		if e.Type()&fs.ModeSymlink != 0 {
			if info, err := os.Stat(filepath.Join(dir, name)); err == nil {
				isDir = info.IsDir()
			}
		}
		if dirsOnly && !isDir {
			continue
		}
		if !domain.ContainsFold(name, query) {
			continue
		}
		out = append(out, domain.File{Name: name, Path: filepath.Join(dir, name), Dir: isDir})
	}
	domain.SortFilesByName(out)
	return out, nil
}

// Stat describes path.
func (p *Provider) Stat(_ context.Context, path string) (domain.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.File{}, fmt.Errorf("files: stat %s: %w", path, mapErr(err))
	}
	return domain.File{Name: info.Name(), Path: path, Dir: info.IsDir()}, nil
}

func mapErr(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return domain.ErrNotFound
	}
	return err
}

// Resolve turns path, typed relative to cwd, into a clean absolute path.
// A leading ~ expands to home; an empty path resolves to home.
func Resolve(home, cwd, path string) string {
	switch {
	case path == "" || path == "~":
		return filepath.Clean(home)
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:])
	case filepath.IsAbs(path):
		return filepath.Clean(path)
	default:
		return filepath.Join(cwd, path)
	}
}

// SplitPartial splits a partially typed path into the directory part, kept
// verbatim, and the name being completed.
func SplitPartial(partial string) (dir, name string) {
	i := strings.LastIndex(partial, "/")
	if i < 0 {
		return "", partial
	}
	return partial[:i+1], partial[i+1:]
}
