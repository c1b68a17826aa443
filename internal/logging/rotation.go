package logging

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

const filePrefix = "kshell_"

// prune keeps the keep most recently modified kshell_*.log files in dir and
// removes the rest. A negative keep disables pruning.
func prune(dir string, keep int) error {
	if keep < 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	type candidate struct {
		path    string
		modTime time.Time
	}
	var logs []candidate
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		logs = append(logs, candidate{path: filepath.Join(dir, name), modTime: info.ModTime()})
	}
	if len(logs) <= keep {
		return nil
	}

	// newest first; names break ties so the order is stable
	slices.SortFunc(logs, func(a, b candidate) int {
		if c := b.modTime.Compare(a.modTime); c != 0 {
			return c
		}
		return strings.Compare(b.path, a.path)
	})
	var errs []error
	for _, c := range logs[keep:] {
		if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
