package apps

import (
	"context"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch invalidates the catalog whenever a desktop entry changes in one of
// its directories. Directories that do not exist are skipped. It blocks
// until ctx is done.
func (c *Catalog) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("apps: create watcher: %w", err)
	}
	defer watcher.Close()

	watched := 0
	for _, dir := range c.dirs {
		if err := watcher.Add(dir); err != nil {
			c.logger.Debug("apps: not watching", "dir", dir, "error", err)
			continue
		}
		watched++
	}
	c.logger.Debug("apps: watching", "dirs", watched)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".desktop") {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				c.logger.Debug("apps: entry changed", "path", event.Name, "op", event.Op.String())
				c.Invalidate()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("apps: watcher error", "error", err)
		}
	}
}
