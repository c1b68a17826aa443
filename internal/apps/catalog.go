// Package apps provides the launcher app catalog read from XDG desktop
// entries.
package apps

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/devggaurav/KShell-UI/internal/domain"
	"github.com/devggaurav/KShell-UI/internal/logging"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const defaultCacheSize = 256

// Catalog lists the apps found in a set of directories. The directory scan
// is lazy and cached until Invalidate is called.
type Catalog struct {
	dirs   []string
	logger logging.Logger

	group   singleflight.Group
	queries *lru.Cache[string, []domain.App]

	mu     sync.RWMutex
	apps   []domain.App
	loaded bool
	// gen counts invalidations. Results computed under an older gen are
	// returned but never cached.
	gen uint64

	// afterLoad runs between loading the apps and caching a query result.
	afterLoad func()
}

var _ domain.AppProvider = (*Catalog)(nil)

// NewCatalog creates a catalog over dirs. Earlier directories take
// precedence when two hold the same desktop id.
func NewCatalog(dirs []string, logger logging.Logger) (*Catalog, error) {
	if logger == nil {
		logger = logging.GetGlobal()
	}
	cache, err := lru.New[string, []domain.App](defaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("apps: create query cache: %w", err)
	}
	return &Catalog{dirs: dirs, logger: logger, queries: cache}, nil
}

// Dirs returns the scanned directories.
func (c *Catalog) Dirs() []string {
	return append([]string(nil), c.dirs...)
}

// Invalidate drops the scanned apps and every cached query.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.apps, c.loaded = nil, false
	c.queries.Purge()
}

// List returns apps whose label contains query, ignoring case, sorted by
// label.
func (c *Catalog) List(ctx context.Context, query string) ([]domain.App, error) {
	key := strings.ToLower(query)
	if cached, ok := c.queries.Get(key); ok {
		return cloneApps(cached), nil
	}
	all, gen, err := c.all(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.App, 0, len(all))
	for _, a := range all {
		if domain.ContainsFold(a.Label, query) {
			out = append(out, a)
		}
	}
	if c.afterLoad != nil {
		c.afterLoad()
	}
	c.mu.RLock()
	if c.gen == gen {
		c.queries.Add(key, out)
	}
	c.mu.RUnlock()
	return cloneApps(out), nil
}

// Find resolves name to one app: an exact label match (ignoring case) wins,
// otherwise the single app whose label contains name.
func (c *Catalog) Find(ctx context.Context, name string) (domain.App, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.App{}, false, nil
	}
	matches, err := c.List(ctx, name)
	if err != nil {
		return domain.App{}, false, err
	}
	for _, a := range matches {
		if strings.EqualFold(a.Label, name) {
			return a, true, nil
		}
	}
	if len(matches) == 1 {
		return matches[0], true, nil
	}
	return domain.App{}, false, nil
}

// ByPackage looks an app up by desktop id.
func (c *Catalog) ByPackage(ctx context.Context, pkg string) (domain.App, bool, error) {
	all, _, err := c.all(ctx)
	if err != nil {
		return domain.App{}, false, err
	}
	for _, a := range all {
		if a.Package == pkg {
			return a, true, nil
		}
	}
	return domain.App{}, false, nil
}

// all returns the scanned apps, scanning once for concurrent callers.
// all returns every app and the generation it was loaded under.
func (c *Catalog) all(ctx context.Context) ([]domain.App, uint64, error) {
	c.mu.RLock()
	apps, loaded, gen := c.apps, c.loaded, c.gen
	c.mu.RUnlock()
	if loaded {
		return apps, gen, nil
	}

	v, err, _ := c.group.Do(fmt.Sprintf("scan-%d", gen), func() (any, error) {
		apps, err := c.scan(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.apps, c.loaded = apps, true
		}
		c.mu.Unlock()
		return apps, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return v.([]domain.App), gen, nil
}

// scan reads every directory concurrently and merges the results.
func (c *Catalog) scan(ctx context.Context) ([]domain.App, error) {
	perDir := make([][]domain.App, len(c.dirs))
	g, gctx := errgroup.WithContext(ctx)
	for i, dir := range c.dirs {
		g.Go(func() error {
			apps, err := c.scanDir(gctx, dir)
			if err != nil {
				return err
			}
			perDir[i] = apps
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []domain.App
	for _, apps := range perDir {
		for _, a := range apps {
			if seen[a.Package] {
				continue
			}
			seen[a.Package] = true
			out = append(out, a)
		}
	}
	domain.SortAppsByLabel(out)
	c.logger.Debug("apps: scanned", "dirs", len(c.dirs), "apps", len(out))
	return out, nil
}

func (c *Catalog) scanDir(ctx context.Context, dir string) ([]domain.App, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("apps: read %s: %w", dir, err)
	}
	var out []domain.App
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".desktop") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			c.logger.Warn("apps: skip unreadable entry", "path", path, "error", err)
			continue
		}
		app, ok, err := ParseDesktopEntry(DesktopID(path), data)
		if err != nil {
			c.logger.Warn("apps: skip malformed entry", "path", path, "error", err)
			continue
		}
		if ok {
			out = append(out, app)
		}
	}
	return out, nil
}

func cloneApps(apps []domain.App) []domain.App {
	return append([]domain.App(nil), apps...)
}

// DefaultDirs returns the XDG application directories.
func DefaultDirs() []string {
	var dirs []string
	if data := os.Getenv("XDG_DATA_HOME"); data != "" {
		dirs = append(dirs, filepath.Join(data, "applications"))
	} else if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local", "share", "applications"))
	}
	dataDirs := os.Getenv("XDG_DATA_DIRS")
	if dataDirs == "" {
		dataDirs = "/usr/local/share:/usr/share"
	}
	for _, d := range filepath.SplitList(dataDirs) {
		if d != "" {
			dirs = append(dirs, filepath.Join(d, "applications"))
		}
	}
	return dirs
}
