package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/devggaurav/KShell-UI/internal/apps"
	"github.com/devggaurav/KShell-UI/internal/command"
	"github.com/devggaurav/KShell-UI/internal/commands"
	"github.com/devggaurav/KShell-UI/internal/config"
	"github.com/devggaurav/KShell-UI/internal/contacts"
	"github.com/devggaurav/KShell-UI/internal/files"
	"github.com/devggaurav/KShell-UI/internal/logging"
	"github.com/devggaurav/KShell-UI/internal/metrics"
	"github.com/devggaurav/KShell-UI/internal/shell"
	"github.com/devggaurav/KShell-UI/internal/storage/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// runtime owns the interpreter and the services behind it.
type runtime struct {
	interp   *shell.Interpreter
	store    *sqlite.SQLiteStorage
	catalog  *apps.Catalog
	registry *prometheus.Registry

	cancel context.CancelFunc
	group  *errgroup.Group
}

// runtimeFactory builds a runtime from the loaded configuration.
type runtimeFactory func(ctx context.Context) (*runtime, error)

// newRuntime wires storage, providers, commands and the interpreter, and
// starts the app directory watcher and the optional metrics endpoint.
func newRuntime(ctx context.Context) (*runtime, error) {
	logger := logging.GetGlobal()

	store, err := sqlite.NewSQLiteStorage(config.Get("db_path", ""))
	if err != nil {
		return nil, err
	}

	dirs := config.GetList("apps_dirs")
	if len(dirs) == 0 {
		dirs = apps.DefaultDirs()
	}
	catalog, err := apps.NewCatalog(dirs, logger.With("component", "apps"))
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	deps := commands.Deps{
		Apps:     catalog,
		Contacts: contacts.NewBook(config.Get("contacts_file", "")),
		Files:    files.NewProvider(),
		Notes:    store,
		Pinned:   store,
		Feeds:    store,
		HomeDir:  config.Get("home_dir", ""),
	}
	registry := commands.NewRegistry(deps)
	promRegistry := prometheus.NewRegistry()

	interp := shell.New(
		command.NewDispatcher(registry, logger),
		command.NewRanker(registry, config.GetInt("suggestion_limit", 25)),
		shell.WithLogger(logger.With("component", "shell")),
		shell.WithMetrics(metrics.NewMetrics(promRegistry)),
		shell.WithPinned(commands.PinnedSuggestions(deps)),
		shell.WithWorkDir(deps.HomeDir),
	)
	if err := interp.RefreshPinned(ctx); err != nil {
		logger.Warn("runtime: load pinned apps", "error", err)
	}

	bgCtx, cancel := context.WithCancel(ctx)
	group, gctx := errgroup.WithContext(bgCtx)
	group.Go(func() error {
		if err := catalog.Watch(gctx); err != nil {
			logger.Warn("runtime: app watcher stopped", "error", err)
		}
		return nil
	})
	if addr := config.Get("metrics_addr", ""); addr != "" {
		group.Go(func() error {
			if err := metrics.Serve(gctx, addr, promRegistry); err != nil {
				logger.Error("runtime: metrics endpoint stopped", "addr", addr, "error", err)
				return fmt.Errorf("metrics on %s: %w", addr, err)
			}
			return nil
		})
	}

	return &runtime{
		interp:   interp,
		store:    store,
		catalog:  catalog,
		registry: promRegistry,
		cancel:   cancel,
		group:    group,
	}, nil
}

// Close stops the interpreter and background work, then closes storage.
func (r *runtime) Close() error {
	err := r.interp.Close()
	r.cancel()
	if werr := r.group.Wait(); werr != nil {
		err = errors.Join(err, werr)
	}
	if cerr := r.store.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	return err
}
