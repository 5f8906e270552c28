package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jbonatakis/trackflow/internal/config"
	"github.com/jbonatakis/trackflow/internal/logging"
	"github.com/jbonatakis/trackflow/internal/storage"
	"github.com/jbonatakis/trackflow/internal/workspace"
)

// now is the clock for date defaults such as today's habit toggle.
var now = time.Now

// app bundles what a command needs: resolved config, logger and the
// namespaced store. store is nil until openStore succeeds.
type app struct {
	root     string
	cfg      config.ResolvedConfig
	log      *logging.Logger
	kv       *storage.Adapter
	location string
	store    *workspace.Store
}

func projectRoot() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

// loadApp resolves config and opens the configured substrate without
// hydrating a Store, so corrupt data can still be inspected.
func loadApp() (*app, error) {
	root := projectRoot()
	cfg, err := config.LoadConfig(root)
	if err != nil {
		return nil, err
	}

	lb := logging.New().Level(cfg.Log.Level)
	if cfg.Log.File != "" {
		lb = lb.ToFile(config.ExpandHome(cfg.Log.File))
	}
	log, err := lb.Make()
	if err != nil {
		return nil, err
	}

	sub, location, err := openSubstrate(cfg)
	if err != nil {
		_ = log.Close()
		return nil, err
	}
	kv := storage.NewAdapter(sub,
		storage.WithPrefix(cfg.Storage.Prefix),
		storage.WithLogger(log.Logger),
		storage.WithEntryValidator(workspace.ValidateEntry),
	)
	log.Debug().Str("backend", cfg.Storage.Backend).Str("location", location).Msg("storage opened")

	return &app{root: root, cfg: cfg, log: log, kv: kv, location: location}, nil
}

func openSubstrate(cfg config.ResolvedConfig) (storage.Substrate, string, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return storage.NewMemorySubstrate(cfg.Storage.QuotaBytes), "(memory)", nil
	case config.BackendSQLite:
		path := filepath.Join(cfg.DataDir(), storage.DefaultSQLiteName)
		s, err := storage.OpenSQLite(path)
		if err != nil {
			return nil, "", fmt.Errorf("open sqlite store %s: %w", path, err)
		}
		return s, path, nil
	default:
		path := filepath.Join(cfg.DataDir(), storage.DefaultFileName)
		f, err := storage.OpenFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("open file store %s: %w", path, err)
		}
		return f, path, nil
	}
}

// openApp loads the app and hydrates the Store.
func openApp() (*app, error) {
	a, err := loadApp()
	if err != nil {
		return nil, err
	}
	st, err := workspace.Open(a.kv, workspace.WithLogger(a.log.Logger))
	if err != nil {
		a.Close()
		var le *workspace.LoadError
		if errors.As(err, &le) {
			return nil, fmt.Errorf("stored data is invalid (run `trackflow validate`, or `trackflow reset --yes` to start over): %w", err)
		}
		return nil, err
	}
	a.store = st
	return a, nil
}

func (a *app) Close() {
	if err := a.kv.Close(); err != nil {
		a.log.Warn().Err(err).Msg("close storage")
	}
	if a.store != nil && a.store.Dirty() {
		fmt.Fprintln(os.Stderr, "warning: some changes could not be saved (see log)")
	}
	_ = a.log.Close()
}

// withStore runs fn against a freshly opened Store and closes it afterwards.
func withStore(fn func(a *app) error) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// currentPage resolves an optional page id against the selection.
func (a *app) currentPage(pageID string) (workspace.Page, string, error) {
	if pageID != "" {
		p, wsID, ok := a.store.FindPage(pageID)
		if !ok {
			return workspace.Page{}, "", fmt.Errorf("%w: %q", workspace.ErrPageNotFound, pageID)
		}
		return p, wsID, nil
	}
	p, ok := a.store.CurrentPage()
	if !ok {
		return workspace.Page{}, "", fmt.Errorf("%w (run `trackflow select`)", workspace.ErrNoSelection)
	}
	return p, a.store.Selection().WorkspaceID, nil
}

// currentWorkspace resolves an optional workspace id against the selection.
func (a *app) currentWorkspace(workspaceID string) (workspace.Workspace, error) {
	if workspaceID != "" {
		ws, ok := a.store.Workspace(workspaceID)
		if !ok {
			return workspace.Workspace{}, fmt.Errorf("%w: %q", workspace.ErrWorkspaceNotFound, workspaceID)
		}
		return ws, nil
	}
	ws, ok := a.store.CurrentWorkspace()
	if !ok {
		return workspace.Workspace{}, fmt.Errorf("%w (run `trackflow select`)", workspace.ErrNoSelection)
	}
	return ws, nil
}

// editBlock applies fn to the block wherever it lives.
func (a *app) editBlock(blockID string, fn func(workspace.Content) (workspace.Content, error)) (workspace.Block, error) {
	_, loc, ok := a.store.FindBlock(blockID)
	if !ok {
		return workspace.Block{}, fmt.Errorf("%w: %q", workspace.ErrBlockNotFound, blockID)
	}
	return a.store.EditBlock(loc.WorkspaceID, loc.PageID, blockID, fn)
}
