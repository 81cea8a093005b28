package main

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-kpitiles/components/kpi"
	"github.com/goliatone/go-kpitiles/pkg/config"
	"github.com/goliatone/go-kpitiles/pkg/kvstore"
)

// env is the runtime assembled from configuration and flags.
type env struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    kpi.KeyValueStore
	file     *kvstore.File
	scope    kpi.StoreScoper
	registry *kpi.Registry
	closers  []func() error
}

func (g *Globals) load() (*env, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.Backend != "" {
		cfg.Storage.Backend = g.Backend
	}
	if g.Store != "" {
		cfg.Storage.Path = g.Store
	}
	if g.Manifest != "" {
		cfg.Catalogs.Manifest = g.Manifest
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := g.buildLogger(cfg)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, logger: logger, scope: kpi.ScopeByUser}
	if err := e.openStore(); err != nil {
		return nil, err
	}
	if err := e.loadCatalogs(); err != nil {
		e.close()
		return nil, err
	}
	return e, nil
}

func (g *Globals) buildLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	if g.Verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("kpictl: build logger: %w", err)
	}
	return logger, nil
}

func (e *env) openStore() error {
	switch e.cfg.Storage.Backend {
	case config.BackendMemory:
		e.store = kvstore.NewMemory()
	case config.BackendFile:
		file, err := kvstore.OpenFile(e.cfg.Storage.Path)
		if err != nil {
			return err
		}
		e.store = file
		e.file = file
	case config.BackendSQLite:
		db, err := kvstore.OpenSQLite(e.cfg.Storage.Path)
		if err != nil {
			return err
		}
		e.store = db
		e.scope = func(_ kpi.KeyValueStore, viewer kpi.ViewerContext) kpi.KeyValueStore {
			return db.Scoped(kpi.UserPrefix(viewer.UserID))
		}
		e.closers = append(e.closers, db.Close)
	default:
		return fmt.Errorf("kpictl: unsupported backend %q", e.cfg.Storage.Backend)
	}
	e.logger.Debug("storage opened",
		zap.String("backend", e.cfg.Storage.Backend),
		zap.String("path", e.cfg.Storage.Path),
	)
	return nil
}

func (e *env) loadCatalogs() error {
	if e.cfg.Catalogs.SkipDefaults {
		e.registry = kpi.NewEmptyRegistry()
	} else {
		registry, err := kpi.LoadRegistry()
		if err != nil {
			return err
		}
		e.registry = registry
	}
	if e.cfg.Catalogs.Manifest == "" {
		return nil
	}
	doc, err := e.registry.LoadManifestFile(e.cfg.Catalogs.Manifest)
	if err != nil {
		return err
	}
	e.logger.Debug("catalog manifest loaded",
		zap.String("path", e.cfg.Catalogs.Manifest),
		zap.Int("reports", len(doc.Reports)),
	)
	return nil
}

func (e *env) namespaces() kpi.Namespaces {
	return kpi.Namespaces{Visibility: e.cfg.Keys.Visibility, Order: e.cfg.Keys.Order}
}

func (e *env) service(opts kpi.Options) *kpi.Service {
	opts.Store = e.store
	opts.Scope = e.scope
	opts.Catalogs = e.registry
	opts.Namespaces = e.namespaces()
	opts.Logger = e.logger
	return kpi.NewService(opts)
}

func (e *env) close() error {
	var errs []error
	for _, fn := range e.closers {
		errs = append(errs, fn())
	}
	_ = e.logger.Sync()
	return errors.Join(errs...)
}
