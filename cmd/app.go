package cmd

import (
	"errors"
	"fmt"

	"sales-history/core/config"
	"sales-history/core/database"
	"sales-history/core/dbf"
	"sales-history/core/events"
	"sales-history/core/history"
	"sales-history/core/keyindex"
	"sales-history/core/logger"
	"sales-history/core/metrics"
	"sales-history/core/reconcile"
	"sales-history/core/storage"
	"sales-history/feature/integrity"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds everything a command needs, built once from configuration.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	opts    *reconcile.Options
	store   reconcile.History
	engine  *reconcile.Engine
	storage storage.Client
	metrics *metrics.Registry
	closers []func() error
}

// bootstrap loads configuration and wires the engine with its optional key cache
// and hooks. On failure everything opened so far is closed again.
func bootstrap() (_ *app, err error) {
	// 1. Load Configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Initialize Logger
	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logg, metrics: metrics.NewRegistry()}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	opts, err := reconcile.NewOptions(cfg.Reconcile)
	if err != nil {
		return nil, err
	}
	a.opts = opts

	// 3. Connect to Database (only the sql history lives there)
	if cfg.History.Driver == "sql" {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("database connection required: %w", err)
		}
		a.db = db
		logg.Info("Connected to history database", zap.String("driver", cfg.Database.Driver))
	}

	a.store, err = history.New(cfg.History, opts.Schema, a.db)
	if err != nil {
		return nil, err
	}

	tables, err := dbf.NewTables(cfg.Reconcile.Encoding)
	if err != nil {
		return nil, err
	}

	// 4. Initialize Storage
	a.storage, err = storage.NewClient(cfg.Storage)
	if err != nil {
		logg.Warn("Storage client unavailable", zap.Error(err))
		a.storage = nil
	}

	var engineOpts []reconcile.EngineOption
	switch cfg.Reconcile.KeyCache {
	case "memory":
		engineOpts = append(engineOpts, reconcile.WithKeyCache(reconcile.NewMemoryKeyCache()))
	case "pebble":
		cache, err := keyindex.Open(cfg.Reconcile.KeyCacheDir, opts.KeyShape)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, cache.Close)
		engineOpts = append(engineOpts, reconcile.WithKeyCache(cache))
	}

	if cfg.Storage.Archive.Enabled {
		fb, ok := a.store.(history.FileBacked)
		switch {
		case !ok:
			logg.Warn("Archiving needs a file-backed history store; disabled", zap.String("driver", cfg.History.Driver))
		case a.storage == nil:
			logg.Warn("Archiving needs a storage client; disabled")
		default:
			engineOpts = append(engineOpts, reconcile.WithHook(
				history.NewArchiver(a.storage, cfg.Storage.Bucket, cfg.Storage.Archive.Prefix, fb, logg)))
		}
	}

	if cfg.Events.Enabled {
		pub, err := events.NewPublisher(cfg.Events, opts.Schema, opts.KeyShape)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pub.Close)
		engineOpts = append(engineOpts, reconcile.WithHook(pub))
	}

	a.engine = reconcile.NewEngine(opts, tables, a.store, logg, engineOpts...)
	return a, nil
}

// integrityDeps returns what the integrity checks inspect.
func (a *app) integrityDeps() integrity.Deps {
	return integrity.Deps{
		Client:            a.storage,
		Bucket:            a.cfg.Storage.Bucket,
		Prefix:            a.cfg.Storage.Archive.Prefix,
		Sources:           a.opts.Sources,
		ExtensionRequired: a.opts.ExtensionRequired,
		Store:             a.store,
		Schema:            a.opts.Schema,
		DB:                a.db,
	}
}

// Close releases the key cache and the event writer.
func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	_ = a.logger.Sync()
	return errors.Join(errs...)
}
