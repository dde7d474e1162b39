package reconcile

import (
	"context"
	"errors"
	"os"
	"time"

	"sales-history/core/dbf"

	"go.uber.org/zap"
)

// Engine runs reconciliation passes from the source tables into a history store.
type Engine struct {
	opts    *Options
	tables  TableReader
	history History
	logger  *zap.Logger
	cache   KeyCache
	hooks   []Hook
}

// EngineOption configures optional engine collaborators.
type EngineOption func(*Engine)

// WithKeyCache makes the engine reuse stored keys between passes.
func WithKeyCache(c KeyCache) EngineOption {
	return func(e *Engine) { e.cache = c }
}

// WithHook registers a hook called after every pass that appended records.
func WithHook(h Hook) EngineOption {
	return func(e *Engine) { e.hooks = append(e.hooks, h) }
}

// NewEngine creates an engine. A nil logger disables logging. When opts carries no
// store codepage it is taken from the history store, if the store has one.
func NewEngine(opts *Options, tables TableReader, history History, logger *zap.Logger, options ...EngineOption) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.StoreCodepage == nil {
		if enc, ok := history.(Encoded); ok && enc.Codepage() != nil {
			resolved := *opts
			resolved.StoreCodepage = enc.Codepage()
			opts = &resolved
		}
	}
	e := &Engine{opts: opts, tables: tables, history: history, logger: logger}
	for _, o := range options {
		o(e)
	}
	return e
}

// Options returns the resolved engine options.
func (e *Engine) Options() *Options {
	return e.opts
}

// History returns the store the engine appends to.
func (e *Engine) History() History {
	return e.history
}

// Run performs one reconciliation pass. Records already present in the store are
// never written again, so running a pass twice over unchanged sources appends nothing.
// Errors are *Error values; use KindOf to classify them.
func (e *Engine) Run(ctx context.Context) (res *Result, err error) {
	started := time.Now()
	defer func() {
		if v := recover(); v != nil {
			res, err = nil, recovered(v)
			e.logger.Error("Reconciliation pass panicked", zap.Any("panic", v))
		}
	}()

	if err := e.checkSources(); err != nil {
		return nil, err
	}

	if err := e.history.EnsureSchema(ctx); err != nil {
		return nil, storeFailure("ensure history schema", err)
	}

	count, err := e.history.Count(ctx)
	if err != nil {
		return nil, storeFailure("count history", err)
	}

	seen, cached, err := e.existingKeys(ctx, count)
	if err != nil {
		return nil, err
	}

	headers, products, extensions, err := e.loadIndexes(ctx)
	if err != nil {
		return nil, err
	}

	merger := NewMerger(e.opts, headers, products, extensions, seen, e.opts.Today())
	var fresh []dbf.Record
	var keys []Key
	cols := e.opts.Columns
	err = e.tables.Stream(ctx, e.opts.Sources.Detail, func(line dbf.Record) error {
		rec, ok := merger.Merge(line)
		if !ok {
			return nil
		}
		fresh = append(fresh, rec)
		keys = append(keys, candidateKey(line[cols.DetailTicket], line[cols.DetailProduct], e.opts.Schema, e.opts.KeyShape, e.opts.StoreCodepage))
		return nil
	})
	if err != nil {
		return nil, e.readFailure("read detail", e.opts.Sources.Detail, err)
	}

	if len(fresh) > 0 {
		if err := e.history.Append(ctx, fresh); err != nil {
			return nil, storeFailure("append history", err)
		}
	}
	total := count + len(fresh)

	e.updateCache(ctx, cached, merger.Seen(), keys, total)
	e.runHooks(ctx, fresh)

	res = &Result{
		Appended:  len(fresh),
		Total:     total,
		Stats:     merger.Stats,
		StartedAt: started,
	}

	switch e.opts.Summary {
	case SummaryNew:
		res.Records = fresh
	default:
		all, err := e.history.AllRecords(ctx)
		if err != nil {
			return nil, storeFailure("read history", err)
		}
		res.Records = all
		res.Total = len(all)
	}
	if res.Records == nil {
		res.Records = []dbf.Record{}
	}
	res.Duration = time.Since(started)

	e.logger.Info("Reconciliation pass finished",
		zap.Int("appended", res.Appended),
		zap.Int("total", res.Total),
		zap.Int("scanned", res.Stats.Scanned),
		zap.Int("duplicate", res.Stats.Duplicate),
		zap.Int("orphan", res.Stats.Orphan),
		zap.Int("bad_date", res.Stats.BadDate),
		zap.Int("out_of_window", res.Stats.OutOfWindow),
		zap.Int("overflow", res.Stats.Overflow),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}

// checkSources fails fast before anything is written.
func (e *Engine) checkSources() error {
	required := []string{e.opts.Sources.Detail, e.opts.Sources.Header, e.opts.Sources.Product}
	if e.opts.ExtensionRequired {
		required = append(required, e.opts.Sources.Extension)
	}
	for _, source := range required {
		if !e.tables.Exists(source) {
			e.logger.Warn("Source table missing", zap.String("source", source))
			return sourceMissing("check sources", source)
		}
	}
	return nil
}

// existingKeys returns the stored keys, from the cache when it is current.
// The returned flag reports whether the cache was current.
func (e *Engine) existingKeys(ctx context.Context, count int) (KeySet, bool, error) {
	if e.cache != nil {
		keys, ok, err := e.cache.Get(ctx, count)
		if err != nil {
			e.logger.Warn("Key cache read failed, scanning history", zap.Error(err))
		} else if ok {
			e.logger.Debug("Using cached history keys", zap.Int("keys", len(keys)))
			return keys, true, nil
		}
	}

	keys, err := e.history.ExistingKeys(ctx, e.opts.KeyShape)
	if err != nil {
		return nil, false, storeFailure("scan history keys", err)
	}
	return keys, false, nil
}

// loadIndexes reads the three reference tables one after another.
func (e *Engine) loadIndexes(ctx context.Context) (headers, products, extensions map[string]dbf.Record, err error) {
	cols := e.opts.Columns
	src := e.opts.Sources

	rows, err := e.tables.Load(ctx, src.Header)
	if err != nil {
		return nil, nil, nil, e.readFailure("read header", src.Header, err)
	}
	headers = BuildIndex(rows, cols.HeaderTicket)

	if rows, err = e.tables.Load(ctx, src.Product); err != nil {
		return nil, nil, nil, e.readFailure("read product", src.Product, err)
	}
	products = BuildIndex(rows, cols.ProductKey)

	if !e.opts.ExtensionRequired && !e.tables.Exists(src.Extension) {
		e.logger.Debug("Extension table absent, enrichment fields stay empty", zap.String("source", src.Extension))
		return headers, products, map[string]dbf.Record{}, nil
	}
	if rows, err = e.tables.Load(ctx, src.Extension); err != nil {
		return nil, nil, nil, e.readFailure("read extension", src.Extension, err)
	}
	return headers, products, BuildIndex(rows, cols.ExtensionKey), nil
}

func (e *Engine) readFailure(op, source string, err error) error {
	var re *Error
	if errors.As(err, &re) {
		return err
	}
	if os.IsNotExist(err) || errors.Is(err, os.ErrNotExist) {
		return sourceMissing(op, source)
	}
	return unexpected(op, source, err)
}

// updateCache keeps the key cache in step with the store. Failures only cost a
// full scan on the next pass.
func (e *Engine) updateCache(ctx context.Context, cached bool, seen KeySet, keys []Key, total int) {
	if e.cache == nil {
		return
	}
	var err error
	if cached {
		err = e.cache.Add(ctx, keys, total)
	} else {
		err = e.cache.Put(ctx, seen, total)
	}
	if err != nil {
		e.logger.Warn("Key cache update failed", zap.Error(err))
	}
}

func (e *Engine) runHooks(ctx context.Context, records []dbf.Record) {
	if len(records) == 0 {
		return
	}
	for _, h := range e.hooks {
		if err := h.AfterAppend(ctx, records); err != nil {
			e.logger.Warn("Post-append hook failed", zap.String("hook", h.Name()), zap.Error(err))
		}
	}
}
