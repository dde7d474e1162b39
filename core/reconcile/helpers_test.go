package reconcile

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"sales-history/core/dbf"

	"github.com/stretchr/testify/require"
)

const (
	detailSpec    = "NUMCHK C(10);PRONUM C(10);QTYPRO N(6,0);DESPRO C(50);PRIPRO N(12,2)"
	headerSpec    = "NUMCHK C(10);FECCHK D;CUSNAM C(50);TYPPAG C(5)"
	productSpec   = "PRONUM C(10);ULCOSREP N(12,2)"
	extensionSpec = "PRONUM C(10);EERR C(20);CATEGORIA C(20);SUB_CAT C(20);DESCRI C(50)"
)

var cp850 = dbf.MustCodepage("cp850")

// day builds a UTC calendar date.
func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// writeTable creates a source table with the given layout and rows.
func writeTable(t *testing.T, path, spec string, rows ...dbf.Record) {
	t.Helper()
	fields, err := dbf.ParseFieldSpecs(spec)
	require.NoError(t, err)
	require.NoError(t, dbf.Create(path, fields, cp850))
	if len(rows) > 0 {
		require.NoError(t, dbf.Append(path, cp850, rows))
	}
}

type fixture struct {
	dir    string
	opts   *Options
	tables *dbf.Tables
}

// newFixture lays out empty source tables in a temp dir and resolves default options
// with "today" pinned to 2025-03-20.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Sources = SourcesConfig{
		Detail:    filepath.Join(dir, "ZETH51T.DBF"),
		Header:    filepath.Join(dir, "ZETH50T.DBF"),
		Product:   filepath.Join(dir, "ZETH70.DBF"),
		Extension: filepath.Join(dir, "ZETH70_EXT.DBF"),
	}
	opts, err := NewOptions(cfg)
	require.NoError(t, err)
	opts.Now = func() time.Time { return time.Date(2025, 3, 20, 15, 30, 0, 0, time.UTC) }

	tables, err := dbf.NewTables("cp850")
	require.NoError(t, err)

	return &fixture{dir: dir, opts: opts, tables: tables}
}

func (f *fixture) headers(t *testing.T, rows ...dbf.Record) {
	writeTable(t, f.opts.Sources.Header, headerSpec, rows...)
}

func (f *fixture) products(t *testing.T, rows ...dbf.Record) {
	writeTable(t, f.opts.Sources.Product, productSpec, rows...)
}

func (f *fixture) extensions(t *testing.T, rows ...dbf.Record) {
	writeTable(t, f.opts.Sources.Extension, extensionSpec, rows...)
}

func (f *fixture) details(t *testing.T, rows ...dbf.Record) {
	writeTable(t, f.opts.Sources.Detail, detailSpec, rows...)
}

// memHistory is an in-memory History.
type memHistory struct {
	mu        sync.Mutex
	schema    *Schema
	created   bool
	records   []dbf.Record
	scans     int
	appendErr error
	countErr  error
}

func newMemHistory(schema *Schema) *memHistory {
	return &memHistory{schema: schema}
}

func (h *memHistory) EnsureSchema(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.created = true
	return nil
}

func (h *memHistory) Exists() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.created
}

func (h *memHistory) Count(context.Context) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.countErr != nil {
		return 0, h.countErr
	}
	return len(h.records), nil
}

func (h *memHistory) ExistingKeys(_ context.Context, shape KeyShape) (KeySet, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scans++
	return KeySetFromRecords(h.records, h.schema, shape), nil
}

func (h *memHistory) Append(_ context.Context, records []dbf.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.appendErr != nil {
		return h.appendErr
	}
	h.records = append(h.records, records...)
	return nil
}

func (h *memHistory) AllRecords(context.Context) ([]dbf.Record, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]dbf.Record, len(h.records))
	copy(out, h.records)
	return out, nil
}

// recordingHook remembers what it was called with.
type recordingHook struct {
	calls [][]dbf.Record
	err   error
}

func (h *recordingHook) Name() string { return "recording" }

func (h *recordingHook) AfterAppend(_ context.Context, records []dbf.Record) error {
	h.calls = append(h.calls, records)
	return h.err
}

var errBoom = errors.New("boom")
