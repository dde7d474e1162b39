package sales

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"sales-history/core/dbf"
	"sales-history/core/history"
	"sales-history/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(runner Runner, store reconcile.History) *fiber.App {
	app := fiber.New()
	svc := NewService(runner, store, reconcile.DefaultSchema(), nil, zap.NewNop())
	NewHandler(svc).RegisterRoutes(app)
	return app
}

func decode(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

// writeSources lays out the T1/P1 sale in dir.
func writeSources(t *testing.T, dir string) reconcile.SourcesConfig {
	t.Helper()
	cp := dbf.MustCodepage("cp850")
	src := reconcile.SourcesConfig{
		Detail:    filepath.Join(dir, "ZETH51T.DBF"),
		Header:    filepath.Join(dir, "ZETH50T.DBF"),
		Product:   filepath.Join(dir, "ZETH70.DBF"),
		Extension: filepath.Join(dir, "ZETH70_EXT.DBF"),
	}
	tables := []struct {
		path, spec string
		row        dbf.Record
	}{
		{src.Header, "NUMCHK C(10);FECCHK D;CUSNAM C(50);TYPPAG C(5)", dbf.Record{"NUMCHK": "T1", "FECCHK": "20250315", "CUSNAM": "ACME", "TYPPAG": "CR"}},
		{src.Product, "PRONUM C(10);ULCOSREP N(12,2)", dbf.Record{"PRONUM": "P1", "ULCOSREP": 10.0}},
		{src.Detail, "NUMCHK C(10);PRONUM C(10);QTYPRO N(6,0);DESPRO C(50);PRIPRO N(12,2)", dbf.Record{"NUMCHK": "T1", "PRONUM": "P1", "QTYPRO": 3, "PRIPRO": 5.0}},
	}
	for _, tbl := range tables {
		fields, err := dbf.ParseFieldSpecs(tbl.spec)
		require.NoError(t, err)
		require.NoError(t, dbf.Create(tbl.path, fields, cp))
		require.NoError(t, dbf.Append(tbl.path, cp, []dbf.Record{tbl.row}))
	}
	return src
}

// newEngine wires a real engine over the sources in dir.
func newEngine(t *testing.T, src reconcile.SourcesConfig, store reconcile.History) *reconcile.Engine {
	t.Helper()
	cfg := reconcile.DefaultConfig()
	cfg.Sources = src
	opts, err := reconcile.NewOptions(cfg)
	require.NoError(t, err)
	opts.Now = func() time.Time { return time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC) }
	tables, err := dbf.NewTables("cp850")
	require.NoError(t, err)
	return reconcile.NewEngine(opts, tables, store, nil)
}

func TestHandleStatus(t *testing.T) {
	app := setupTestApp(&fakeRunner{}, &memStore{})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.NotEmpty(t, body["message"])
	assert.Contains(t, body["endpoints"], "/reporte")
}

func TestHandleHistory_Empty(t *testing.T) {
	app := setupTestApp(&fakeRunner{}, &memStore{})

	resp, err := app.Test(httptest.NewRequest("GET", "/historico", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.Equal(t, 0.0, body["total"])
	assert.Equal(t, []any{}, body["data"])
}

func TestHandleReport_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	src := writeSources(t, dir)
	store, err := history.NewDBFStore(filepath.Join(dir, "HISTORICO.DBF"), reconcile.DefaultSchema(), "cp850")
	require.NoError(t, err)
	app := setupTestApp(newEngine(t, src, store), store)

	resp, err := app.Test(httptest.NewRequest("GET", "/reporte", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.Equal(t, 1.0, body["appended"])
	assert.Equal(t, 1.0, body["total"])
	records := body["records"].([]any)
	require.Len(t, records, 1)
	rec := records[0].(map[string]any)
	assert.Equal(t, "T1", rec["N_TICKET"])
	assert.Equal(t, "2025-03-15", rec["FECHA"])
	assert.Equal(t, "CREDITO", rec["CONDICION"])
	assert.Equal(t, 10.0, rec["COST_UNIT"])

	// A second pass appends nothing.
	resp, err = app.Test(httptest.NewRequest("GET", "/reporte", nil))
	require.NoError(t, err)
	body = decode(t, resp.Body)
	assert.Equal(t, 0.0, body["appended"])
	assert.Equal(t, 1.0, body["total"])

	resp, err = app.Test(httptest.NewRequest("GET", "/historico", nil))
	require.NoError(t, err)
	body = decode(t, resp.Body)
	assert.Equal(t, 1.0, body["total"])

	resp, err = app.Test(httptest.NewRequest("GET", "/descargar/historico", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "HISTORICO.DBF")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	h, err := dbf.ReadHeader(store.Path())
	require.NoError(t, err)
	assert.Equal(t, 1, h.Count)
	assert.NotEmpty(t, raw)
}

func TestHandleReport_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"source missing", &reconcile.Error{Kind: reconcile.KindSourceMissing, Op: "open", Err: reconcile.ErrNotFound}, 404, "SourceMissing"},
		{"store failure", &reconcile.Error{Kind: reconcile.KindStoreWrite, Op: "append", Err: context.DeadlineExceeded}, 500, "StoreWriteFailure"},
		{"unclassified", io.ErrUnexpectedEOF, 500, "Unexpected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupTestApp(&fakeRunner{err: tt.err}, &memStore{})

			resp, err := app.Test(httptest.NewRequest("GET", "/reporte", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			body := decode(t, resp.Body)
			assert.Equal(t, tt.kind, body["kind"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandleDownload_NotAvailable(t *testing.T) {
	app := setupTestApp(&fakeRunner{}, &memStore{created: true})

	resp, err := app.Test(httptest.NewRequest("GET", "/descargar/historico", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
	assert.NotEmpty(t, decode(t, resp.Body)["error"])
}

func TestHandleExport(t *testing.T) {
	app := setupTestApp(&fakeRunner{}, dbfStore(t, sale()))

	resp, err := app.Test(httptest.NewRequest("GET", "/descargar/historico.xlsx", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, ExportContentType, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "historico.xlsx")
}
