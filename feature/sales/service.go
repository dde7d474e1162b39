package sales

import (
	"context"
	"errors"
	"sync"
	"time"

	"sales-history/core/dbf"
	"sales-history/core/history"
	"sales-history/core/metrics"
	"sales-history/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrNotDownloadable is returned when the store has no file to hand out.
var ErrNotDownloadable = errors.New("history file does not exist yet")

// Runner runs a reconciliation pass.
type Runner interface {
	Run(ctx context.Context) (*reconcile.Result, error)
}

// Status is the static capability description served at the root.
type Status struct {
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
}

// HistoryView is the stored history as served to clients.
type HistoryView struct {
	Total int              `json:"total"`
	Data  []map[string]any `json:"data"`
}

// RunSummary is the outcome of a successful pass as served to clients.
type RunSummary struct {
	Appended int                  `json:"appended"`
	Total    int                  `json:"total"`
	Records  []map[string]any     `json:"records"`
	Stats    reconcile.MergeStats `json:"stats"`
	Duration string               `json:"duration"`
}

// Service serves the sales history operations.
type Service struct {
	runner  Runner
	store   reconcile.History
	schema  *reconcile.Schema
	metrics *metrics.Registry
	logger  *zap.Logger

	mu    sync.Mutex
	views singleflight.Group
}

// NewService creates a sales service. metrics may be nil.
func NewService(runner Runner, store reconcile.History, schema *reconcile.Schema, reg *metrics.Registry, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{runner: runner, store: store, schema: schema, metrics: reg, logger: logger}
}

// Status returns what the service offers.
func (s *Service) Status() Status {
	return Status{
		Message: "Sales history service is running",
		Endpoints: map[string]string{
			"/historico":                "Returns the stored history",
			"/reporte":                  "Appends new sales to the history",
			"/descargar/historico":      "Downloads the history file",
			"/descargar/historico.xlsx": "Downloads the history as an Excel workbook",
		},
	}
}

// Run performs one pass. Passes in this process never overlap.
func (s *Service) Run(ctx context.Context) (*RunSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	started := time.Now()
	res, err := s.runner.Run(ctx)
	if s.metrics != nil {
		s.metrics.ObservePass(res, err, time.Since(started))
	}
	if err != nil {
		return nil, err
	}

	return &RunSummary{
		Appended: res.Appended,
		Total:    res.Total,
		Records:  present(res.Records),
		Stats:    res.Stats,
		Duration: res.Duration.String(),
	}, nil
}

// History returns the stored records. Concurrent callers share one read.
func (s *Service) History(ctx context.Context) (*HistoryView, error) {
	v, err, _ := s.views.Do("history", func() (interface{}, error) {
		records, err := s.records(ctx)
		if err != nil {
			return nil, err
		}
		return &HistoryView{Total: len(records), Data: present(records)}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*HistoryView), nil
}

// records reads the raw history; a store that does not exist yet is empty.
func (s *Service) records(ctx context.Context) ([]dbf.Record, error) {
	if !s.store.Exists() {
		return []dbf.Record{}, nil
	}
	return s.store.AllRecords(ctx)
}

// DownloadPath returns the history file path for file-backed stores.
func (s *Service) DownloadPath() (string, error) {
	fb, ok := s.store.(history.FileBacked)
	if !ok || !s.store.Exists() {
		return "", ErrNotDownloadable
	}
	return fb.Path(), nil
}

// present converts records for JSON output: dates become YYYY-MM-DD.
func present(records []dbf.Record) []map[string]any {
	out := make([]map[string]any, len(records))
	for i, rec := range records {
		row := make(map[string]any, len(rec))
		for k, v := range rec {
			if t, ok := v.(time.Time); ok {
				v = t.Format("2006-01-02")
			}
			row[k] = v
		}
		out[i] = row
	}
	return out
}
