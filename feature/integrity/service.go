package integrity

import (
	"context"
	"fmt"

	"sales-history/core/reconcile"
	"sales-history/core/storage"
	"sales-history/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the collaborators the checks inspect.
type Deps struct {
	// Client is the object storage client. Nil disables the storage check.
	Client storage.Client
	Bucket string
	// Prefix is the archive object prefix.
	Prefix            string
	Sources           reconcile.SourcesConfig
	ExtensionRequired bool
	Store             reconcile.History
	Schema            *reconcile.Schema
	// DB is only needed when the store is the sql backend.
	DB *gorm.DB
}

// Service handles integrity checks.
type Service struct {
	deps   Deps
	logger *zap.Logger
}

// NewService creates a new integrity service.
func NewService(deps Deps, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		deps:   deps,
		logger: logger,
	}
}

// CheckSources reports on the input tables.
func (s *Service) CheckSources() *checks.SourcesReport {
	return checks.CheckSources(s.deps.Sources, s.deps.ExtensionRequired)
}

// CheckHistory compares the history store layout with the output schema.
func (s *Service) CheckHistory() (*checks.HistoryReport, error) {
	return checks.CheckHistory(s.deps.Store, s.deps.Schema, s.deps.DB)
}

// CheckStorage reports on the archive bucket.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	if s.deps.Client == nil {
		return nil, fmt.Errorf("storage client is not configured")
	}
	return checks.CheckStorage(ctx, s.deps.Client, s.deps.Bucket, s.deps.Prefix)
}

// FixStorage creates the archive bucket.
func (s *Service) FixStorage(ctx context.Context) error {
	if s.deps.Client == nil {
		return fmt.Errorf("storage client is not configured")
	}
	return checks.FixStorage(ctx, s.deps.Client, s.deps.Bucket, s.logger)
}

// CheckAll runs every check. Failing checks are reported inline.
func (s *Service) CheckAll(ctx context.Context) map[string]interface{} {
	report := make(map[string]interface{})

	report["sources"] = s.CheckSources()

	if hist, err := s.CheckHistory(); err != nil {
		report["history"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["history"] = hist
	}

	if st, err := s.CheckStorage(ctx); err != nil {
		report["storage"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["storage"] = st
	}

	return report
}
