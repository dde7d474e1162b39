package history

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"

	"sales-history/core/dbf"
	"sales-history/core/reconcile"
)

// DBFStore is a history store kept in a dBASE file.
type DBFStore struct {
	mu     sync.Mutex
	path   string
	schema *reconcile.Schema
	cp     dbf.Codepage
}

// NewDBFStore creates a store for the file at path. The file is created lazily by
// EnsureSchema.
func NewDBFStore(path string, schema *reconcile.Schema, encoding string) (*DBFStore, error) {
	cp, err := dbf.LookupCodepage(encoding)
	if err != nil {
		return nil, err
	}
	return &DBFStore{path: path, schema: schema, cp: cp}, nil
}

// Path implements FileBacked.
func (s *DBFStore) Path() string {
	return s.path
}

// Codepage implements reconcile.Encoded.
func (s *DBFStore) Codepage() dbf.Codepage {
	return s.cp
}

// Exists reports whether the history file is present.
func (s *DBFStore) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// EnsureSchema creates an empty history file if none exists.
func (s *DBFStore) EnsureSchema(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Exists() {
		return nil
	}
	err := dbf.Create(s.path, s.schema.DBFFields(), s.cp)
	if errors.Is(err, os.ErrExist) {
		return nil
	}
	return err
}

// Count returns the number of rows recorded in the file header.
func (s *DBFStore) Count(_ context.Context) (int, error) {
	h, err := dbf.ReadHeader(s.path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return h.Count, nil
}

// ExistingKeys streams the file and collects the dedup keys.
func (s *DBFStore) ExistingKeys(ctx context.Context, shape reconcile.KeyShape) (reconcile.KeySet, error) {
	keys := make(reconcile.KeySet)
	err := s.scan(ctx, func(rec dbf.Record) {
		keys.Add(reconcile.KeyOf(rec, s.schema, shape))
	})
	return keys, err
}

// Append writes records at the end of the file in one write.
func (s *DBFStore) Append(_ context.Context, records []dbf.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dbf.Append(s.path, s.cp, records)
}

// AllRecords reads the whole history. A missing file yields no records.
func (s *DBFStore) AllRecords(ctx context.Context) ([]dbf.Record, error) {
	out := []dbf.Record{}
	err := s.scan(ctx, func(rec dbf.Record) {
		out = append(out, rec)
	})
	return out, err
}

// Header returns the file header, or an os.IsNotExist error.
func (s *DBFStore) Header() (*dbf.Header, error) {
	return dbf.ReadHeader(s.path)
}

func (s *DBFStore) scan(ctx context.Context, fn func(dbf.Record)) error {
	r, err := dbf.Open(s.path, s.cp)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer r.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fn(rec)
	}
}
