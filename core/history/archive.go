package history

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"sales-history/core/dbf"
	"sales-history/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Archiver uploads a file-backed store to object storage after each append.
type Archiver struct {
	client storage.Client
	bucket string
	prefix string
	store  FileBacked
	logger *zap.Logger
}

// NewArchiver creates an archiver for store.
func NewArchiver(client storage.Client, bucket, prefix string, store FileBacked, logger *zap.Logger) *Archiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archiver{client: client, bucket: bucket, prefix: prefix, store: store, logger: logger}
}

// Name implements reconcile.Hook.
func (a *Archiver) Name() string {
	return "archive"
}

// ObjectName is the key the store is archived under.
func (a *Archiver) ObjectName() string {
	return path.Join(a.prefix, filepath.Base(a.store.Path()))
}

// AfterAppend implements reconcile.Hook.
func (a *Archiver) AfterAppend(ctx context.Context, _ []dbf.Record) error {
	return a.Upload(ctx)
}

// Upload copies the current store file to the bucket.
func (a *Archiver) Upload(ctx context.Context) error {
	f, err := os.Open(a.store.Path())
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat history file: %w", err)
	}

	object := a.ObjectName()
	_, err = a.client.PutObject(ctx, a.bucket, object, f, info.Size(), minio.PutObjectOptions{
		ContentType: "application/x-dbase",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", object, err)
	}

	a.logger.Info("History archived", zap.String("bucket", a.bucket), zap.String("object", object), zap.Int64("size", info.Size()))
	return nil
}
