package checks

import (
	"context"
	"fmt"

	"sales-history/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// StorageReport is the result of an archive bucket check.
type StorageReport struct {
	Bucket   string   `json:"bucket"`
	Exists   bool     `json:"exists"`
	Prefix   string   `json:"prefix"`
	Archives []string `json:"archives"`
}

// CheckStorage reports whether the archive bucket exists and which archives it holds
// under prefix.
func CheckStorage(ctx context.Context, client storage.Client, bucket, prefix string) (*StorageReport, error) {
	report := &StorageReport{Bucket: bucket, Prefix: prefix, Archives: []string{}}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if report.Exists = exists; !exists {
		return report, nil
	}

	opts := minio.ListObjectsOptions{
		Prefix:    prefix + "/",
		Recursive: true,
	}
	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list archives: %w", obj.Err)
		}
		report.Archives = append(report.Archives, obj.Key)
	}

	return report, nil
}

// FixStorage creates the archive bucket.
func FixStorage(ctx context.Context, client storage.Client, bucket string, logger *zap.Logger) error {
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		logger.Error("Failed to create bucket", zap.String("bucket", bucket), zap.Error(err))
		return err
	}
	logger.Info("Created missing bucket", zap.String("bucket", bucket))
	return nil
}
