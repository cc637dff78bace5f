package aws

import (
	"context"
	"fmt"

	"sqs-flush/internal/domain/entity"
	"sqs-flush/internal/domain/gateway/storage"
	"sqs-flush/internal/domain/model"
	s3lib "sqs-flush/pkg/s3"
)

// S3StorageAdapter adapts the pkg/s3.Uploader to the domain storage.Gateway interface
type S3StorageAdapter struct {
	uploader *s3lib.Uploader
}

func NewS3StorageAdapter(s3Client s3lib.S3Client, bucket string) storage.Gateway {
	return &S3StorageAdapter{
		uploader: s3lib.NewUploader(s3Client, bucket),
	}
}

func (adapter *S3StorageAdapter) Put(ctx context.Context, object entity.ArchiveObject) error {
	if err := adapter.uploader.PutObject(ctx, object.Key, object.Body, object.ContentType); err != nil {
		return fmt.Errorf("%w: %w", model.ErrStorageWrite, err)
	}
	return nil
}
