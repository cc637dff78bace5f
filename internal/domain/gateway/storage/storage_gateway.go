package storage

import (
	"context"

	"sqs-flush/internal/domain/entity"
)

// Gateway writes archive objects. Put fails with model.ErrStorageWrite.
type Gateway interface {
	Put(ctx context.Context, object entity.ArchiveObject) error
}
