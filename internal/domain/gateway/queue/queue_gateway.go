package queue

import (
	"context"
	"time"

	"sqs-flush/internal/domain/entity"
)

// Gateway is the queue service seen by a drain pass.
//
// ApproximateSize fails with model.ErrQueueNotFound when the queue does not
// exist and with model.ErrQueueQuery otherwise. Receive returns an empty slice
// when nothing is visible. Delete fails with model.ErrQueueDelete.
type Gateway interface {
	ApproximateSize(ctx context.Context) (int, error)
	Receive(ctx context.Context, maxMessages int32, visibility time.Duration) ([]entity.Message, error)
	Delete(ctx context.Context, receiptHandle string) error
}
