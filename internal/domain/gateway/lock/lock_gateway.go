package lock

import (
	"context"
	"time"
)

// RunLock keeps two drain passes on the same queue from overlapping.
// Acquire fails with model.ErrRunInProgress when another holder has it.
// The lock expires after TTL unless Refresh is called in time.
type RunLock interface {
	Acquire(ctx context.Context) error
	Refresh(ctx context.Context) error
	Release(ctx context.Context) error
	TTL() time.Duration
}
