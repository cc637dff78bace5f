package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sqs-flush/internal/domain/entity"
	"sqs-flush/internal/domain/gateway/lock"
	"sqs-flush/internal/domain/model"
	"sqs-flush/internal/domain/usecase/flush"
	"sqs-flush/pkg/log"
	"sqs-flush/pkg/msg"

	"github.com/google/uuid"
)

// minRefreshInterval bounds the refresh ticker for very short lock TTLs
const minRefreshInterval = 100 * time.Millisecond

// Runner is the drain pass shared by the CLI and the Lambda handler
type Runner struct {
	useCase  flush.UseCase
	runLock  lock.RunLock
	queueURL string
	newRunID func() string
	// refreshEvery overrides the TTL/3 lock refresh interval when > 0
	refreshEvery time.Duration
}

// NewRunner wraps useCase. runLock may be nil when runs are not coordinated.
func NewRunner(useCase flush.UseCase, runLock lock.RunLock, queueURL string) *Runner {
	return &Runner{
		useCase:  useCase,
		runLock:  runLock,
		queueURL: queueURL,
		newRunID: uuid.NewString,
	}
}

// Run executes exactly one drain pass. While the pass runs the lock is
// refreshed; losing it cancels the pass with model.ErrLockLost.
func (r *Runner) Run(ctx context.Context) (entity.RunReport, error) {
	runID := r.newRunID()
	log.Infow(msg.GetMessage("runner.start", runID), "run_id", runID, "queue_url", r.queueURL)

	flushCtx := ctx
	if r.runLock != nil {
		if err := r.runLock.Acquire(ctx); err != nil {
			if errors.Is(err, model.ErrRunInProgress) {
				log.Warnw(msg.GetMessage("runner.lock-busy", r.queueURL), "run_id", runID, "error", err)
			} else {
				log.Errorw(msg.GetMessage("runner.failed", runID), "run_id", runID, "error", err)
			}
			return entity.RunReport{}, err
		}
		log.Infow(msg.GetMessage("runner.lock-acquired", r.queueURL), "run_id", runID)

		defer func() {
			// release even when ctx was cancelled mid-run
			if err := r.runLock.Release(context.WithoutCancel(ctx)); err != nil {
				log.Warnw(msg.GetMessage("runner.lock-release-failed", r.queueURL), "run_id", runID, "error", err)
			}
		}()

		var stopRefresh func()
		flushCtx, stopRefresh = r.keepLock(ctx, runID)
		defer stopRefresh()
	}

	report, err := r.useCase.Flush(flushCtx)
	if err != nil {
		if cause := context.Cause(flushCtx); errors.Is(cause, model.ErrLockLost) {
			err = fmt.Errorf("%w: %w", cause, err)
		}
		log.Errorw(msg.GetMessage("runner.failed", runID),
			"run_id", runID,
			"queue_url", r.queueURL,
			"batches", report.Batches,
			"processed_messages", report.ProcessedMessages,
			"error", err)
		return report, err
	}

	log.Infow(msg.GetMessage("runner.end", runID),
		"run_id", runID,
		"queue_url", r.queueURL,
		"queue_size", report.QueueSize,
		"batches", report.Batches,
		"processed_messages", report.ProcessedMessages,
		"avg_batch_size", report.AvgBatchSize)
	return report, nil
}

// keepLock refreshes the run lock until the returned stop function is called.
// A failed refresh cancels the returned context with the refresh error as cause.
func (r *Runner) keepLock(ctx context.Context, runID string) (context.Context, func()) {
	interval := r.refreshEvery
	if interval <= 0 {
		interval = max(r.runLock.TTL()/3, minRefreshInterval)
	}

	lockCtx, cancel := context.WithCancelCause(ctx)
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-lockCtx.Done():
				return
			case <-ticker.C:
				if err := r.runLock.Refresh(lockCtx); err != nil {
					if lockCtx.Err() != nil {
						return
					}
					if !errors.Is(err, model.ErrLockLost) {
						err = fmt.Errorf("%w: %w", model.ErrLockLost, err)
					}
					log.Errorw(msg.GetMessage("runner.lock-lost", r.queueURL), "run_id", runID, "error", err)
					cancel(err)
					return
				}
				log.Debugw(msg.GetMessage("runner.lock-refreshed", r.queueURL), "run_id", runID)
			}
		}
	}()

	return lockCtx, func() {
		close(done)
		<-stopped
		cancel(nil)
	}
}
