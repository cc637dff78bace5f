package flush

import (
	"context"
	"errors"
	"time"

	"sqs-flush/internal/domain/entity"
	"sqs-flush/internal/domain/gateway/queue"
	"sqs-flush/internal/domain/gateway/storage"
	"sqs-flush/internal/domain/model"
	"sqs-flush/pkg/log"
	"sqs-flush/pkg/msg"
)

const (
	DefaultBatchSize         int32 = 10
	DefaultVisibilityTimeout       = 30 * time.Second
)

// Config tunes a drain pass. Zero values fall back to the defaults.
type Config struct {
	FolderPrefix      string
	ObjectPrefix      string
	Compress          bool
	BatchSize         int32
	VisibilityTimeout time.Duration
	// MaxBatches caps the iteration budget below the queue size estimate when > 0.
	MaxBatches int
	// ZeroPadKeys switches object keys to the zero padded layout.
	ZeroPadKeys bool
	// Suffix overrides the random object name suffix source.
	Suffix SuffixFunc
}

type flushUseCase struct {
	queue      queue.Gateway
	storage    storage.Gateway
	keys       *KeyBuilder
	codec      PayloadCodec
	batchSize  int32
	visibility time.Duration
	maxBatches int
}

func NewFlushUseCase(queueGateway queue.Gateway, storageGateway storage.Gateway, config Config) UseCase {
	useCase := &flushUseCase{
		queue:      queueGateway,
		storage:    storageGateway,
		keys:       NewKeyBuilder(config.FolderPrefix, config.ObjectPrefix, config.Suffix, config.ZeroPadKeys),
		codec:      NewPayloadCodec(config.Compress),
		batchSize:  config.BatchSize,
		visibility: config.VisibilityTimeout,
		maxBatches: config.MaxBatches,
	}
	if useCase.batchSize <= 0 {
		useCase.batchSize = DefaultBatchSize
	}
	if useCase.visibility <= 0 {
		useCase.visibility = DefaultVisibilityTimeout
	}
	return useCase
}

func (uc *flushUseCase) Flush(ctx context.Context) (entity.RunReport, error) {
	log.Info(msg.GetMessage("flush.start"))

	queueSize, err := uc.queue.ApproximateSize(ctx)
	if err != nil {
		log.Errorw(msg.GetMessage(failureKey(err)), "error", err)
		return entity.RunReport{}, err
	}

	if queueSize <= 0 {
		log.Info(msg.GetMessage("flush.queue-empty"))
		return entity.NewRunReport(0, 0, 0), nil
	}
	log.Info(msg.GetMessage("flush.queue-size", queueSize))

	if uc.codec.Compressed() {
		log.Info(msg.GetMessage("flush.gzip-enabled"))
	} else {
		log.Info(msg.GetMessage("flush.gzip-disabled"))
	}

	budget := queueSize
	if uc.maxBatches > 0 && uc.maxBatches < budget {
		budget = uc.maxBatches
	}

	batches, processed, exhausted, err := drain(budget, func(batch int) (int, error) {
		return uc.processBatch(ctx, batch)
	})
	report := entity.NewRunReport(queueSize, batches, processed)
	if err != nil {
		return report, err
	}

	if exhausted {
		log.Info(msg.GetMessage("flush.budget-exhausted", budget))
	}
	log.Infow(msg.GetMessage("flush.report"),
		"queue_size", report.QueueSize,
		"batches", report.Batches,
		"processed_messages", report.ProcessedMessages,
		"avg_batch_size", report.AvgBatchSize)

	return report, nil
}

// processBatch receives one batch and archives then acknowledges each message
// in order. It returns how many messages completed both steps.
func (uc *flushUseCase) processBatch(ctx context.Context, batch int) (int, error) {
	messages, err := uc.queue.Receive(ctx, uc.batchSize, uc.visibility)
	if err != nil {
		log.Errorw(msg.GetMessage(failureKey(err)), "batch", batch, "error", err)
		return 0, err
	}

	if len(messages) == 0 {
		log.Info(msg.GetMessage("flush.batch-empty"))
		return 0, nil
	}
	log.Infow(msg.GetMessage("flush.batch-size", len(messages)), "batch", batch)

	processed := 0
	for _, message := range messages {
		object, err := uc.archive(ctx, message)
		if err != nil {
			return processed, err
		}

		if err := uc.acknowledge(ctx, message); err != nil {
			log.Errorw(msg.GetMessage(failureKey(err)),
				"batch", batch, "message_id", message.ID, "key", object.Key, "error", err)
			return processed, err
		}
		processed++
	}

	return processed, nil
}

// archive writes the message payload to storage under a fresh key
func (uc *flushUseCase) archive(ctx context.Context, message entity.Message) (entity.ArchiveObject, error) {
	payload, err := ExtractPayload(message.Body)
	if err != nil {
		log.Errorw(msg.GetMessage(failureKey(err)), "message_id", message.ID, "error", err)
		return entity.ArchiveObject{}, err
	}

	body, err := uc.codec.Encode(payload)
	if err != nil {
		log.Errorw(msg.GetMessage(failureKey(err)), "message_id", message.ID, "error", err)
		return entity.ArchiveObject{}, err
	}

	object := entity.ArchiveObject{
		Key:         uc.keys.Build(message.SentAt, uc.codec.Extension()),
		Body:        body,
		ContentType: uc.codec.ContentType(),
	}

	if err := uc.storage.Put(ctx, object); err != nil {
		log.Errorw(msg.GetMessage(failureKey(err)), "message_id", message.ID, "key", object.Key, "error", err)
		return object, err
	}

	return object, nil
}

// acknowledge deletes an archived message from the queue
func (uc *flushUseCase) acknowledge(ctx context.Context, message entity.Message) error {
	return uc.queue.Delete(ctx, message.ReceiptHandle)
}

// failureKey picks the catalog text matching the sentinel err wraps
func failureKey(err error) string {
	switch {
	case errors.Is(err, model.ErrQueueNotFound):
		return "flush.error.queue-not-found"
	case errors.Is(err, model.ErrMalformedEnvelope):
		return "flush.error.malformed-envelope"
	case errors.Is(err, model.ErrPayloadEncode):
		return "flush.error.payload-encode"
	case errors.Is(err, model.ErrStorageWrite):
		return "flush.error.storage-write"
	case errors.Is(err, model.ErrQueueDelete):
		return "flush.error.queue-delete"
	default:
		return "flush.error.queue-query"
	}
}
