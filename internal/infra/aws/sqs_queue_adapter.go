package aws

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"sqs-flush/internal/domain/entity"
	"sqs-flush/internal/domain/gateway/queue"
	"sqs-flush/internal/domain/model"
	sqslib "sqs-flush/pkg/sqs"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// SQSQueueAdapter adapts the pkg/sqs.Consumer to the domain queue.Gateway interface
type SQSQueueAdapter struct {
	consumer *sqslib.Consumer
}

func NewSQSQueueAdapter(sqsClient sqslib.ConsumerClient, queueURL string) queue.Gateway {
	return &SQSQueueAdapter{
		consumer: sqslib.NewConsumer(sqsClient, queueURL),
	}
}

func (adapter *SQSQueueAdapter) ApproximateSize(ctx context.Context) (int, error) {
	count, err := adapter.consumer.ApproximateNumberOfMessages(ctx)
	if errors.Is(err, sqslib.ErrQueueDoesNotExist) {
		return 0, fmt.Errorf("%w: %w", model.ErrQueueNotFound, err)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %w", model.ErrQueueQuery, err)
	}
	return count, nil
}

func (adapter *SQSQueueAdapter) Receive(ctx context.Context, maxMessages int32, visibility time.Duration) ([]entity.Message, error) {
	output, err := adapter.consumer.ReceiveMessages(ctx, maxMessages, int32(visibility/time.Second))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrQueueQuery, err)
	}

	messages := make([]entity.Message, 0, len(output))
	for _, msg := range output {
		message, err := toEntity(msg)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func (adapter *SQSQueueAdapter) Delete(ctx context.Context, receiptHandle string) error {
	if err := adapter.consumer.DeleteMessage(ctx, receiptHandle); err != nil {
		return fmt.Errorf("%w: %w", model.ErrQueueDelete, err)
	}
	return nil
}

func toEntity(msg types.Message) (entity.Message, error) {
	messageID := aws.ToString(msg.MessageId)

	raw, ok := msg.Attributes[sqslib.AttributeSentTimestamp]
	if !ok {
		return entity.Message{}, fmt.Errorf("%w: message %s has no %s attribute", model.ErrMalformedEnvelope, messageID, sqslib.AttributeSentTimestamp)
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return entity.Message{}, fmt.Errorf("%w: message %s has an invalid %s %q", model.ErrMalformedEnvelope, messageID, sqslib.AttributeSentTimestamp, raw)
	}

	return entity.Message{
		ID:            messageID,
		ReceiptHandle: aws.ToString(msg.ReceiptHandle),
		Body:          aws.ToString(msg.Body),
		SentAt:        time.UnixMilli(millis).UTC(),
	}, nil
}
