package sqs

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// ErrQueueDoesNotExist is returned when SQS reports the queue URL as unknown
var ErrQueueDoesNotExist = errors.New("queue does not exist")

// AttributeSentTimestamp is the system attribute holding the enqueue time in epoch milliseconds
const AttributeSentTimestamp = string(types.MessageSystemAttributeNameSentTimestamp)

// ConsumerClient defines the SQS operations needed to drain a queue
type ConsumerClient interface {
	GetQueueAttributes(ctx context.Context, params *sqs.GetQueueAttributesInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueAttributesOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// Consumer reads and deletes messages of a single queue
type Consumer struct {
	sqsClient ConsumerClient
	queueURL  string
}

// NewConsumer creates and returns a new Consumer bound to queueURL
func NewConsumer(sqsClient ConsumerClient, queueURL string) *Consumer {
	return &Consumer{
		sqsClient: sqsClient,
		queueURL:  queueURL,
	}
}

// ApproximateNumberOfMessages returns the queue's eventually consistent backlog count
func (c *Consumer) ApproximateNumberOfMessages(ctx context.Context) (int, error) {
	output, err := c.sqsClient.GetQueueAttributes(ctx, &sqs.GetQueueAttributesInput{
		QueueUrl:       aws.String(c.queueURL),
		AttributeNames: []types.QueueAttributeName{types.QueueAttributeNameApproximateNumberOfMessages},
	})
	if err != nil {
		var notExist *types.QueueDoesNotExist
		if errors.As(err, &notExist) {
			return 0, fmt.Errorf("%w: %s: %w", ErrQueueDoesNotExist, c.queueURL, err)
		}
		return 0, fmt.Errorf("failed to get attributes of queue %s: %w", c.queueURL, err)
	}

	raw, ok := output.Attributes[string(types.QueueAttributeNameApproximateNumberOfMessages)]
	if !ok {
		return 0, fmt.Errorf("queue %s did not report %s", c.queueURL, types.QueueAttributeNameApproximateNumberOfMessages)
	}

	count, err := strconv.Atoi(raw)
	if err != nil || count < 0 {
		return 0, fmt.Errorf("queue %s reported an invalid message count %q", c.queueURL, raw)
	}
	return count, nil
}

// ReceiveMessages fetches up to maxMessages without long polling, hiding them
// from other consumers for visibilityTimeout seconds
func (c *Consumer) ReceiveMessages(ctx context.Context, maxMessages int32, visibilityTimeout int32) ([]types.Message, error) {
	if maxMessages < 1 || maxMessages > 10 {
		return nil, fmt.Errorf("maxMessages must be between 1 and 10, got %d", maxMessages)
	}

	output, err := c.sqsClient.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:                    aws.String(c.queueURL),
		MaxNumberOfMessages:         maxMessages,
		VisibilityTimeout:           visibilityTimeout,
		WaitTimeSeconds:             0,
		MessageSystemAttributeNames: []types.MessageSystemAttributeName{types.MessageSystemAttributeNameSentTimestamp},
		MessageAttributeNames:       []string{"All"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to receive messages from queue %s: %w", c.queueURL, err)
	}

	return output.Messages, nil
}

// DeleteMessage acknowledges a message by its receipt handle
func (c *Consumer) DeleteMessage(ctx context.Context, receiptHandle string) error {
	_, err := c.sqsClient.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.queueURL),
		ReceiptHandle: aws.String(receiptHandle),
	})
	if err != nil {
		return fmt.Errorf("failed to delete message from queue %s: %w", c.queueURL, err)
	}
	return nil
}
