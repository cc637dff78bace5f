package sqs

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// maxBatchEntries is the SQS limit of entries per SendMessageBatch request
const maxBatchEntries = 10

// BatchMessage represents a message to be sent in batch
type BatchMessage struct {
	MessageID string `json:"messageId"`
	Body      any    `json:"body"`
}

// BatchResult represents the result of a batch send operation
type BatchResult struct {
	Successful []string `json:"successful"`
	Failed     []string `json:"failed"`
}

// SenderClient defines the SQS operations needed to publish messages
type SenderClient interface {
	SendMessageBatch(ctx context.Context, params *sqs.SendMessageBatchInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageBatchOutput, error)
}

// Sender publishes messages to one SQS queue
type Sender struct {
	sqsClient SenderClient
	queueURL  string
}

// NewSender creates and returns a new Sender bound to queueURL
func NewSender(sqsClient SenderClient, queueURL string) *Sender {
	return &Sender{
		sqsClient: sqsClient,
		queueURL:  queueURL,
	}
}

// SendMessageBatch sends messages in chunks of 10 concurrently.
// Bodies are serialized to JSON unless they already are strings.
func (s *Sender) SendMessageBatch(ctx context.Context, messages []BatchMessage) (*BatchResult, error) {
	if len(messages) == 0 {
		return &BatchResult{
			Successful: []string{},
			Failed:     []string{},
		}, nil
	}

	chunks := slices.Collect(slices.Chunk(messages, maxBatchEntries))
	resultChan := make(chan *BatchResult, len(chunks))
	var wg sync.WaitGroup

	for _, chunk := range chunks {
		wg.Add(1)
		go func() {
			defer wg.Done()

			batchResult, err := s.sendBatch(ctx, chunk)
			if err != nil {
				// the whole request failed, so does every entry in it
				batchResult = &BatchResult{Successful: []string{}, Failed: messageIDs(chunk)}
			}
			resultChan <- batchResult
		}()
	}

	wg.Wait()
	close(resultChan)

	finalResult := &BatchResult{
		Successful: []string{},
		Failed:     []string{},
	}

	for batchResult := range resultChan {
		finalResult.Successful = append(finalResult.Successful, batchResult.Successful...)
		finalResult.Failed = append(finalResult.Failed, batchResult.Failed...)
	}

	return finalResult, nil
}

// sendBatch sends a single batch of up to 10 messages
func (s *Sender) sendBatch(ctx context.Context, messages []BatchMessage) (*BatchResult, error) {
	if len(messages) > maxBatchEntries {
		return nil, fmt.Errorf("batch size cannot exceed %d messages, got %d", maxBatchEntries, len(messages))
	}

	entries := make([]types.SendMessageBatchRequestEntry, 0, len(messages))
	serializationFailed := make([]string, 0)

	for _, msg := range messages {
		messageBody, err := encodeBody(msg.Body)
		if err != nil {
			serializationFailed = append(serializationFailed, msg.MessageID)
			continue
		}

		entries = append(entries, types.SendMessageBatchRequestEntry{
			Id:          aws.String(msg.MessageID),
			MessageBody: aws.String(messageBody),
		})
	}

	result := &BatchResult{
		Successful: []string{},
		Failed:     serializationFailed,
	}

	if len(entries) == 0 {
		return result, nil
	}

	output, err := s.sqsClient.SendMessageBatch(ctx, &sqs.SendMessageBatchInput{
		QueueUrl: aws.String(s.queueURL),
		Entries:  entries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send message batch: %w", err)
	}

	for _, success := range output.Successful {
		if success.Id != nil {
			result.Successful = append(result.Successful, *success.Id)
		}
	}

	for _, failed := range output.Failed {
		if failed.Id != nil {
			result.Failed = append(result.Failed, *failed.Id)
		}
	}

	return result, nil
}

// encodeBody keeps string bodies as they are and marshals anything else
func encodeBody(body any) (string, error) {
	if text, ok := body.(string); ok {
		return text, nil
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	return string(jsonBody), nil
}

func messageIDs(messages []BatchMessage) []string {
	ids := make([]string, len(messages))
	for i, msg := range messages {
		ids[i] = msg.MessageID
	}
	return ids
}
