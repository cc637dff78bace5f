package flush

import (
	"context"
	"fmt"
	"time"

	"sqs-flush/internal/domain/entity"
	"sqs-flush/internal/domain/model"
)

// callLog records gateway calls across fakes in the order they happen
type callLog struct {
	calls []string
}

func (l *callLog) add(format string, args ...interface{}) {
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

type fakeQueue struct {
	log        *callLog
	size       int
	sizeErr    error
	batches    [][]entity.Message
	repeat     []entity.Message
	receiveErr error
	deleteErr  map[string]error

	receives    int
	maxMessages int32
	visibility  time.Duration
}

func (q *fakeQueue) ApproximateSize(ctx context.Context) (int, error) {
	q.log.add("size")
	return q.size, q.sizeErr
}

func (q *fakeQueue) Receive(ctx context.Context, maxMessages int32, visibility time.Duration) ([]entity.Message, error) {
	q.log.add("receive")
	q.maxMessages = maxMessages
	q.visibility = visibility
	if q.receiveErr != nil {
		return nil, q.receiveErr
	}

	defer func() { q.receives++ }()
	if q.repeat != nil {
		return q.repeat, nil
	}
	if q.receives >= len(q.batches) {
		return nil, nil
	}
	return q.batches[q.receives], nil
}

func (q *fakeQueue) Delete(ctx context.Context, receiptHandle string) error {
	if err, ok := q.deleteErr[receiptHandle]; ok {
		q.log.add("delete-failed:%s", receiptHandle)
		return err
	}
	q.log.add("delete:%s", receiptHandle)
	return nil
}

type fakeStorage struct {
	log     *callLog
	objects []entity.ArchiveObject
	// failAt is the 1-based put call that fails, 0 never fails
	failAt int
	puts   int
}

func (s *fakeStorage) Put(ctx context.Context, object entity.ArchiveObject) error {
	s.puts++
	if s.puts == s.failAt {
		s.log.add("put-failed:%s", object.Key)
		return fmt.Errorf("%w: bucket unavailable", model.ErrStorageWrite)
	}
	s.log.add("put:%s", object.Body)
	s.objects = append(s.objects, object)
	return nil
}

func envelopeMessage(n int, payload string) entity.Message {
	return entity.Message{
		ID:            fmt.Sprintf("id-%d", n),
		ReceiptHandle: fmt.Sprintf("rh-%d", n),
		Body:          fmt.Sprintf(`{"Type":"Notification","Message":%q}`, payload),
		SentAt:        time.Date(2024, time.March, 5, 9, 4, 0, 0, time.UTC),
	}
}

func batchOf(from, count int) []entity.Message {
	messages := make([]entity.Message, 0, count)
	for i := from; i < from+count; i++ {
		messages = append(messages, envelopeMessage(i, fmt.Sprintf("payload-%d", i)))
	}
	return messages
}

func fixedSuffix() string {
	return "ABCDEFGHIJKLMNOP"
}
