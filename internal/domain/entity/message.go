package entity

import "time"

// Message is a queue message received during one drain iteration
type Message struct {
	ID            string
	ReceiptHandle string
	Body          string
	SentAt        time.Time
}
