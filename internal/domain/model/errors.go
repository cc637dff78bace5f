package model

import "errors"

// Drain pass failures. Every one of them aborts the run.
var (
	ErrQueueNotFound     = errors.New("queue not found")
	ErrQueueQuery        = errors.New("queue query failed")
	ErrQueueDelete       = errors.New("queue delete failed")
	ErrStorageWrite      = errors.New("storage write failed")
	ErrMalformedEnvelope = errors.New("malformed envelope")
	ErrPayloadEncode     = errors.New("payload encoding failed")
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrRunInProgress = errors.New("another drain pass is in progress")
	ErrLockLost      = errors.New("run lock lost")
)
