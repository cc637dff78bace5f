package flush

import (
	"context"

	"sqs-flush/internal/domain/entity"
)

// UseCase runs one drain pass: every message it acknowledges has been archived first.
//
// On failure the returned report still carries the counters reached before the
// failing call, alongside the error.
type UseCase interface {
	Flush(ctx context.Context) (entity.RunReport, error)
}
