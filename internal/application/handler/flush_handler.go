package handler

import (
	"context"
	"encoding/json"

	"sqs-flush/internal/domain/entity"
)

// DrainRunner runs one drain pass
type DrainRunner interface {
	Run(ctx context.Context) (entity.RunReport, error)
}

// FlushResponse is the payload returned to the trigger
type FlushResponse struct {
	Report entity.RunReport `json:"report"`
}

// FlushHandler serves event-driven invocations. The event content is ignored.
type FlushHandler struct {
	runner DrainRunner
}

func NewFlushHandler(runner DrainRunner) *FlushHandler {
	return &FlushHandler{runner: runner}
}

func (h *FlushHandler) Handle(ctx context.Context, _ json.RawMessage) (FlushResponse, error) {
	report, err := h.runner.Run(ctx)
	if err != nil {
		return FlushResponse{}, err
	}
	return FlushResponse{Report: report}, nil
}
