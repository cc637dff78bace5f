package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunReport(t *testing.T) {
	tests := []struct {
		name      string
		queueSize int
		batches   int
		processed int
		expected  float64
	}{
		{name: "empty", expected: 0},
		{name: "single", queueSize: 1, batches: 1, processed: 1, expected: 1},
		{name: "rounds to three decimals", queueSize: 30, batches: 3, processed: 20, expected: 6.667},
		{name: "empty batch", queueSize: 5, batches: 1, processed: 0, expected: 0},
		{name: "partial", queueSize: 25, batches: 3, processed: 25, expected: 8.333},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := NewRunReport(tt.queueSize, tt.batches, tt.processed)
			assert.Equal(t, tt.expected, report.AvgBatchSize)
			assert.Equal(t, tt.batches, report.Batches)
			assert.Equal(t, tt.processed, report.ProcessedMessages)
		})
	}
}

func TestRunReportJSON(t *testing.T) {
	data, err := json.Marshal(NewRunReport(1, 1, 1))
	require.NoError(t, err)
	assert.JSONEq(t, `{"queue_size":1,"batches":1,"processed_messages":1,"avg_batch_size":1}`, string(data))
}
