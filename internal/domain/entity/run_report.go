package entity

import "math"

// RunReport summarizes one drain pass
type RunReport struct {
	QueueSize         int     `json:"queue_size"`
	Batches           int     `json:"batches"`
	ProcessedMessages int     `json:"processed_messages"`
	AvgBatchSize      float64 `json:"avg_batch_size"`
}

// NewRunReport computes the average batch size rounded to 3 decimals.
// A report without batches has an average of 0.
func NewRunReport(queueSize, batches, processed int) RunReport {
	report := RunReport{
		QueueSize:         queueSize,
		Batches:           batches,
		ProcessedMessages: processed,
	}
	if batches > 0 {
		report.AvgBatchSize = math.Round(float64(processed)/float64(batches)*1000) / 1000
	}
	return report
}
