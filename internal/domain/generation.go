package domain

import "time"

// GenerationEvent is one ledger row describing a finished gateway call.
type GenerationEvent struct {
	ID        string
	RequestID string
	Operation string
	Model     string
	Success   bool
	Latency   time.Duration
	Error     string
	Locale    string
	CreatedAt time.Time
}

// OperationSummary aggregates ledger rows for a single operation.
type OperationSummary struct {
	Operation    string  `json:"operation"`
	Succeeded    int     `json:"succeeded"`
	Failed       int     `json:"failed"`
	AvgLatencyMS float64 `json:"avgLatencyMs"`
}
