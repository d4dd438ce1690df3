package domain

import (
	"context"
	"time"
)

// GenerationRepository persists the generation ledger.
type GenerationRepository interface {
	Record(ctx context.Context, event GenerationEvent) error
	SummarySince(ctx context.Context, since time.Time) ([]OperationSummary, error)
}
