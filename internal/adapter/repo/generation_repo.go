package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ouroz/internal/domain"
	"ouroz/internal/infra"
	"ouroz/internal/sqlinline"
)

// GenerationRepositoryPG implements domain.GenerationRepository on PostgreSQL.
type GenerationRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewGenerationRepository constructs the repository.
func NewGenerationRepository(sql infra.SQLExecutor) *GenerationRepositoryPG {
	return &GenerationRepositoryPG{sql: sql}
}

// Record inserts one ledger row. Missing ids and timestamps are filled in.
func (r *GenerationRepositoryPG) Record(ctx context.Context, event domain.GenerationEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	_, err := r.sql.Exec(ctx, sqlinline.QInsertGenerationEvent,
		event.ID,
		event.RequestID,
		event.Operation,
		event.Model,
		event.Success,
		int(event.Latency/time.Millisecond),
		event.Error,
		event.Locale,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record generation event: %w", err)
	}
	return nil
}

// SummarySince returns per-operation counts for rows created at or after since.
func (r *GenerationRepositoryPG) SummarySince(ctx context.Context, since time.Time) ([]domain.OperationSummary, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QGenerationSummarySince, since)
	if err != nil {
		return nil, fmt.Errorf("query generation summary: %w", err)
	}
	defer rows.Close()

	summaries := make([]domain.OperationSummary, 0, 9)
	for rows.Next() {
		var s domain.OperationSummary
		if err := rows.Scan(&s.Operation, &s.Succeeded, &s.Failed, &s.AvgLatencyMS); err != nil {
			return nil, fmt.Errorf("scan generation summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate generation summary: %w", err)
	}
	return summaries, nil
}

var _ domain.GenerationRepository = (*GenerationRepositoryPG)(nil)
