package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"ouroz/internal/domain"
	"ouroz/internal/gateway"
	"ouroz/internal/infra"
)

// Executor runs gateway requests. *gateway.Gateway satisfies it.
type Executor interface {
	Execute(ctx context.Context, req gateway.Request) gateway.Envelope
}

// StatsReader reads the generation ledger.
type StatsReader interface {
	SummarySince(ctx context.Context, since time.Time) ([]domain.OperationSummary, error)
}

type App struct {
	Gateway      Executor
	Stats        StatsReader
	DBPing       func(ctx context.Context) error
	Logger       *infra.Logger
	MaxBodyBytes int64
	Now          func() time.Time
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, gateway.Envelope{Success: false, Error: msg})
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) logger() *infra.Logger {
	return infra.LoggerOrDiscard(a.Logger)
}
