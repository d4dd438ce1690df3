package handlers

import (
	"net/http"
	"time"

	"ouroz/internal/domain"
)

const statsWindow = 24 * time.Hour

func (a *App) GenerationStats(w http.ResponseWriter, r *http.Request) {
	if a.Stats == nil {
		a.error(w, http.StatusServiceUnavailable, domain.ErrStatsUnavailable.Error())
		return
	}
	since := a.now().UTC().Add(-statsWindow)
	summaries, err := a.Stats.SummarySince(r.Context(), since)
	if err != nil {
		a.logger().Error().Err(err).Msg("stats: load generation summary failed")
		a.error(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":    true,
		"since":      since.Format(time.RFC3339),
		"operations": summaries,
	})
}
