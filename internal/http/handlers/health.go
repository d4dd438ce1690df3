package handlers

import (
	"context"
	"net/http"
	"time"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "database": "disabled"}
	if a.DBPing != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.DBPing(ctx); err != nil {
			a.logger().Warn().Err(err).Msg("health: database ping failed")
			status["database"] = "down"
		} else {
			status["database"] = "up"
		}
	}
	a.json(w, http.StatusOK, status)
}
