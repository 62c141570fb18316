package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/andrewpaige1/studyflash-api/config"
)

// GET /health
func (db *DBHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := config.Ping(r.Context(), db.DB); err != nil {
		db.Log.Warn("health check failed", zap.Error(err))
		db.respond(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	db.respond(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
