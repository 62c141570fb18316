package handlers

import (
	"net/http"

	"github.com/andrewpaige1/studyflash-api/models"
)

const leaderboardSize = 50

// GET /leaderboard?period=all
func (db *DBHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "all"
	}
	if period != "all" {
		db.fail(w, r, "GetLeaderboard", badRequest("Day/week leaderboard not implemented"))
		return
	}

	entries := []models.LeaderboardEntry{}
	err := db.WithContext(r.Context()).
		Model(&models.User{}).
		Select("username", "score").
		Where("score > ?", 0).
		Order("score desc").
		Order("id asc").
		Limit(leaderboardSize).
		Scan(&entries).Error
	if err != nil {
		db.fail(w, r, "GetLeaderboard", err)
		return
	}

	db.respond(w, r, http.StatusOK, entries)
}
