package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/andrewpaige1/studyflash-api/models"
	"github.com/andrewpaige1/studyflash-api/utils"
)

type incrementScoreRequest struct {
	Increment int `json:"increment"`
}

// PATCH /score adjusts the caller's score by hand.
func (db *DBHandler) IncrementScore(w http.ResponseWriter, r *http.Request) {
	user := utils.CurrentUser(r)

	var req incrementScoreRequest
	if err := decodeBody(r, &req); err != nil {
		db.fail(w, r, "IncrementScore", err)
		return
	}
	if req.Increment == 0 {
		db.fail(w, r, "IncrementScore", badRequest("increment required"))
		return
	}

	score, err := incrementScore(db.WithContext(r.Context()), user.ID, req.Increment)
	if err != nil {
		db.fail(w, r, "IncrementScore", err)
		return
	}

	db.Log.Info("score adjusted", zap.String("username", user.Username), zap.Int("increment", req.Increment))
	db.respond(w, r, http.StatusOK, models.LeaderboardEntry{Username: user.Username, Score: score})
}
