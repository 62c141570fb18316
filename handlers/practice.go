package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/andrewpaige1/studyflash-api/models"
	"github.com/andrewpaige1/studyflash-api/utils"
)

type practiceCard struct {
	FlashcardID string   `json:"flashcard_id"`
	Correct     bool     `json:"correct"`
	TimeTaken   *float64 `json:"time_taken,omitempty"`
}

type submitPracticeRequest struct {
	OwnerUsername string         `json:"owner_username"`
	SetID         string         `json:"set_id"`
	Cards         []practiceCard `json:"cards"`
	// Flashcards is the older name of Cards, still sent by some clients.
	Flashcards []practiceCard `json:"flashcards"`
}

type submitPracticeResponse struct {
	Attempt      models.Attempt `json:"attempt"`
	CorrectCount int            `json:"correctCount"`
	Score        int            `json:"score"`
}

// incrementScore adds delta to the user's score in a single UPDATE so that
// concurrent submissions never overwrite each other, and returns the new
// total.
func incrementScore(tx *gorm.DB, userID uint, delta int) (int, error) {
	result := tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("score", gorm.Expr("score + ?", delta))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, notFound("User not found")
	}

	var user models.User
	if err := tx.Select("score").First(&user, userID).Error; err != nil {
		return 0, err
	}
	return user.Score, nil
}

// POST /practice records a finished practice session and credits one point
// per correct card.
func (db *DBHandler) SubmitPractice(w http.ResponseWriter, r *http.Request) {
	user := utils.CurrentUser(r)
	tx := db.WithContext(r.Context())

	var req submitPracticeRequest
	if err := decodeBody(r, &req); err != nil {
		db.fail(w, r, "SubmitPractice", err)
		return
	}
	cards := req.Cards
	if len(cards) == 0 {
		cards = req.Flashcards
	}
	if len(cards) == 0 {
		db.fail(w, r, "SubmitPractice", badRequest("cards array required"))
		return
	}
	if req.OwnerUsername != "" && req.OwnerUsername != user.Username {
		db.fail(w, r, "SubmitPractice", forbidden("Cannot submit practice for another user"))
		return
	}
	if req.SetID != "" {
		set, err := db.loadSet(tx, req.SetID)
		if err != nil {
			db.fail(w, r, "SubmitPractice", err)
			return
		}
		if !set.VisibleTo(user.ID) {
			db.fail(w, r, "SubmitPractice", forbidden("Forbidden"))
			return
		}
	}

	attempt := models.Attempt{
		UserID:        user.ID,
		SetID:         req.SetID,
		Cards:         make([]models.AttemptCard, 0, len(cards)),
		OwnerUsername: user.Username,
	}
	for i, card := range cards {
		flashcardID := strings.TrimSpace(card.FlashcardID)
		if flashcardID == "" {
			db.fail(w, r, "SubmitPractice", badRequest("every card needs a flashcard_id"))
			return
		}
		attempt.Cards = append(attempt.Cards, models.AttemptCard{
			Position:    i,
			FlashcardID: flashcardID,
			Correct:     card.Correct,
			TimeTaken:   card.TimeTaken,
		})
	}

	publicID, err := newPublicID()
	if err != nil {
		db.fail(w, r, "SubmitPractice", err)
		return
	}
	attempt.PublicID = publicID

	correctCount := attempt.CorrectCount()

	var score int
	err = tx.Transaction(func(tx *gorm.DB) error {
		var err error
		if score, err = incrementScore(tx, user.ID, correctCount); err != nil {
			return err
		}
		return tx.Create(&attempt).Error
	})
	if err != nil {
		db.fail(w, r, "SubmitPractice", err)
		return
	}

	db.Log.Info("practice attempt recorded",
		zap.String("attempt_id", attempt.PublicID),
		zap.String("username", user.Username),
		zap.Int("cards", len(attempt.Cards)),
		zap.Int("correct", correctCount),
	)
	db.respond(w, r, http.StatusCreated, submitPracticeResponse{
		Attempt:      attempt,
		CorrectCount: correctCount,
		Score:        score,
	})
}

// GET /practice?user_id=<username> lists the caller's attempts, newest first.
func (db *DBHandler) GetAttempts(w http.ResponseWriter, r *http.Request) {
	user := utils.CurrentUser(r)

	username := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if username != "" && username != user.Username {
		db.fail(w, r, "GetAttempts", forbidden("Attempts are only visible to their owner"))
		return
	}

	attempts := []models.Attempt{}
	err := db.WithContext(r.Context()).
		Preload("Owner").
		Preload("Cards", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position asc")
		}).
		Where("user_id = ?", user.ID).
		Order("created_at desc").
		Order("id desc").
		Find(&attempts).Error
	if err != nil {
		db.fail(w, r, "GetAttempts", err)
		return
	}

	db.respond(w, r, http.StatusOK, attempts)
}
