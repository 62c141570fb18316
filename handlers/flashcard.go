package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/andrewpaige1/studyflash-api/models"
	"github.com/andrewpaige1/studyflash-api/utils"
)

type createFlashcardRequest struct {
	SetID         string `json:"set_id"`
	OwnerUsername string `json:"owner_username"`
	cardInput
}

type updateFlashcardRequest struct {
	FlashcardID string    `json:"flashcard_id"`
	SetID       *string   `json:"set_id"`
	Front       *string   `json:"front"`
	Back        *string   `json:"back"`
	IsPublic    *bool     `json:"isPublic"`
	Tags        *[]string `json:"tags"`
}

type deleteFlashcardRequest struct {
	FlashcardID string `json:"flashcard_id"`
}

func (db *DBHandler) loadFlashcard(tx *gorm.DB, publicID string) (*models.Flashcard, error) {
	var flashcard models.Flashcard
	err := tx.Preload("Owner").Preload("FlashcardSet").
		Where("public_id = ?", publicID).
		First(&flashcard).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Flashcard not found")
		}
		return nil, err
	}
	return &flashcard, nil
}

// GET /flashcards?set_id= | ?set_ids=a,b | ?user_id=<username>
func (db *DBHandler) GetFlashcards(w http.ResponseWriter, r *http.Request) {
	tx := db.WithContext(r.Context())
	params := r.URL.Query()

	query := tx.Preload("Owner").Preload("FlashcardSet")
	switch {
	case params.Get("set_ids") != "":
		setIDs := tx.Model(&models.FlashcardSet{}).Select("id").Where("public_id IN ?", splitIDs(params.Get("set_ids")))
		query = query.Where("set_id IN (?)", setIDs)
	case params.Get("set_id") != "":
		setIDs := tx.Model(&models.FlashcardSet{}).Select("id").Where("public_id = ?", params.Get("set_id"))
		query = query.Where("set_id IN (?)", setIDs)
	case params.Get("user_id") != "":
		owner, err := db.findUserByName(tx, strings.TrimSpace(params.Get("user_id")))
		if err != nil {
			db.fail(w, r, "GetFlashcards", err)
			return
		}
		query = query.Where("user_id = ?", owner.ID)
	default:
		db.fail(w, r, "GetFlashcards", badRequest("Missing set_ids, set_id, or user_id"))
		return
	}

	var found []models.Flashcard
	if err := query.Order("id asc").Find(&found).Error; err != nil {
		db.fail(w, r, "GetFlashcards", err)
		return
	}

	requester := utils.CurrentUserID(r)
	flashcards := make([]models.Flashcard, 0, len(found))
	for _, flashcard := range found {
		if flashcard.VisibleTo(requester) {
			flashcards = append(flashcards, flashcard)
		}
	}

	db.respond(w, r, http.StatusOK, flashcards)
}

// GET /flashcards/{flashcardID}
func (db *DBHandler) GetFlashcardByID(w http.ResponseWriter, r *http.Request) {
	flashcard, err := db.loadFlashcard(db.WithContext(r.Context()), r.PathValue("flashcardID"))
	if err != nil {
		db.fail(w, r, "GetFlashcardByID", err)
		return
	}

	if !flashcard.VisibleTo(utils.CurrentUserID(r)) {
		db.fail(w, r, "GetFlashcardByID", forbidden("Forbidden"))
		return
	}

	db.respond(w, r, http.StatusOK, flashcard)
}

// POST /flashcards
func (db *DBHandler) CreateFlashCard(w http.ResponseWriter, r *http.Request) {
	user := utils.CurrentUser(r)
	tx := db.WithContext(r.Context())

	var req createFlashcardRequest
	if err := decodeBody(r, &req); err != nil {
		db.fail(w, r, "CreateFlashCard", err)
		return
	}
	if req.SetID == "" || strings.TrimSpace(req.Front) == "" || strings.TrimSpace(req.Back) == "" {
		db.fail(w, r, "CreateFlashCard", badRequest("Missing required fields: set_id, front, or back"))
		return
	}
	if req.OwnerUsername != "" && req.OwnerUsername != user.Username {
		db.fail(w, r, "CreateFlashCard", forbidden("Cannot create a flashcard for another user"))
		return
	}

	set, err := db.loadOwnedSet(tx, req.SetID, user)
	if err != nil {
		db.fail(w, r, "CreateFlashCard", err)
		return
	}

	flashcard, err := req.cardInput.toFlashcard(set)
	if err != nil {
		db.fail(w, r, "CreateFlashCard", err)
		return
	}

	if err := tx.Create(&flashcard).Error; err != nil {
		db.fail(w, r, "CreateFlashCard", err)
		return
	}

	db.Log.Info("flashcard created", zap.String("flashcard_id", flashcard.PublicID), zap.String("set_id", set.PublicID))
	db.respond(w, r, http.StatusCreated, flashcard)
}

// PATCH /flashcards
func (db *DBHandler) UpdateFlashCard(w http.ResponseWriter, r *http.Request) {
	user := utils.CurrentUser(r)
	tx := db.WithContext(r.Context())

	var req updateFlashcardRequest
	if err := decodeBody(r, &req); err != nil {
		db.fail(w, r, "UpdateFlashCard", err)
		return
	}
	if req.FlashcardID == "" {
		db.fail(w, r, "UpdateFlashCard", badRequest("flashcard_id required"))
		return
	}

	flashcard, err := db.loadFlashcard(tx, req.FlashcardID)
	if err != nil {
		db.fail(w, r, "UpdateFlashCard", err)
		return
	}
	if flashcard.UserID != user.ID {
		db.fail(w, r, "UpdateFlashCard", forbidden("Flashcard does not belong to user"))
		return
	}

	updates := map[string]interface{}{}

	// Moving to another set needs ownership of the destination first.
	if req.SetID != nil && *req.SetID != "" && *req.SetID != flashcard.FlashcardSet.PublicID {
		set, err := db.loadOwnedSet(tx, *req.SetID, user)
		if err != nil {
			db.fail(w, r, "UpdateFlashCard", err)
			return
		}
		updates["set_id"] = set.ID
	}
	if req.Front != nil {
		if front := strings.TrimSpace(*req.Front); front != "" {
			updates["front"] = front
		}
	}
	if req.Back != nil {
		if back := strings.TrimSpace(*req.Back); back != "" {
			updates["back"] = back
		}
	}
	if req.IsPublic != nil {
		updates["is_public"] = *req.IsPublic
	}
	if req.Tags != nil {
		updates["tags"] = datatypes.JSONSlice[string](cleanTags(*req.Tags))
	}

	if len(updates) > 0 {
		if err := tx.Model(&models.Flashcard{}).Where("id = ?", flashcard.ID).Updates(updates).Error; err != nil {
			db.fail(w, r, "UpdateFlashCard", err)
			return
		}
		if flashcard, err = db.loadFlashcard(tx, req.FlashcardID); err != nil {
			db.fail(w, r, "UpdateFlashCard", err)
			return
		}
		db.Log.Info("flashcard updated", zap.String("flashcard_id", flashcard.PublicID))
	}

	db.respond(w, r, http.StatusOK, flashcard)
}

// DELETE /flashcards
func (db *DBHandler) DeleteFlashCard(w http.ResponseWriter, r *http.Request) {
	user := utils.CurrentUser(r)
	tx := db.WithContext(r.Context())

	var req deleteFlashcardRequest
	if err := decodeBody(r, &req); err != nil {
		db.fail(w, r, "DeleteFlashCard", err)
		return
	}
	if req.FlashcardID == "" {
		db.fail(w, r, "DeleteFlashCard", badRequest("flashcard_id required"))
		return
	}

	flashcard, err := db.loadFlashcard(tx, req.FlashcardID)
	if err != nil {
		db.fail(w, r, "DeleteFlashCard", err)
		return
	}
	if flashcard.UserID != user.ID {
		db.fail(w, r, "DeleteFlashCard", forbidden("Flashcard does not belong to user"))
		return
	}

	result := tx.Delete(&models.Flashcard{}, flashcard.ID)
	if result.Error != nil {
		db.fail(w, r, "DeleteFlashCard", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		db.fail(w, r, "DeleteFlashCard", notFound("Flashcard not found"))
		return
	}

	db.Log.Info("flashcard deleted", zap.String("flashcard_id", flashcard.PublicID))
	db.respond(w, r, http.StatusOK, map[string]bool{"success": true})
}
