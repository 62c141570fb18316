package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/andrewpaige1/studyflash-api/models"
	"github.com/andrewpaige1/studyflash-api/utils"
)

const maxSetNameLen = 100

type createSetRequest struct {
	Name          string      `json:"name"`
	IsPublic      bool        `json:"isPublic"`
	OwnerUsername string      `json:"owner_username"`
	Cards         []cardInput `json:"cards"`
}

type createSetResponse struct {
	models.FlashcardSet
	Flashcards []models.Flashcard `json:"flashcards,omitempty"`
}

type updateSetRequest struct {
	SetID    string  `json:"set_id"`
	Name     *string `json:"name"`
	IsPublic *bool   `json:"isPublic"`
}

type deleteSetRequest struct {
	SetID string `json:"set_id"`
}

// loadSet fetches a set by public id with its owner.
func (db *DBHandler) loadSet(tx *gorm.DB, publicID string) (*models.FlashcardSet, error) {
	var set models.FlashcardSet
	if err := tx.Preload("Owner").Where("public_id = ?", publicID).First(&set).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Set not found")
		}
		return nil, err
	}
	return &set, nil
}

// loadOwnedSet is loadSet plus an ownership check against the current user.
func (db *DBHandler) loadOwnedSet(tx *gorm.DB, publicID string, user *models.User) (*models.FlashcardSet, error) {
	set, err := db.loadSet(tx, publicID)
	if err != nil {
		return nil, err
	}
	if set.UserID != user.ID {
		return nil, forbidden("Set does not belong to user")
	}
	return set, nil
}

// findUserByName resolves the username query parameter used by list routes.
func (db *DBHandler) findUserByName(tx *gorm.DB, username string) (*models.User, error) {
	var user models.User
	if err := tx.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("User not found")
		}
		return nil, err
	}
	return &user, nil
}

// GET /sets?user_id=<username> | /sets?public=true
func (db *DBHandler) GetSets(w http.ResponseWriter, r *http.Request) {
	tx := db.WithContext(r.Context())
	username := strings.TrimSpace(r.URL.Query().Get("user_id"))
	public := r.URL.Query().Get("public")

	query := tx.Preload("Owner")
	switch {
	case username != "":
		owner, err := db.findUserByName(tx, username)
		if err != nil {
			db.fail(w, r, "GetSets", err)
			return
		}
		query = query.Where("user_id = ?", owner.ID)
		// Other users only see what the owner has published.
		if utils.CurrentUserID(r) != owner.ID {
			query = query.Where("is_public = ?", true)
		}
	case public == "true":
		query = query.Where("is_public = ?", true)
	default:
		db.fail(w, r, "GetSets", badRequest("Missing user_id or public parameter"))
		return
	}

	sets := []models.FlashcardSet{}
	if err := query.Order("id asc").Find(&sets).Error; err != nil {
		db.fail(w, r, "GetSets", err)
		return
	}

	db.respond(w, r, http.StatusOK, sets)
}

// GET /sets/{setID}
func (db *DBHandler) GetSetByID(w http.ResponseWriter, r *http.Request) {
	set, err := db.loadSet(db.WithContext(r.Context()), r.PathValue("setID"))
	if err != nil {
		db.fail(w, r, "GetSetByID", err)
		return
	}

	if !set.VisibleTo(utils.CurrentUserID(r)) {
		db.fail(w, r, "GetSetByID", forbidden("Forbidden"))
		return
	}

	db.respond(w, r, http.StatusOK, set)
}

// POST /sets
func (db *DBHandler) CreateFlashCardSet(w http.ResponseWriter, r *http.Request) {
	user := utils.CurrentUser(r)

	var req createSetRequest
	if err := decodeBody(r, &req); err != nil {
		db.fail(w, r, "CreateFlashCardSet", err)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		db.fail(w, r, "CreateFlashCardSet", badRequest("name is required"))
		return
	}
	if len(name) > maxSetNameLen {
		db.fail(w, r, "CreateFlashCardSet", badRequest("name is too long"))
		return
	}
	if req.OwnerUsername != "" && req.OwnerUsername != user.Username {
		db.fail(w, r, "CreateFlashCardSet", forbidden("Cannot create a set for another user"))
		return
	}

	publicID, err := newPublicID()
	if err != nil {
		db.fail(w, r, "CreateFlashCardSet", err)
		return
	}

	set := models.FlashcardSet{
		PublicID:      publicID,
		Name:          name,
		UserID:        user.ID,
		IsPublic:      req.IsPublic,
		OwnerUsername: user.Username,
	}

	cards, err := createSetWithCards(db.WithContext(r.Context()), &set, req.Cards)
	if err != nil {
		db.fail(w, r, "CreateFlashCardSet", err)
		return
	}

	db.Log.Info("set created",
		zap.String("set_id", set.PublicID),
		zap.String("owner", user.Username),
		zap.Int("flashcards", len(cards)),
	)
	db.respond(w, r, http.StatusCreated, createSetResponse{FlashcardSet: set, Flashcards: cards})
}

// PATCH /sets renames a set or toggles its visibility.
func (db *DBHandler) UpdateSet(w http.ResponseWriter, r *http.Request) {
	user := utils.CurrentUser(r)
	tx := db.WithContext(r.Context())

	var req updateSetRequest
	if err := decodeBody(r, &req); err != nil {
		db.fail(w, r, "UpdateSet", err)
		return
	}
	if req.SetID == "" {
		db.fail(w, r, "UpdateSet", badRequest("set_id required"))
		return
	}

	set, err := db.loadOwnedSet(tx, req.SetID, user)
	if err != nil {
		db.fail(w, r, "UpdateSet", err)
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if len(name) > maxSetNameLen {
			db.fail(w, r, "UpdateSet", badRequest("name is too long"))
			return
		}
		if name != "" && name != set.Name {
			updates["name"] = name
		}
	}
	if req.IsPublic != nil && *req.IsPublic != set.IsPublic {
		updates["is_public"] = *req.IsPublic
	}

	if len(updates) > 0 {
		if err := tx.Model(&models.FlashcardSet{}).Where("id = ?", set.ID).Updates(updates).Error; err != nil {
			db.fail(w, r, "UpdateSet", err)
			return
		}
		if set, err = db.loadSet(tx, req.SetID); err != nil {
			db.fail(w, r, "UpdateSet", err)
			return
		}
		db.Log.Info("set updated", zap.String("set_id", set.PublicID), zap.Any("fields", updates))
	}

	db.respond(w, r, http.StatusOK, set)
}

// DELETE /sets removes a set and every flashcard in it.
func (db *DBHandler) DeleteSet(w http.ResponseWriter, r *http.Request) {
	user := utils.CurrentUser(r)
	tx := db.WithContext(r.Context())

	var req deleteSetRequest
	if err := decodeBody(r, &req); err != nil {
		db.fail(w, r, "DeleteSet", err)
		return
	}
	if req.SetID == "" {
		db.fail(w, r, "DeleteSet", badRequest("set_id required"))
		return
	}

	set, err := db.loadOwnedSet(tx, req.SetID, user)
	if err != nil {
		db.fail(w, r, "DeleteSet", err)
		return
	}

	deleted, err := deleteSetCascade(tx, set)
	if err != nil {
		db.fail(w, r, "DeleteSet", err)
		return
	}

	db.Log.Info("set deleted", zap.String("set_id", set.PublicID), zap.Int64("flashcards", deleted))
	db.respond(w, r, http.StatusOK, map[string]interface{}{
		"success":            true,
		"deleted_flashcards": deleted,
	})
}
