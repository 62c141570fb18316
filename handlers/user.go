package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/andrewpaige1/studyflash-api/auth"
	"github.com/andrewpaige1/studyflash-api/models"
	"github.com/andrewpaige1/studyflash-api/utils"
	"github.com/andrewpaige1/studyflash-api/validate"
)

type credentialsRequest struct {
	Username   string `json:"username" validate:"required,username"`
	Credential string `json:"credential" validate:"required,pin"`
}

func (c *credentialsRequest) trim() {
	c.Username = strings.TrimSpace(c.Username)
	c.Credential = strings.TrimSpace(c.Credential)
}

type userResponse struct {
	models.User
	Token string `json:"token,omitempty"`
}

type updateProfileRequest struct {
	NewUsername   *string `json:"new_username"`
	NewCredential *string `json:"new_credential"`
	OldCredential string  `json:"old_credential"`
}

// POST /user
func (db *DBHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		db.fail(w, r, "Signup", err)
		return
	}
	req.trim()
	if err := validate.Struct(req); err != nil {
		db.fail(w, r, "Signup", badRequest(err.Error()))
		return
	}

	tx := db.WithContext(r.Context())

	var existing models.User
	err := tx.Where("username = ?", req.Username).First(&existing).Error
	if err == nil {
		db.fail(w, r, "Signup", conflict("Username already taken"))
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		db.fail(w, r, "Signup", err)
		return
	}

	hash, err := auth.HashPIN(req.Credential)
	if err != nil {
		db.fail(w, r, "Signup", err)
		return
	}

	publicID, err := newPublicID()
	if err != nil {
		db.fail(w, r, "Signup", err)
		return
	}

	user := models.User{
		PublicID: publicID,
		Username: req.Username,
		PinHash:  hash,
		Score:    0,
	}
	if err := tx.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			err = conflict("Username already taken")
		}
		db.fail(w, r, "Signup", err)
		return
	}

	token, err := db.Tokens.CreateToken(user)
	if err != nil {
		db.fail(w, r, "Signup", err)
		return
	}

	db.Log.Info("user created", zap.String("user_id", user.PublicID), zap.String("username", user.Username))
	db.respond(w, r, http.StatusCreated, userResponse{User: user, Token: token})
}

// Login accepts GET /user?username=&credential= and POST /user/login.
func (db *DBHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if r.Method == http.MethodGet {
		req.Username = r.URL.Query().Get("username")
		req.Credential = r.URL.Query().Get("credential")
	} else if err := decodeBody(r, &req); err != nil {
		db.fail(w, r, "Login", err)
		return
	}
	req.trim()

	if req.Username == "" || req.Credential == "" {
		db.fail(w, r, "Login", badRequest("username and credential are required"))
		return
	}

	var user models.User
	if err := db.WithContext(r.Context()).Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = notFound("User not found")
		}
		db.fail(w, r, "Login", err)
		return
	}

	if err := auth.CheckPIN(user.PinHash, req.Credential); err != nil {
		if errors.Is(err, auth.ErrPinMismatch) {
			err = unauthorized("Incorrect PIN")
		}
		db.fail(w, r, "Login", err)
		return
	}

	token, err := db.Tokens.CreateToken(user)
	if err != nil {
		db.fail(w, r, "Login", err)
		return
	}

	db.respond(w, r, http.StatusOK, userResponse{User: user, Token: token})
}

// GET /user/me
func (db *DBHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	db.respond(w, r, http.StatusOK, userResponse{User: *utils.CurrentUser(r)})
}

// PATCH /user
func (db *DBHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := utils.CurrentUser(r)

	var req updateProfileRequest
	if err := decodeBody(r, &req); err != nil {
		db.fail(w, r, "UpdateProfile", err)
		return
	}
	if req.NewUsername == nil && req.NewCredential == nil {
		db.fail(w, r, "UpdateProfile", badRequest("new_username or new_credential is required"))
		return
	}

	tx := db.WithContext(r.Context())
	updates := map[string]interface{}{}

	if req.NewCredential != nil {
		pin := strings.TrimSpace(*req.NewCredential)
		if !validate.PIN(pin) {
			db.fail(w, r, "UpdateProfile", badRequest("new_credential must be 4-8 digits"))
			return
		}
		if err := auth.CheckPIN(user.PinHash, strings.TrimSpace(req.OldCredential)); err != nil {
			if errors.Is(err, auth.ErrPinMismatch) {
				err = unauthorized("Old credential does not match")
			}
			db.fail(w, r, "UpdateProfile", err)
			return
		}
		hash, err := auth.HashPIN(pin)
		if err != nil {
			db.fail(w, r, "UpdateProfile", err)
			return
		}
		updates["pin_hash"] = hash
	}

	if req.NewUsername != nil {
		name := strings.TrimSpace(*req.NewUsername)
		if !validate.Username(name) {
			db.fail(w, r, "UpdateProfile", badRequest("new_username must be 3-20 alphanumeric characters"))
			return
		}
		if name != user.Username {
			var count int64
			if err := tx.Model(&models.User{}).Where("username = ? AND id <> ?", name, user.ID).Count(&count).Error; err != nil {
				db.fail(w, r, "UpdateProfile", err)
				return
			}
			if count > 0 {
				db.fail(w, r, "UpdateProfile", conflict("Username already taken"))
				return
			}
			updates["username"] = name
		}
	}

	// Sets, flashcards and attempts reference the user by id, so a rename
	// needs no further writes.
	if len(updates) > 0 {
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				err = conflict("Username already taken")
			}
			db.fail(w, r, "UpdateProfile", err)
			return
		}
	}

	var updated models.User
	if err := tx.First(&updated, user.ID).Error; err != nil {
		db.fail(w, r, "UpdateProfile", err)
		return
	}

	token, err := db.Tokens.CreateToken(updated)
	if err != nil {
		db.fail(w, r, "UpdateProfile", err)
		return
	}

	db.Log.Info("user updated", zap.String("user_id", updated.PublicID), zap.String("username", updated.Username))
	db.respond(w, r, http.StatusOK, userResponse{User: updated, Token: token})
}

// DELETE /user removes the account together with everything it owns.
func (db *DBHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	user := utils.CurrentUser(r)

	err := db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		attemptIDs := tx.Model(&models.Attempt{}).Select("id").Where("user_id = ?", user.ID)
		if err := tx.Where("attempt_id IN (?)", attemptIDs).Delete(&models.AttemptCard{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Attempt{}).Error; err != nil {
			return err
		}

		setIDs := tx.Model(&models.FlashcardSet{}).Select("id").Where("user_id = ?", user.ID)
		if err := tx.Where("user_id = ? OR set_id IN (?)", user.ID, setIDs).Delete(&models.Flashcard{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.FlashcardSet{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.User{}, user.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return notFound("User not found")
		}
		return nil
	})
	if err != nil {
		db.fail(w, r, "DeleteUser", err)
		return
	}

	db.Log.Info("user deleted", zap.String("user_id", user.PublicID))
	db.respond(w, r, http.StatusOK, map[string]bool{"success": true})
}
