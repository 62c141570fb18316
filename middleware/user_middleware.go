package middleware

import (
	"errors"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/andrewpaige1/studyflash-api/models"
	"github.com/andrewpaige1/studyflash-api/utils"
)

// UserLoader resolves the token subject to a stored user and attaches it to
// the request context.
type UserLoader struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewUserLoader(db *gorm.DB, log *zap.Logger) *UserLoader {
	return &UserLoader{db: db, log: log}
}

// Optional attaches the user when the request carries a valid token and
// serves the request anonymously otherwise.
func (u *UserLoader) Optional(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := u.load(r)
		if err != nil {
			u.log.Error("failed to load user", zap.Error(err))
			utils.Error(w, http.StatusInternalServerError, "Failed to load user")
			return
		}
		if user != nil {
			r = r.WithContext(utils.WithUser(r.Context(), user))
		}
		next(w, r)
	}
}

// Required rejects the request unless it carries a valid token for a user
// that still exists.
func (u *UserLoader) Required(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetSubject(r); !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		user, err := u.load(r)
		if err != nil {
			u.log.Error("failed to load user", zap.Error(err))
			utils.Error(w, http.StatusInternalServerError, "Failed to load user")
			return
		}
		if user == nil {
			utils.Error(w, http.StatusUnauthorized, "User no longer exists")
			return
		}

		next(w, r.WithContext(utils.WithUser(r.Context(), user)))
	}
}

func (u *UserLoader) load(r *http.Request) (*models.User, error) {
	subject, ok := utils.GetSubject(r)
	if !ok {
		return nil, nil
	}

	var user models.User
	err := u.db.WithContext(r.Context()).Where("public_id = ?", subject).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
