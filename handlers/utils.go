package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/andrewpaige1/studyflash-api/utils"
)

// statusError carries the HTTP status a handler should answer with.
type statusError struct {
	status int
	msg    string
}

func (e *statusError) Error() string {
	return e.msg
}

func badRequest(msg string) error   { return &statusError{http.StatusBadRequest, msg} }
func unauthorized(msg string) error { return &statusError{http.StatusUnauthorized, msg} }
func forbidden(msg string) error    { return &statusError{http.StatusForbidden, msg} }
func notFound(msg string) error     { return &statusError{http.StatusNotFound, msg} }
func conflict(msg string) error     { return &statusError{http.StatusConflict, msg} }

// fail writes err to the client. Store failures are logged and reported as a
// generic 500.
func (db *DBHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	var se *statusError
	switch {
	case errors.As(err, &se):
		utils.Error(w, se.status, se.msg)
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.Error(w, http.StatusNotFound, "Record not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		utils.Error(w, http.StatusConflict, "Record already exists")
	default:
		db.Log.Error(op+": store failure",
			zap.String("request_id", utils.RequestID(r.Context())),
			zap.Error(err),
		)
		utils.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (db *DBHandler) respond(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	if err := utils.JSON(w, status, v); err != nil {
		db.Log.Warn("failed to encode response",
			zap.String("request_id", utils.RequestID(r.Context())),
			zap.Error(err),
		)
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("Request body is required")
		}
		return badRequest(fmt.Sprintf("Invalid request body: %v", err))
	}
	return nil
}

func newPublicID() (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate public id: %w", err)
	}
	return id, nil
}

// splitIDs parses a comma separated id list, dropping blanks.
func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
