package handlers

import (
	"net/http"

	"github.com/rs/cors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/andrewpaige1/studyflash-api/auth"
	"github.com/andrewpaige1/studyflash-api/config"
	"github.com/andrewpaige1/studyflash-api/middleware"
)

type DBHandler struct {
	*gorm.DB
	Tokens *auth.Issuer
	Log    *zap.Logger
}

func NewDBHandler(db *gorm.DB, tokens *auth.Issuer, log *zap.Logger) *DBHandler {
	return &DBHandler{DB: db, Tokens: tokens, Log: log}
}

// NewRouter wires every route behind logging, CORS and token validation.
func NewRouter(db *gorm.DB, cfg *config.Config, log *zap.Logger) (http.Handler, error) {
	authMiddleware, err := middleware.EnsureValidToken(cfg.Auth, log)
	if err != nil {
		return nil, err
	}

	h := NewDBHandler(db, auth.NewIssuer(cfg.Auth), log)
	users := middleware.NewUserLoader(db, log)
	mux := h.Routes(users)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "X-Request-ID", "Accept", "Origin"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(authMiddleware(mux))

	return middleware.WithLogging(log)(corsHandler), nil
}

func (db *DBHandler) Routes(users *middleware.UserLoader) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", db.Health)

	// User
	mux.HandleFunc("POST /user", db.Signup)
	mux.HandleFunc("GET /user", db.Login)
	mux.HandleFunc("POST /user/login", db.Login)
	mux.HandleFunc("GET /user/me", users.Required(db.GetMe))
	mux.HandleFunc("PATCH /user", users.Required(db.UpdateProfile))
	mux.HandleFunc("DELETE /user", users.Required(db.DeleteUser))

	// Set
	mux.HandleFunc("GET /sets", users.Optional(db.GetSets))
	mux.HandleFunc("GET /sets/{setID}", users.Optional(db.GetSetByID))
	mux.HandleFunc("POST /sets", users.Required(db.CreateFlashCardSet))
	mux.HandleFunc("PATCH /sets", users.Required(db.UpdateSet))
	mux.HandleFunc("DELETE /sets", users.Required(db.DeleteSet))

	// Flashcard
	mux.HandleFunc("GET /flashcards", users.Optional(db.GetFlashcards))
	mux.HandleFunc("GET /flashcards/{flashcardID}", users.Optional(db.GetFlashcardByID))
	mux.HandleFunc("POST /flashcards", users.Required(db.CreateFlashCard))
	mux.HandleFunc("PATCH /flashcards", users.Required(db.UpdateFlashCard))
	mux.HandleFunc("DELETE /flashcards", users.Required(db.DeleteFlashCard))

	// Practice and scoring
	mux.HandleFunc("POST /practice", users.Required(db.SubmitPractice))
	mux.HandleFunc("GET /practice", users.Required(db.GetAttempts))
	mux.HandleFunc("PATCH /score", users.Required(db.IncrementScore))
	mux.HandleFunc("GET /leaderboard", db.GetLeaderboard)

	return mux
}
