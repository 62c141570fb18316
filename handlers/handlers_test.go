package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/andrewpaige1/studyflash-api/auth"
	"github.com/andrewpaige1/studyflash-api/config"
)

const testSecret = "test-secret-key-0123456789"

type testServer struct {
	t       *testing.T
	handler http.Handler
	db      *gorm.DB
}

func testConfig() *config.Config {
	return &config.Config{
		Env:  config.EnvTest,
		Port: 8080,
		DB:   config.DB{Driver: config.DriverSQLite, URL: ":memory:"},
		Auth: config.Auth{
			Secret:   testSecret,
			Issuer:   "studyflash-api",
			Audience: "studyflash",
			TokenTTL: time.Hour,
		},
		CORS: []string{"http://localhost:3000"},
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	auth.PinCost = bcrypt.MinCost

	cfg := testConfig()
	db, err := config.Connect(cfg.DB, cfg.Env, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = config.Close(db) })

	handler, err := NewRouter(db, cfg, zap.NewNop())
	require.NoError(t, err)

	return &testServer{t: t, handler: handler, db: db}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// signup creates an account and returns its token.
func (s *testServer) signup(username, pin string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/user", "", map[string]string{"username": username, "credential": pin})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	var body map[string]interface{}
	decode(s.t, rec, &body)
	return body["token"].(string)
}

// createSet creates a set and returns its public id.
func (s *testServer) createSet(token, name string, public bool, cards ...map[string]interface{}) string {
	s.t.Helper()
	payload := map[string]interface{}{"name": name, "isPublic": public}
	if len(cards) > 0 {
		payload["cards"] = cards
	}
	rec := s.do(http.MethodPost, "/sets", token, payload)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	var body map[string]interface{}
	decode(s.t, rec, &body)
	return body["id"].(string)
}

func card(front, back string) map[string]interface{} {
	return map[string]interface{}{"front": front, "back": back}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decode(t, rec, &body)
	return body["error"]
}
