package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/andrewpaige1/studyflash-api/models"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "0123456789abcdef0123")

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "studyflash-api", cfg.Auth.Issuer)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS)
	assert.Zero(t, cfg.Sweep)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "0123456789abcdef0123")
	t.Setenv("APP_ENV", EnvProduction)
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", DriverPostgres)
	t.Setenv("DB_URL", "postgres://u:p@localhost:5432/studyflash")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("SWEEP_INTERVAL", "15m")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "postgres://u:p@localhost:5432/studyflash", cfg.DB.URL)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 15*time.Minute, cfg.Sweep)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing secret",
			env:     map[string]string{"JWT_SECRET_KEY": ""},
			wantErr: "secret is required",
		},
		{
			name:    "short secret",
			env:     map[string]string{"JWT_SECRET_KEY": "short"},
			wantErr: "secret must be at least 16",
		},
		{
			name:    "unknown driver",
			env:     map[string]string{"JWT_SECRET_KEY": "0123456789abcdef0123", "DB_DRIVER": "mysql"},
			wantErr: "driver must be one of",
		},
		{
			name:    "unknown env",
			env:     map[string]string{"JWT_SECRET_KEY": "0123456789abcdef0123", "APP_ENV": "staging"},
			wantErr: "env must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(New())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STUDYFLASH_DOTENV_PROBE=loaded\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("STUDYFLASH_DOTENV_PROBE") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("STUDYFLASH_DOTENV_PROBE"))
}

func TestConnect_SQLiteMigrates(t *testing.T) {
	db, err := Connect(DB{Driver: DriverSQLite, URL: ":memory:"}, EnvTest, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { Close(db) })

	for _, table := range []string{"users", "flashcard_sets", "flashcards", "attempts", "attempt_cards"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.NoError(t, Ping(t.Context(), db))
}

func TestConnect_UnknownDriver(t *testing.T) {
	_, err := Connect(DB{Driver: "oracle", URL: "x"}, EnvTest, zap.NewNop())
	assert.ErrorContains(t, err, "unsupported db driver")
}

func TestLoad_CORSOrigins(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"single", "https://a.example", []string{"https://a.example"}},
		{"spaces after commas", "https://a.example, https://b.example", []string{"https://a.example", "https://b.example"}},
		{"blank entries", " https://a.example ,, https://b.example ,", []string{"https://a.example", "https://b.example"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET_KEY", "0123456789abcdef0123")
			t.Setenv("CORS_ORIGINS", tt.value)

			cfg, err := Load(New())
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.CORS)
		})
	}
}

func TestConnect_LogsThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	db, err := Connect(DB{Driver: DriverSQLite, URL: ":memory:"}, EnvProduction, zap.New(core))
	require.NoError(t, err)
	t.Cleanup(func() { Close(db) })

	var user models.User
	err = db.Where("username = ?", "nobody").First(&user).Error
	require.Error(t, err)
	assert.Zero(t, logs.FilterMessageSnippet("record not found").Len())

	require.Error(t, db.Exec("SELECT * FROM missing_table").Error)
	entries := logs.FilterMessageSnippet("missing_table").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "gorm", entries[0].LoggerName)
}
