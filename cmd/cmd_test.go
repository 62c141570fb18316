package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("APP_ENV", "test")
	t.Setenv("JWT_SECRET_KEY", "test-secret-key-0123456789")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_URL", filepath.Join(dir, "studyflash.db"))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--env-file", filepath.Join(dir, "missing.env")))
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestMigrateCommand(t *testing.T) {
	assert.Contains(t, run(t, "migrate"), "schema up to date")
}

func TestSweepCommand(t *testing.T) {
	assert.Contains(t, run(t, "sweep"), "removed 0 flashcards and 0 attempt cards")
}
