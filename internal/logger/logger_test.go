package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadEnvFile(t *testing.T, content string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	env, err := godotenv.Read(path)
	require.NoError(t, err)
	for key := range env {
		if previous, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, previous) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
	}
	require.NoError(t, godotenv.Load(path))
}

func TestGetUsesEnvFileLoadedBeforeFirstUse(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logger.txt")
	loadEnvFile(t, "LOG_LEVEL=debug\nLOG_FILE="+logFile+"\nENVIRONMENT=test\n")

	log := Get()
	assert.Equal(t, zerolog.DebugLevel, log.GetLevel())

	log.Debug().Msg("written to file")

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "written to file")
}

func TestNewDefaultsToInfo(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FILE", "")
	t.Setenv("ENVIRONMENT", "test")

	assert.Equal(t, zerolog.InfoLevel, New().GetLevel())
}

func TestNewReportsUnopenableLogFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing", "logger.txt")
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("LOG_FILE", missing)
	t.Setenv("ENVIRONMENT", "test")

	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdout := os.Stdout
	os.Stdout = w
	l := New()
	os.Stdout = stdout
	w.Close()

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(out), "could not open log file"), string(out))
	assert.Equal(t, zerolog.InfoLevel, l.GetLevel())

	_, err = os.Stat(missing)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
