package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvVar(t *testing.T) {
	t.Setenv("PERMABLOG_TEST_VAR", "value")
	assert.Equal(t, "value", GetEnvVar("PERMABLOG_TEST_VAR"))
	assert.Panics(t, func() { GetEnvVar("PERMABLOG_TEST_MISSING") })
}

func TestGetEnvVarWithDefault(t *testing.T) {
	assert.Equal(t, "fallback", GetEnvVarWithDefault("PERMABLOG_TEST_MISSING", "fallback"))
	t.Setenv("PERMABLOG_TEST_EMPTY", "")
	assert.Equal(t, "", GetEnvVarWithDefault("PERMABLOG_TEST_EMPTY", "fallback"))
}

func TestGetEnvDurationWithDefault(t *testing.T) {
	assert.Equal(t, time.Hour, GetEnvDurationWithDefault("PERMABLOG_TEST_MISSING", time.Hour))

	t.Setenv("PERMABLOG_TEST_TTL", "90s")
	assert.Equal(t, 90*time.Second, GetEnvDurationWithDefault("PERMABLOG_TEST_TTL", time.Hour))

	t.Setenv("PERMABLOG_TEST_TTL", "soon")
	assert.Panics(t, func() { GetEnvDurationWithDefault("PERMABLOG_TEST_TTL", time.Hour) })
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	assert.NoError(t, os.WriteFile(path, []byte("PERMABLOG_TEST_FROM_FILE=loaded\nPERMABLOG_TEST_PRESET=file\n"), 0o600))
	t.Setenv("PERMABLOG_TEST_PRESET", "env")
	t.Cleanup(func() { os.Unsetenv("PERMABLOG_TEST_FROM_FILE") })

	LoadEnvFile(path)

	assert.Equal(t, "loaded", os.Getenv("PERMABLOG_TEST_FROM_FILE"))
	assert.Equal(t, "env", os.Getenv("PERMABLOG_TEST_PRESET"))

	// missing files are not an error
	LoadEnvFile(filepath.Join(t.TempDir(), "absent.env"))
}
