package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 12, cfg.JWT.BcryptCost)
	assert.Equal(t, int64(10*1024*1024), cfg.Uploads.MaxFileSizeBytes)
	assert.Equal(t, 5, cfg.Uploads.MaxFiles)
	assert.Equal(t, []string{".pdf", ".doc", ".docx", ".ppt", ".pptx", ".zip", ".rar"}, cfg.Uploads.AllowedExtensions)
	assert.Empty(t, cfg.Projects.AllowedDomains)
	assert.Equal(t, "admin@college.edu", cfg.Seed.Email)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_EXPIRATION", "2h")
	t.Setenv("UPLOADS_MAX_FILES", "3")
	t.Setenv("PROJECTS_ALLOWED_DOMAINS", "IoT, Blockchain ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 3, cfg.Uploads.MaxFiles)
	assert.Equal(t, []string{"IoT", "Blockchain"}, cfg.Projects.AllowedDomains)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("not-a-duration", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, 5*time.Second, parseDuration("5s", time.Minute))
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
