package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("VALIDATOR_CACHE_DIR", "")
	t.Setenv("VALIDATOR_CACHE_MAX_AGE", "")
	t.Setenv("VALIDATOR_OFFLINE", "")
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := New().Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.CacheDir)
	assert.Equal(t, 7, cfg.MaxAgeDays)
	assert.False(t, cfg.Offline)
	assert.Equal(t, "text", cfg.Format)
}

func TestLoad_ReadsFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	content := "cache_dir: /opt/manifests\nmax_age_days: 30\noffline: true\nformat: json\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".mcvalidate.yaml"), []byte(content), 0644))

	cfg, err := New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/opt/manifests", cfg.CacheDir)
	assert.Equal(t, 30, cfg.MaxAgeDays)
	assert.True(t, cfg.Offline)
	assert.Equal(t, "json", cfg.Format)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".mcvalidate.yaml"), []byte("offline: true\n"), 0644))

	cfg, err := New().Load(dir)
	require.NoError(t, err)
	assert.True(t, cfg.Offline)
	assert.Equal(t, 7, cfg.MaxAgeDays)
	assert.Equal(t, "text", cfg.Format)
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".mcvalidate.yaml"), []byte("cache_dir: [unclosed\n"), 0644))

	_, err := New().Load(dir)
	assert.Error(t, err)
}

func TestLoad_InvalidFormatRejected(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".mcvalidate.yaml"), []byte("format: xml\n"), 0644))

	_, err := New().Load(dir)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	content := "cache_dir: /from/file\nmax_age_days: 30\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".mcvalidate.yaml"), []byte(content), 0644))

	t.Setenv("VALIDATOR_CACHE_DIR", "/from/env")
	t.Setenv("VALIDATOR_CACHE_MAX_AGE", "3")
	t.Setenv("VALIDATOR_OFFLINE", "true")

	cfg, err := New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.CacheDir)
	assert.Equal(t, 3, cfg.MaxAgeDays)
	assert.True(t, cfg.Offline)
}

func TestLoad_EnvOfflineSpellings(t *testing.T) {
	dir := t.TempDir()
	for _, spelling := range []string{"1", "true", "yes", "TRUE", "Yes"} {
		clearEnv(t)
		t.Setenv("VALIDATOR_OFFLINE", spelling)
		cfg, err := New().Load(dir)
		require.NoError(t, err)
		assert.True(t, cfg.Offline, "spelling %q", spelling)
	}

	clearEnv(t)
	t.Setenv("VALIDATOR_OFFLINE", "no")
	cfg, err := New().Load(dir)
	require.NoError(t, err)
	assert.False(t, cfg.Offline)
}

func TestLoad_BadEnvMaxAgeIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("VALIDATOR_CACHE_MAX_AGE", "soon")

	cfg, err := New().Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxAgeDays)
}
