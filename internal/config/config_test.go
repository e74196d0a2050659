package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "simsmoke.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "resim", cfg.Tool)
	assert.Empty(t, cfg.Journal)
	assert.Empty(t, cfg.ExtraArgs)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
tool = "/opt/ledger/bin/resim"
journal = "./runs.db"
extra_args = ["--trace", "--data-dir", "/tmp/ledger"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/ledger/bin/resim", cfg.Tool)
	assert.Equal(t, "./runs.db", cfg.Journal)
	assert.Equal(t, []string{"--trace", "--data-dir", "/tmp/ledger"}, cfg.ExtraArgs)
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `journal = "./runs.db"`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "resim", cfg.Tool)
	assert.Equal(t, "./runs.db", cfg.Journal)
}

func TestLoadEmptyFileEqualsDefaults(t *testing.T) {
	path := writeConfig(t, "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `tol = "resim"`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown key")
}

func TestLoadRejectsEmptyTool(t *testing.T) {
	path := writeConfig(t, `tool = "  "`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tool must not be empty")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}
