package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strategy: expand\nmax_variants: 64\nlanguage: ja\n"), 0o600))
	t.Setenv("FORMSKEMA_OUTPUT", "json")

	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, "expand", cfg.Strategy)
	assert.Equal(t, 64, cfg.MaxVariants)
	assert.Equal(t, "ja", cfg.Language)
	assert.Equal(t, "json", cfg.Output)
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_RejectsInvalidSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strategy: guess\nmax_variants: -1\n"), 0o600))

	_, err := Load(New(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSetting)
	assert.Contains(t, err.Error(), "strategy")
	assert.Contains(t, err.Error(), "max_variants")
}

func TestValidate(t *testing.T) {
	assert.Empty(t, Validate(Default()))
	assert.Len(t, Validate(nil), 1)

	cfg := Default()
	cfg.Language = "fr"
	cfg.Output = "xml"
	assert.Len(t, Validate(cfg), 2)
}
