package mfxconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/mfx/mfxconfig"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	config, err := mfxconfig.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, "text", config.OutputFormat)
	assert.Equal(t, 4, config.TabWidth)
	assert.True(t, config.Color)
}

func TestLoadOverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mfx.yaml")
	err := os.WriteFile(path, []byte("output_format: json\ntab_width: 2\ncolor: false\n"), 0o644)
	assert.NoError(t, err)

	config, err := mfxconfig.Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "json", config.OutputFormat)
	assert.Equal(t, 2, config.TabWidth)
	assert.False(t, config.Color)
}

func TestLoadRejectsInvalidOutputFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mfx.yaml")
	err := os.WriteFile(path, []byte("output_format: xml\n"), 0o644)
	assert.NoError(t, err)

	_, err = mfxconfig.Load(path)
	assert.Error(t, err)
	assert.ErrorIs(t, err, mfxconfig.ErrValidation)
}

func TestLoadRejectsUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mfx.yaml")
	err := os.WriteFile(path, []byte("outptu_format: json\n"), 0o644)
	assert.NoError(t, err)

	_, err = mfxconfig.Load(path)
	assert.Error(t, err)
}
