package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	o := Default()
	assert.False(t, o.Assembler.ExtendedMode)
	assert.Equal(t, 16, o.Diagnostics.BytesPerLine)
	assert.Equal(t, "hex", o.Diagnostics.NumberFormat)
}

func TestLoadFromMissingFileReturnsDefault(t *testing.T) {
	o, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), o)
}

func TestSaveToAndLoadFromRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sicxeasm.toml")

	o := Default()
	o.Assembler.ExtendedMode = true
	require.NoError(t, o.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.True(t, loaded.Assembler.ExtendedMode)

	_, err = os.Stat(path)
	require.NoError(t, err)
}
