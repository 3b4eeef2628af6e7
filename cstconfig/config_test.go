package cstconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLimits(t *testing.T) {
	l := DefaultLimits()
	assert.Greater(t, l.MaxInputBytes, 0)
	assert.Greater(t, l.MaxRecursionDepth, 0)
}

func TestLoad_OverridesOneField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "limits.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_recursion_depth: 128\n"), 0o644))

	l, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 128, l.MaxRecursionDepth)
	assert.Equal(t, DefaultLimits().MaxInputBytes, l.MaxInputBytes)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
