package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbsPath(t *testing.T) {
	abs, err := AbsPath("foo")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(abs))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "x.json")
	require.NoError(t, os.WriteFile(f, []byte("{}"), 0644))

	exists, err := FileExists(f)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = FileExists(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = FileExists(dir)
	assert.Error(t, err)
}

func TestDirectoryExists(t *testing.T) {
	dir := t.TempDir()
	exists, err := DirectoryExists(dir)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCreateDirectoryIfNotExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, CreateDirectoryIfNotExists(dir, 0755))
	assert.True(t, Exists(dir))
	// calling again is a no-op
	require.NoError(t, CreateDirectoryIfNotExists(dir, 0755))
}

func TestStringInList(t *testing.T) {
	assert.True(t, StringInList("b", []string{"a", "b", "c"}))
	assert.False(t, StringInList("z", []string{"a", "b", "c"}))
}

func TestHasSuffix(t *testing.T) {
	assert.True(t, HasSuffix("netlist.json", ".json"))
	assert.False(t, HasSuffix("netlist.json", ".v"))
}
