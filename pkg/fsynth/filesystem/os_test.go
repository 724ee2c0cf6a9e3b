package filesystem_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsynth-go/fsynth/pkg/fsynth/filesystem"
)

func TestOSFileSystem_WriteReadRemove(t *testing.T) {
	dir := t.TempDir()
	fsys := filesystem.NewOSFileSystem()
	path := filepath.Join(dir, "a.txt")

	require.NoError(t, fsys.WriteFile(path, []byte("hello"), 0o644))

	data, err := fsys.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	require.NoError(t, fsys.Remove(path))
	exists, err := fsys.Exists(path)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestOSFileSystem_SymlinkReadlink(t *testing.T) {
	dir := t.TempDir()
	fsys := filesystem.NewOSFileSystem()
	target := filepath.Join(dir, "target.txt")
	link := filepath.Join(dir, "link.txt")

	require.NoError(t, fsys.WriteFile(target, []byte("x"), 0o644))
	require.NoError(t, fsys.Symlink(target, link))

	text, err := fsys.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, target, text)
}

func TestOSFileSystem_Exists_NotExist(t *testing.T) {
	fsys := filesystem.NewOSFileSystem()
	exists, err := fsys.Exists(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestIsNotExist(t *testing.T) {
	fsys := filesystem.NewOSFileSystem()
	_, err := fsys.ReadFile(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, filesystem.IsNotExist(err))
}
