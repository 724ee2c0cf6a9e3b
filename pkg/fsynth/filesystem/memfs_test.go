package filesystem_test

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsynth-go/fsynth/pkg/fsynth/filesystem"
)

func TestMemFS_WriteReadFile(t *testing.T) {
	fsys := filesystem.NewMemFS()
	fsys.SeedDir("/dir", 0o755)

	require.NoError(t, fsys.WriteFile("/dir/a.txt", []byte("hi"), 0o644))

	exists, err := fsys.Exists("/dir/a.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	data, err := fsys.ReadFile("/dir/a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), data)
}

func TestMemFS_WriteFile_MissingParentFails(t *testing.T) {
	fsys := filesystem.NewMemFS()
	err := fsys.WriteFile("/nope/a.txt", []byte("hi"), 0o644)
	assert.Error(t, err)
}

func TestMemFS_MkdirAll_CreatesChain(t *testing.T) {
	fsys := filesystem.NewMemFS()
	require.NoError(t, fsys.MkdirAll("/a/b/c", 0o755))

	for _, p := range []string{"/a", "/a/b", "/a/b/c"} {
		info, err := fsys.Stat(p)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestMemFS_Remove_NonEmptyDirFails(t *testing.T) {
	fsys := filesystem.NewMemFS()
	require.NoError(t, fsys.MkdirAll("/a/b", 0o755))
	assert.Error(t, fsys.Remove("/a"))
	assert.NoError(t, fsys.Remove("/a/b"))
	assert.NoError(t, fsys.Remove("/a"))
}

func TestMemFS_SymlinkReadlink(t *testing.T) {
	fsys := filesystem.NewMemFS()
	fsys.Seed("/target.txt", []byte("content"), 0o644)
	require.NoError(t, fsys.Symlink("/target.txt", "/link.txt"))

	text, err := fsys.Readlink("/link.txt")
	require.NoError(t, err)
	assert.Equal(t, "/target.txt", text)

	info, err := fsys.Lstat("/link.txt")
	require.NoError(t, err)
	assert.True(t, info.Mode()&fs.ModeSymlink != 0)

	info, err = fsys.Stat("/link.txt")
	require.NoError(t, err)
	assert.False(t, info.Mode()&fs.ModeSymlink != 0)
}

func TestMemFS_Rename_MovesSubtree(t *testing.T) {
	fsys := filesystem.NewMemFS()
	require.NoError(t, fsys.MkdirAll("/a/b", 0o755))
	require.NoError(t, fsys.WriteFile("/a/b/f.txt", []byte("x"), 0o644))

	require.NoError(t, fsys.Rename("/a", "/z"))

	exists, _ := fsys.Exists("/a")
	assert.False(t, exists)
	data, err := fsys.ReadFile("/z/b/f.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}

func TestMemFS_ReadDir_SortedByName(t *testing.T) {
	fsys := filesystem.NewMemFS()
	fsys.SeedDir("/dir", 0o755)
	fsys.Seed("/dir/b.txt", []byte("b"), 0o644)
	fsys.Seed("/dir/a.txt", []byte("a"), 0o644)

	entries, err := fsys.ReadDir("/dir")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a.txt", entries[0].Name())
	assert.Equal(t, "b.txt", entries[1].Name())
}

func TestMemFS_Chmod(t *testing.T) {
	fsys := filesystem.NewMemFS()
	fsys.Seed("/a.txt", []byte("x"), 0o644)
	require.NoError(t, fsys.Chmod("/a.txt", 0o600))

	info, err := fsys.Stat("/a.txt")
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o600), info.Mode().Perm())
}
