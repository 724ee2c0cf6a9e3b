package operation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsynth-go/fsynth/pkg/fsynth/filesystem"
	"github.com/fsynth-go/fsynth/pkg/fsynth/operation"
)

func TestDelete_File_ExecuteThenUndo(t *testing.T) {
	ctx := context.Background()
	fsys := filesystem.NewMemFS()
	fsys.Seed("/a.txt", []byte("hi"), 0o644)

	op := operation.NewDelete("/a.txt")
	require.NoError(t, op.Validate(ctx, fsys))
	require.NoError(t, op.Execute(ctx, fsys))

	exists, _ := fsys.Exists("/a.txt")
	assert.False(t, exists)

	require.NoError(t, op.Undo(ctx, fsys))
	data, err := fsys.ReadFile("/a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), data)
}

func TestDelete_EmptyDirectory_ExecuteThenUndo(t *testing.T) {
	ctx := context.Background()
	fsys := filesystem.NewMemFS()
	fsys.SeedDir("/dir", 0o755)

	op := operation.NewDelete("/dir")
	require.NoError(t, op.Validate(ctx, fsys))
	require.NoError(t, op.Execute(ctx, fsys))

	exists, _ := fsys.Exists("/dir")
	assert.False(t, exists)

	require.NoError(t, op.Undo(ctx, fsys))
	info, err := fsys.Stat("/dir")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDelete_Validate_RejectsNonEmptyDirectory(t *testing.T) {
	ctx := context.Background()
	fsys := filesystem.NewMemFS()
	fsys.SeedDir("/dir", 0o755)
	fsys.Seed("/dir/f.txt", []byte("x"), 0o644)

	op := operation.NewDelete("/dir")
	assert.Error(t, op.Validate(ctx, fsys))
}

func TestDelete_MissingTarget_ExecuteIsToleratedNoop(t *testing.T) {
	ctx := context.Background()
	fsys := filesystem.NewMemFS()

	op := operation.NewDelete("/missing.txt")
	require.NoError(t, op.Validate(ctx, fsys))
	require.NoError(t, op.Execute(ctx, fsys))
	require.NoError(t, op.Undo(ctx, fsys))
}

func TestDelete_Symlink_ExecuteThenUndo(t *testing.T) {
	ctx := context.Background()
	fsys := filesystem.NewMemFS()
	require.NoError(t, fsys.Symlink("/target.txt", "/link.txt"))

	op := operation.NewDelete("/link.txt")
	require.NoError(t, op.Validate(ctx, fsys))
	require.NoError(t, op.Execute(ctx, fsys))

	require.NoError(t, op.Undo(ctx, fsys))
	text, err := fsys.Readlink("/link.txt")
	require.NoError(t, err)
	assert.Equal(t, "/target.txt", text)
}

func TestDelete_Undo_RestoresFileContentExactly(t *testing.T) {
	ctx := context.Background()
	fsys := filesystem.NewMemFS()
	fsys.Seed("/a.txt", []byte("hi"), 0o644)

	op := operation.NewDelete("/a.txt")
	require.NoError(t, op.Validate(ctx, fsys))
	require.NoError(t, op.Execute(ctx, fsys))

	err := op.Undo(ctx, fsys)
	require.NoError(t, err)
	data, rerr := fsys.ReadFile("/a.txt")
	require.NoError(t, rerr)
	assert.Equal(t, []byte("hi"), data)
}

func TestDelete_Undo_NoopIfTargetAlreadyOccupied(t *testing.T) {
	ctx := context.Background()
	fsys := filesystem.NewMemFS()
	fsys.Seed("/a.txt", []byte("hi"), 0o644)

	op := operation.NewDelete("/a.txt")
	require.NoError(t, op.Validate(ctx, fsys))
	require.NoError(t, op.Execute(ctx, fsys))

	fsys.Seed("/a.txt", []byte("someone else wrote this"), 0o644)

	require.NoError(t, op.Undo(ctx, fsys))
	data, err := fsys.ReadFile("/a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("someone else wrote this"), data)
}
