package operation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsynth-go/fsynth/pkg/fsynth/filesystem"
	"github.com/fsynth-go/fsynth/pkg/fsynth/operation"
)

func TestCreateArchive_Zip_ExecuteThenUndo(t *testing.T) {
	ctx := context.Background()
	fsys := filesystem.NewMemFS()
	fsys.Seed("/a.txt", []byte("one"), 0o644)
	fsys.Seed("/b.txt", []byte("two"), 0o644)

	op := operation.NewCreateArchive("/out.zip", []string{"/a.txt", "/b.txt"}, operation.FormatZip)
	require.NoError(t, op.Validate(ctx, fsys))
	require.NoError(t, op.Execute(ctx, fsys))

	exists, _ := fsys.Exists("/out.zip")
	assert.True(t, exists)

	require.NoError(t, op.Undo(ctx, fsys))
	exists, _ = fsys.Exists("/out.zip")
	assert.False(t, exists)
}

func TestCreateArchive_InfersFormatFromExtension(t *testing.T) {
	ctx := context.Background()
	fsys := filesystem.NewMemFS()
	fsys.Seed("/a.txt", []byte("one"), 0o644)

	op := operation.NewCreateArchive("/out.tar.gz", []string{"/a.txt"}, "")
	require.NoError(t, op.Validate(ctx, fsys))
	require.NoError(t, op.Execute(ctx, fsys))

	exists, _ := fsys.Exists("/out.tar.gz")
	assert.True(t, exists)
}

func TestCreateArchive_SkipsDirectorySources(t *testing.T) {
	ctx := context.Background()
	fsys := filesystem.NewMemFS()
	fsys.Seed("/a.txt", []byte("one"), 0o644)
	fsys.SeedDir("/sub", 0o755)

	op := operation.NewCreateArchive("/out.tar", []string{"/a.txt", "/sub"}, operation.FormatTar)
	require.NoError(t, op.Validate(ctx, fsys))
	require.NoError(t, op.Execute(ctx, fsys))

	exists, _ := fsys.Exists("/out.tar")
	assert.True(t, exists)
}

func TestCreateArchive_Validate_RejectsMissingSource(t *testing.T) {
	ctx := context.Background()
	fsys := filesystem.NewMemFS()

	op := operation.NewCreateArchive("/out.zip", []string{"/missing.txt"}, operation.FormatZip)
	assert.Error(t, op.Validate(ctx, fsys))
}

func TestCreateArchive_Validate_RejectsExistingTarget(t *testing.T) {
	ctx := context.Background()
	fsys := filesystem.NewMemFS()
	fsys.Seed("/a.txt", []byte("one"), 0o644)
	fsys.Seed("/out.zip", []byte("already here"), 0o644)

	op := operation.NewCreateArchive("/out.zip", []string{"/a.txt"}, operation.FormatZip)
	assert.Error(t, op.Validate(ctx, fsys))
}

func TestCreateArchive_Validate_RejectsEmptySources(t *testing.T) {
	ctx := context.Background()
	fsys := filesystem.NewMemFS()

	op := operation.NewCreateArchive("/out.zip", nil, operation.FormatZip)
	assert.Error(t, op.Validate(ctx, fsys))
}
